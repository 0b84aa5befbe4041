package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sc0remac/cadenzor/internal/priority/infrastructure/classify"
)

var (
	classifySubject string
	classifySender  string
	classifySnippet string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a message through the classifier service",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Classifier == nil {
			return fmt.Errorf("classification requires CLASSIFIER_URL to be set")
		}

		result, err := app.Classifier.Classify(cmd.Context(), classify.Request{
			Subject: classifySubject,
			Sender:  classifySender,
			Snippet: classifySnippet,
		})
		if errors.Is(err, classify.ErrUnavailable) {
			return fmt.Errorf("classifier is unavailable, try again later: %w", err)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "category:   %s\n", result.Category)
		fmt.Fprintf(out, "confidence: %.2f\n", result.Confidence)
		if len(result.Labels) > 0 {
			fmt.Fprintf(out, "labels:     %s\n", strings.Join(result.Labels, ", "))
		}
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifySubject, "subject", "", "message subject")
	classifyCmd.Flags().StringVar(&classifySender, "sender", "", "message sender")
	classifyCmd.Flags().StringVar(&classifySnippet, "snippet", "", "message snippet")
	_ = classifyCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(classifyCmd)
}
