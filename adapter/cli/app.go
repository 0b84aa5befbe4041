package cli

import (
	"context"
	"time"

	"github.com/google/uuid"

	digestServices "github.com/Sc0remac/cadenzor/internal/digest/application/services"
	priorityServices "github.com/Sc0remac/cadenzor/internal/priority/application/services"
	priorityDomain "github.com/Sc0remac/cadenzor/internal/priority/domain"
	"github.com/Sc0remac/cadenzor/internal/priority/infrastructure/classify"
	rulesDomain "github.com/Sc0remac/cadenzor/internal/rules/domain"
	"github.com/Sc0remac/cadenzor/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	ConfigService *priorityServices.ConfigService
	DigestService *digestServices.DigestService
	RuleRepo      rulesDomain.Repository
	Classifier    *classify.Client
	Health        *observability.HealthRegistry

	CurrentUserID uuid.UUID
}

// SetCurrentUserID sets the user scope for subsequent commands.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

var app *App

// SetApp sets the CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the CLI application instance, or nil when the container
// could not be initialized. Commands that only need the scoring engine fall
// back to the default configuration in that case.
func GetApp() *App {
	return app
}

// EffectiveScoringConfig resolves the caller's scoring configuration,
// falling back to defaults when no database is available.
func EffectiveScoringConfig(ctx context.Context, now time.Time) (*priorityDomain.ScoringConfig, error) {
	a := GetApp()
	if a == nil || a.ConfigService == nil {
		return priorityDomain.DefaultScoringConfig(), nil
	}
	return a.ConfigService.EffectiveConfig(ctx, a.CurrentUserID, now)
}
