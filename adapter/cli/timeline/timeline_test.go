package timeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sc0remac/cadenzor/internal/scheduling/domain"
)

func writeItems(t *testing.T, items []map[string]any) string {
	t.Helper()
	data, err := json.Marshal(items)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func runTimeline(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	Cmd.SetOut(&buf)
	Cmd.SetErr(&buf)
	Cmd.SetArgs(args)
	err := Cmd.Execute()
	return buf.String(), err
}

func TestConflicts_LaneOverlap(t *testing.T) {
	path := writeItems(t, []map[string]any{
		{
			"id":        "11111111-1111-1111-1111-111111111111",
			"title":     "Video shoot",
			"lane":      "promo",
			"starts_at": "2026-06-01T10:00:00Z",
			"ends_at":   "2026-06-01T12:00:00Z",
		},
		{
			"id":        "22222222-2222-2222-2222-222222222222",
			"title":     "Press call",
			"lane":      "promo",
			"starts_at": "2026-06-01T11:00:00Z",
			"ends_at":   "2026-06-01T13:00:00Z",
		},
	})

	out, err := runTimeline(t, "conflicts", "--file", path, "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "[warning]")
	assert.Contains(t, out, "lane_overlap")
	assert.Contains(t, out, "1 conflict(s) across 2 item(s)")
}

func TestConflicts_CleanCalendar(t *testing.T) {
	path := writeItems(t, []map[string]any{
		{
			"id":        "11111111-1111-1111-1111-111111111111",
			"title":     "Studio day",
			"lane":      "recording",
			"starts_at": "2026-06-01T10:00:00Z",
			"ends_at":   "2026-06-01T12:00:00Z",
		},
	})

	out, err := runTimeline(t, "conflicts", "--file", path, "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "no conflicts")
}

func TestSlots_EmptyCalendarJSON(t *testing.T) {
	path := writeItems(t, nil)

	out, err := runTimeline(t, "slots",
		"--file", path,
		"--from", "2026-06-01T09:00:00Z",
		"--to", "2026-06-01T17:00:00Z",
		"--duration", "2",
		"--json",
	)
	require.NoError(t, err)

	var slots []domain.Slot
	require.NoError(t, json.Unmarshal([]byte(out), &slots))
	require.NotEmpty(t, slots)
	assert.Equal(t, time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC), slots[0].Start.UTC())
}

func TestSlots_BusinessHoursOnlyJSON(t *testing.T) {
	t.Cleanup(func() { slotsBusinessHours = false })
	path := writeItems(t, nil)

	// Saturday 2026-06-06 through Sunday: nothing qualifies
	out, err := runTimeline(t, "slots",
		"--file", path,
		"--from", "2026-06-06T09:00:00Z",
		"--to", "2026-06-07T17:00:00Z",
		"--duration", "2",
		"--business-hours",
		"--json=false",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "no slots found")
}

func TestSlots_TerritoryBufferJSON(t *testing.T) {
	t.Cleanup(func() { slotsTerritory = "" })
	path := writeItems(t, []map[string]any{
		{
			"id":        "11111111-1111-1111-1111-111111111111",
			"title":     "US promo run",
			"territory": "US",
			"starts_at": "2026-06-02T03:00:00Z",
			"ends_at":   "2026-06-02T05:00:00Z",
		},
	})

	out, err := runTimeline(t, "slots",
		"--file", path,
		"--from", "2026-06-01T09:00:00Z",
		"--to", "2026-06-02T15:00:00Z",
		"--duration", "1",
		"--territory", "EU",
		"--json",
	)
	require.NoError(t, err)

	var slots []domain.Slot
	require.NoError(t, json.Unmarshal([]byte(out), &slots))
	blocked := domain.TimeRange{
		Start: time.Date(2026, 6, 1, 11, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 6, 2, 21, 0, 0, 0, time.UTC),
	}
	require.NotEmpty(t, slots)
	for _, s := range slots {
		assert.False(t, blocked.Overlaps(domain.TimeRange{Start: s.Start.UTC(), End: s.End.UTC()}))
	}
}

func TestSlots_InvalidWindow(t *testing.T) {
	path := writeItems(t, nil)

	_, err := runTimeline(t, "slots", "--file", path, "--from", "not-a-time", "--to", "2026-06-01T17:00:00Z")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --from")
}
