package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlombardi/casa-rota/pkg/core/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "casa_rota_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromPath_Postgres(t *testing.T) {
	path := writeConfig(t, `
storage: postgres
databaseURL: postgres://localhost:5432/casarota
rosterSource: postgres
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Storage)
	assert.Equal(t, "postgres://localhost:5432/casarota", cfg.DatabaseURL)
	assert.Equal(t, "postgres", cfg.RosterSource)
}

func TestLoadFromPath_RedisWithSheetsRoster(t *testing.T) {
	path := writeConfig(t, `
storage: redis
redisAddr: localhost:6379
rosterSource: sheets
rosterSheetID: abc123
rosterTab: Roster
softShiftLimit: 4
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Storage)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "abc123", cfg.RosterSheetID)
	assert.Equal(t, 4, cfg.SoftShiftLimit)
}

func TestLoadFromPath_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown storage", "storage: cassandra\nrosterSource: postgres\n"},
		{"postgres without url", "storage: postgres\nrosterSource: postgres\n"},
		{"redis without addr", "storage: redis\nrosterSource: postgres\n"},
		{"sheets without sheet id", "storage: redis\nredisAddr: localhost:6379\nrosterSource: sheets\n"},
		{"negative soft limit", "storage: redis\nredisAddr: localhost:6379\nrosterSource: postgres\nsoftShiftLimit: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromPath(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromPath_ZeroSoftLimitOmitted(t *testing.T) {
	// Omitting the key is fine; the session falls back to its default
	path := writeConfig(t, `
storage: redis
redisAddr: localhost:6379
rosterSource: postgres
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.SoftShiftLimit)
}

func TestValidate_RejectsBadRRule(t *testing.T) {
	cfg := &Config{
		Storage:      "redis",
		RedisAddr:    "localhost:6379",
		RosterSource: "postgres",
		Closures:     []string{"EVERY=MONDAY"},
	}

	err := Validate(cfg)
	assert.ErrorContains(t, err, "closures[0]")
}

func TestRoleTable_DefaultsWhenNoOverrides(t *testing.T) {
	cfg := &Config{}

	table := cfg.RoleTable()

	rc, ok := table.Lookup(model.RoleBreakfast)
	require.True(t, ok)
	assert.Equal(t, model.Fixed, rc.Kind)
	assert.Equal(t, []string{"06:55 - 12:00"}, rc.Windows)
}

func TestRoleTable_OverrideReplacesEntry(t *testing.T) {
	cfg := &Config{
		Roles: []RoleOverride{
			{Name: string(model.RoleBreakfast), Kind: "flexible", Windows: []string{"07:00 - 11:00", "08:00 - 12:00"}},
		},
	}

	table := cfg.RoleTable()

	rc, ok := table.Lookup(model.RoleBreakfast)
	require.True(t, ok)
	assert.Equal(t, model.Flexible, rc.Kind)
	assert.Equal(t, []string{"07:00 - 11:00", "08:00 - 12:00"}, rc.Windows)

	// Untouched entries keep their defaults
	bar, ok := table.Lookup(model.RoleBar)
	require.True(t, ok)
	assert.Equal(t, model.Flexible, bar.Kind)
}

func TestClosedDaysFor_NoClosures(t *testing.T) {
	cfg := &Config{}

	closed, err := cfg.ClosedDaysFor(time.Date(2023, 10, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Empty(t, closed)
}

func TestClosedDaysFor_WeeklyRule(t *testing.T) {
	cfg := &Config{Closures: []string{"FREQ=WEEKLY;BYDAY=MO,TH"}}

	closed, err := cfg.ClosedDaysFor(time.Date(2023, 10, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, closed[model.Mon])
	assert.True(t, closed[model.Thu])
	assert.False(t, closed[model.Tue])
	assert.False(t, closed[model.Sun])
}

func TestClosedDaysFor_MultipleRulesMerge(t *testing.T) {
	cfg := &Config{Closures: []string{
		"FREQ=WEEKLY;BYDAY=MO",
		"FREQ=WEEKLY;BYDAY=SU",
	}}

	closed, err := cfg.ClosedDaysFor(time.Date(2023, 10, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, closed[model.Mon])
	assert.True(t, closed[model.Sun])
	assert.Len(t, closed, 2)
}
