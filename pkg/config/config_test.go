package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/matzehuels/taskplan/pkg/errors"
	"github.com/matzehuels/taskplan/pkg/plan"
	"github.com/matzehuels/taskplan/pkg/plan/solver"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, plan.DefaultCategories, cfg.PlanCategories())
	require.Equal(t, 22, cfg.Limits.BruteForce)
	require.Equal(t, 30*time.Second, cfg.Solve.Timeout.Duration)
}

func TestDecode(t *testing.T) {
	doc := `
categories = ["FE", "BE", "ML"]

[limits]
brute_force = 16
table = 50000

[constraints]
max_cost = 5000
max_hours = 20
[constraints.min]
ML = 1

[solve]
strategy = "dp"
timeout = "2s"

[server]
redis_url = "redis://localhost:6379/0"
metrics = false
`
	cfg := Default()
	require.NoError(t, Decode([]byte(doc), &cfg))

	require.Equal(t, plan.Categories{"FE", "BE", "ML"}, cfg.PlanCategories())
	require.Equal(t, 16, cfg.Limits.BruteForce)
	require.Equal(t, 30, cfg.Limits.MeetInTheMiddle, "unset keys keep defaults")
	require.Equal(t, plan.Constraints{
		MaxCost:           5000,
		MaxHours:          20,
		MinCategoryTotals: plan.Amounts{"ML": 1},
	}, cfg.PlanConstraints())
	require.Equal(t, 2*time.Second, cfg.Solve.Timeout.Duration)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.False(t, cfg.Server.Metrics)

	e := cfg.Engine()
	require.Equal(t, 16, e.BruteForceCap)
	require.Equal(t, 50000, e.TableCap)
	require.Equal(t, plan.Categories{"FE", "BE", "ML"}, e.Categories)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", `categories = [`},
		{"unknown key", `colour = "blue"`},
		{"negative cost", "[constraints]\nmax_cost = -1"},
		{"cost above bound", "[constraints]\nmax_cost = 2000000000000"},
		{"negative minimum", "[constraints.min]\nFE = -2"},
		{"cap too large", "[limits]\nbrute_force = 100"},
		{"table cap too large", "[limits]\ntable = 100000000"},
		{"empty categories", `categories = []`},
		{"bad category", `categories = ["front end"]`},
		{"unknown strategy", "[solve]\nstrategy = \"annealing\""},
		{"bad timeout", "[solve]\ntimeout = \"soon\""},
		{"bad redis url", "[server]\nredis_url = \"http://x\""},
		{"bad mongo uri", "[server]\nmongo_uri = \"postgres://x\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := Decode([]byte(tt.doc), &cfg)
			require.Error(t, err)
			require.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[solve]\nstrategy = \"Greedy\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Greedy", cfg.Solve.Strategy)

	s, ok := solver.ParseStrategy(cfg.Solve.Strategy)
	require.True(t, ok)
	require.Equal(t, solver.Greedy, s)
}

func TestLoadMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load("")
	require.NoError(t, err, "missing default file falls back to defaults")
	require.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(dir, "nope.toml"))
	require.True(t, apperrors.Is(err, apperrors.ErrCodeFileNotFound), "got %v", err)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := DefaultPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/tmp/xdg", "taskplan", "config.toml"), p)
}
