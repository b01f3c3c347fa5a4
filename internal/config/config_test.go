package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_BIND_ADDR", ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":9090" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":9090")
	}
	if cfg.ContextDepth != 10 {
		t.Fatalf("ContextDepth = %d, want 10", cfg.ContextDepth)
	}
	if cfg.WorkflowTurnCeiling != 5 {
		t.Fatalf("WorkflowTurnCeiling = %d, want 5", cfg.WorkflowTurnCeiling)
	}
	if cfg.WorkflowStateTimeout != 45*time.Second {
		t.Fatalf("WorkflowStateTimeout = %v, want 45s", cfg.WorkflowStateTimeout)
	}
	if !cfg.ConfirmPowerActions {
		t.Fatalf("ConfirmPowerActions = false, want true by default")
	}
	if cfg.DefaultLanguage != "en" {
		t.Fatalf("DefaultLanguage = %q, want %q", cfg.DefaultLanguage, "en")
	}
	if cfg.DatabaseURL != "" {
		t.Fatalf("DatabaseURL = %q, want empty default", cfg.DatabaseURL)
	}
}

func TestLoadExplicitOverrides(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_CONTEXT_DEPTH", "25")
	t.Setenv("APP_WORKFLOW_TURN_CEILING", "3")
	t.Setenv("APP_WORKFLOW_STATE_TIMEOUT", "90s")
	t.Setenv("APP_DEFAULT_LANGUAGE", "ur")
	t.Setenv("APP_CONFIRM_POWER_ACTIONS", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ContextDepth != 25 {
		t.Fatalf("ContextDepth = %d, want 25", cfg.ContextDepth)
	}
	if cfg.WorkflowTurnCeiling != 3 {
		t.Fatalf("WorkflowTurnCeiling = %d, want 3", cfg.WorkflowTurnCeiling)
	}
	if cfg.WorkflowStateTimeout != 90*time.Second {
		t.Fatalf("WorkflowStateTimeout = %v, want 90s", cfg.WorkflowStateTimeout)
	}
	if cfg.DefaultLanguage != "ur" {
		t.Fatalf("DefaultLanguage = %q, want %q", cfg.DefaultLanguage, "ur")
	}
	if cfg.ConfirmPowerActions {
		t.Fatalf("ConfirmPowerActions = true, want false")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"zero context depth", "APP_CONTEXT_DEPTH", "0"},
		{"negative turn ceiling", "APP_WORKFLOW_TURN_CEILING", "-1"},
		{"tiny state timeout", "APP_WORKFLOW_STATE_TIMEOUT", "1s"},
		{"unknown language", "APP_DEFAULT_LANGUAGE", "fr"},
		{"garbage bool", "APP_CONFIRM_POWER_ACTIONS", "maybe"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setCoreEnvEmpty(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() error = nil, want error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_ALLOW_ANY_ORIGIN",
		"APP_CATALOG_PATH",
		"APP_CONTEXT_DEPTH",
		"APP_WORKFLOW_TURN_CEILING",
		"APP_WORKFLOW_STATE_TIMEOUT",
		"APP_WMCTRL_PATH",
		"APP_XDOTOOL_PATH",
		"APP_CONFIRM_POWER_ACTIONS",
		"APP_DEFAULT_LANGUAGE",
		"DATABASE_URL",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}
