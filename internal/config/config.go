package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the assistant service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	// CatalogPath points at an optional YAML overlay for the alias
	// catalog. Empty means compiled-in defaults.
	CatalogPath string

	// ContextDepth is the size of the conversational context ring.
	ContextDepth int

	// WorkflowTurnCeiling bounds how many utterances one guided
	// workflow may consume before it is cancelled.
	WorkflowTurnCeiling int
	// WorkflowStateTimeout expires a workflow stuck in one state.
	WorkflowStateTimeout time.Duration

	// WMCtrlPath and XdotoolPath locate the window-manager tools used
	// for desktop sampling.
	WMCtrlPath  string
	XdotoolPath string

	// ConfirmPowerActions gates shutdown/reboot behind a confirmation.
	ConfirmPowerActions bool

	// DefaultLanguage selects response phrasing when an utterance does
	// not carry one ("en" or "ur").
	DefaultLanguage string

	// DatabaseURL enables the Postgres command audit log when set.
	DatabaseURL string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:             envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:     envOrDefault("APP_METRICS_NAMESPACE", "assistant"),
		AllowAnyOrigin:       false,
		CatalogPath:          stringsTrimSpace("APP_CATALOG_PATH"),
		ContextDepth:         10,
		WorkflowTurnCeiling:  5,
		WorkflowStateTimeout: 45 * time.Second,
		WMCtrlPath:           envOrDefault("APP_WMCTRL_PATH", "wmctrl"),
		XdotoolPath:          envOrDefault("APP_XDOTOOL_PATH", "xdotool"),
		ConfirmPowerActions:  true,
		DefaultLanguage:      envOrDefault("APP_DEFAULT_LANGUAGE", "en"),
		DatabaseURL:          stringsTrimSpace("DATABASE_URL"),
		ShutdownTimeout:      15 * time.Second,
	}
	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.WorkflowStateTimeout, err = durationFromEnv("APP_WORKFLOW_STATE_TIMEOUT", cfg.WorkflowStateTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ContextDepth, err = intFromEnv("APP_CONTEXT_DEPTH", cfg.ContextDepth)
	if err != nil {
		return Config{}, err
	}
	cfg.WorkflowTurnCeiling, err = intFromEnv("APP_WORKFLOW_TURN_CEILING", cfg.WorkflowTurnCeiling)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.ConfirmPowerActions, err = boolFromEnv("APP_CONFIRM_POWER_ACTIONS", cfg.ConfirmPowerActions)
	if err != nil {
		return Config{}, err
	}

	if cfg.ContextDepth <= 0 {
		return Config{}, fmt.Errorf("APP_CONTEXT_DEPTH must be positive")
	}
	if cfg.WorkflowTurnCeiling <= 0 {
		return Config{}, fmt.Errorf("APP_WORKFLOW_TURN_CEILING must be positive")
	}
	if cfg.WorkflowStateTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_WORKFLOW_STATE_TIMEOUT must be at least 5s")
	}
	switch cfg.DefaultLanguage {
	case "en", "ur":
	default:
		return Config{}, fmt.Errorf("APP_DEFAULT_LANGUAGE must be en or ur")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return trimSpace(os.Getenv(key))
}

func trimSpace(v string) string {
	for len(v) > 0 && (v[0] == ' ' || v[0] == '\n' || v[0] == '\t' || v[0] == '\r') {
		v = v[1:]
	}
	for len(v) > 0 {
		c := v[len(v)-1]
		if c == ' ' || c == '\n' || c == '\t' || c == '\r' {
			v = v[:len(v)-1]
			continue
		}
		break
	}
	return v
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
