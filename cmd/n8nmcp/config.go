package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all bridge configuration.
// Priority: env vars > settings.json > defaults.
type Config struct {
	BaseURL        string `json:"base_url"`
	APIKey         string `json:"api_key"`
	LogLevel       string `json:"log_level"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	VerifySSL      bool   `json:"verify_ssl"`
}

func defaultConfig() Config {
	return Config{
		BaseURL:        "https://n8n.homelab.com",
		LogLevel:       "info",
		TimeoutSeconds: 30,
		// Homelab n8n instances usually run on self-signed certs.
		VerifySSL: false,
	}
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".n8nmcp"
	}
	return filepath.Join(home, ".n8nmcp")
}

func settingsPath() string {
	return filepath.Join(configDir(), "settings.json")
}

func loadConfig() (Config, error) {
	cfg := defaultConfig()

	// Layer 2: settings.json (ignore if missing).
	if data, err := os.ReadFile(settingsPath()); err == nil {
		_ = json.Unmarshal(data, &cfg)
	}

	// Layer 3: env vars override.
	if v := os.Getenv("N8N_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("N8N_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("N8N_MCP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("N8N_MCP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("N8N_MCP_VERIFY_SSL"); v != "" {
		cfg.VerifySSL = v == "true" || v == "1"
	}

	if cfg.APIKey == "" {
		return cfg, errors.New("N8N_API_KEY is required (env var or api_key in settings.json)")
	}

	return cfg, nil
}
