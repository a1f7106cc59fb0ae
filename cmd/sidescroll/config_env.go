package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"sidescroll/internal/config"
)

const (
	envConfigJSON    = "SIDESCROLL_CONFIG_JSON"
	envConfigYAMLB64 = "SIDESCROLL_CONFIG_YAML_B64"
)

// configFromEnv decodes a configuration handed over through the environment.
// JSON wins when both variables are set. It reports false when neither is.
func configFromEnv() (*config.Config, bool, error) {
	jsonPayload := os.Getenv(envConfigJSON)
	yamlPayload := os.Getenv(envConfigYAMLB64)

	if jsonPayload == "" && yamlPayload == "" {
		return nil, false, nil
	}

	if jsonPayload != "" {
		cfg, err := config.Parse([]byte(jsonPayload), config.FormatJSON)
		if err != nil {
			return nil, false, fmt.Errorf("decode env config json: %w", err)
		}
		return cfg, true, nil
	}

	data, err := base64.StdEncoding.DecodeString(yamlPayload)
	if err != nil {
		return nil, false, fmt.Errorf("decode env config yaml: %w", err)
	}
	cfg, err := config.Parse(data, config.FormatYAML)
	if err != nil {
		return nil, false, fmt.Errorf("parse env config yaml: %w", err)
	}
	return cfg, true, nil
}

// loadConfig prefers the environment over the file at path.
func loadConfig(path string) (*config.Config, string, error) {
	cfg, ok, err := configFromEnv()
	if err != nil {
		return nil, "", err
	}
	if ok {
		return cfg, "env", nil
	}
	cfg, err = config.Load(path)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return cfg, "defaults", nil
	}
	return cfg, path, nil
}

// writeConfig stores the effective configuration at path, as YAML for
// .yaml/.yml paths and indented JSON otherwise.
func writeConfig(path string, cfg *config.Config) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	var (
		data []byte
		err  error
	)
	if config.FormatForPath(path) == config.FormatYAML {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
