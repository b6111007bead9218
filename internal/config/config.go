// Package config loads formdraft settings. Sources are layered with the
// following precedence: built-in defaults → .env file → YAML file →
// FORMDRAFT_* environment variables → CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdraft/pkg/controller"
	"github.com/goliatone/go-formdraft/pkg/draft"
)

const (
	DefaultFormID   = "predictionForm"
	DefaultEndpoint = "http://localhost:8081/api/predict"
	DefaultHealth   = "http://localhost:8081/api/health"

	envPrefix = "FORMDRAFT_"
)

// Notification surfaces selectable with the notification setting.
const (
	NotificationText  = "text"
	NotificationAlert = "alert"
	NotificationToast = "toast"
)

// Config holds every setting the CLI and Setup consume.
type Config struct {
	FormID         string        `yaml:"form_id"`
	StorageKey     string        `yaml:"storage_key"`
	StorageDir     string        `yaml:"storage_dir"`
	Endpoint       string        `yaml:"endpoint"`
	HealthEndpoint string        `yaml:"health_endpoint"`
	Mode           string        `yaml:"mode"`
	RetryMax       int           `yaml:"retry_max"`
	RetryWait      time.Duration `yaml:"retry_wait"`
	Timeout        time.Duration `yaml:"timeout"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
	Notification   string        `yaml:"notification"`
	FormFile       string        `yaml:"form_file"`
	OpenAPIFile    string        `yaml:"openapi_file"`
	OperationID    string        `yaml:"operation_id"`

	sources []string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		FormID:         DefaultFormID,
		StorageKey:     draft.DefaultKey,
		StorageDir:     DefaultStorageDir(),
		Endpoint:       DefaultEndpoint,
		HealthEndpoint: DefaultHealth,
		Mode:           string(controller.ModeAPI),
		RetryWait:      time.Second,
		LogLevel:       "info",
		LogFormat:      "text",
		Notification:   NotificationText,
		sources:        []string{"defaults"},
	}
}

// DefaultStorageDir returns the directory drafts are written to when no
// storage_dir is configured.
func DefaultStorageDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".formdraft", "drafts")
	}
	return filepath.Join(home, ".formdraft", "drafts")
}

// Sources lists the layers that contributed to the config, in order.
func (c *Config) Sources() []string {
	return c.sources
}

// Load layers an optional .env file, an optional YAML file and the process
// environment over the defaults. Missing files are skipped; unreadable or
// malformed ones are errors.
func Load(envFile, configFile string) (*Config, error) {
	cfg := Default()

	if envFile != "" {
		if err := godotenv.Load(envFile); err == nil {
			cfg.sources = append(cfg.sources, envFile)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		switch {
		case err == nil:
			if err := cfg.mergeYAML(data); err != nil {
				return nil, fmt.Errorf("config: %s: %w", configFile, err)
			}
			cfg.sources = append(cfg.sources, configFile)
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeYAML overwrites the fields present in data.
func (c *Config) mergeYAML(data []byte) error {
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	c.mergeFrom(&file, func(key string) bool {
		_, ok := raw[key]
		return ok
	})
	return nil
}

func (c *Config) mergeFrom(src *Config, set func(key string) bool) {
	mergeString(&c.FormID, src.FormID, set("form_id"))
	mergeString(&c.StorageKey, src.StorageKey, set("storage_key"))
	mergeString(&c.StorageDir, src.StorageDir, set("storage_dir"))
	mergeString(&c.Endpoint, src.Endpoint, set("endpoint"))
	mergeString(&c.HealthEndpoint, src.HealthEndpoint, set("health_endpoint"))
	mergeString(&c.Mode, src.Mode, set("mode"))
	mergeString(&c.LogLevel, src.LogLevel, set("log_level"))
	mergeString(&c.LogFormat, src.LogFormat, set("log_format"))
	mergeString(&c.Notification, src.Notification, set("notification"))
	mergeString(&c.FormFile, src.FormFile, set("form_file"))
	mergeString(&c.OpenAPIFile, src.OpenAPIFile, set("openapi_file"))
	mergeString(&c.OperationID, src.OperationID, set("operation_id"))
	if set("retry_max") {
		c.RetryMax = src.RetryMax
	}
	if set("retry_wait") {
		c.RetryWait = src.RetryWait
	}
	if set("timeout") {
		c.Timeout = src.Timeout
	}
}

func mergeString(dst *string, value string, set bool) {
	if set {
		*dst = strings.TrimSpace(value)
	}
}

// applyEnv applies FORMDRAFT_* variables. lookup is os.LookupEnv outside
// tests.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"FORM_ID":         &c.FormID,
		"STORAGE_KEY":     &c.StorageKey,
		"STORAGE_DIR":     &c.StorageDir,
		"ENDPOINT":        &c.Endpoint,
		"HEALTH_ENDPOINT": &c.HealthEndpoint,
		"MODE":            &c.Mode,
		"LOG_LEVEL":       &c.LogLevel,
		"LOG_FORMAT":      &c.LogFormat,
		"NOTIFICATION":    &c.Notification,
		"FORM_FILE":       &c.FormFile,
		"OPENAPI_FILE":    &c.OpenAPIFile,
		"OPERATION_ID":    &c.OperationID,
	}
	for _, name := range sortedKeys(strs) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*strs[name] = strings.TrimSpace(v)
			c.sources = append(c.sources, "env:"+envPrefix+name)
		}
	}

	if v, ok := lookup(envPrefix + "RETRY_MAX"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %sRETRY_MAX: %w", envPrefix, err)
		}
		c.RetryMax = n
		c.sources = append(c.sources, "env:"+envPrefix+"RETRY_MAX")
	}
	durations := map[string]*time.Duration{
		"RETRY_WAIT": &c.RetryWait,
		"TIMEOUT":    &c.Timeout,
	}
	for _, name := range sortedKeys(durations) {
		v, ok := lookup(envPrefix + name)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s%s: %w", envPrefix, name, err)
		}
		*durations[name] = d
		c.sources = append(c.sources, "env:"+envPrefix+name)
	}
	return nil
}

// Validate reports settings that cannot produce a working controller.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.FormID) == "" {
		errs = append(errs, errors.New("form_id is required"))
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		errs = append(errs, errors.New("storage_key is required"))
	}
	mode, ok := controller.ParseMode(c.Mode)
	if !ok {
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	if mode == controller.ModeAPI && strings.TrimSpace(c.Endpoint) == "" {
		errs = append(errs, errors.New("endpoint is required in api mode"))
	}
	switch c.Notification {
	case "", NotificationText, NotificationAlert, NotificationToast:
	default:
		errs = append(errs, fmt.Errorf("unknown notification %q", c.Notification))
	}
	if c.RetryMax < 0 {
		errs = append(errs, errors.New("retry_max must not be negative"))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout must not be negative"))
	}
	if c.OpenAPIFile != "" && c.OperationID == "" {
		errs = append(errs, errors.New("operation_id is required with openapi_file"))
	}
	if c.OpenAPIFile != "" && c.FormFile != "" {
		errs = append(errs, errors.New("form_file and openapi_file are mutually exclusive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
