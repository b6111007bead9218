package main

import (
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdraft"
	"github.com/goliatone/go-formdraft/internal/logging"
)

type rootFlags struct {
	configFile  string
	envFile     string
	endpoint    string
	health      string
	mode        string
	storageDir  string
	formFile    string
	openAPIFile string
	operationID string
	logLevel    string
	logFormat   string
	notify      string
	retries     int
	timeout     time.Duration
}

type app struct {
	flags  rootFlags
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "formdraft",
		Short: "Fill forms with validation and auto-saved drafts",
		Long: `formdraft walks a form field by field, validating each answer and
saving a draft after every change. An interrupted session resumes from the
saved draft. Valid forms are posted to the prediction service as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	f := root.PersistentFlags()
	f.StringVar(&a.flags.configFile, "config", "formdraft.yaml", "YAML config file")
	f.StringVar(&a.flags.envFile, "env-file", ".env", "dotenv file loaded before the environment")
	f.StringVar(&a.flags.endpoint, "endpoint", "", "prediction endpoint URL")
	f.StringVar(&a.flags.health, "health-endpoint", "", "health endpoint URL")
	f.StringVar(&a.flags.mode, "mode", "", "submission mode: api or native")
	f.StringVar(&a.flags.storageDir, "storage-dir", "", "directory drafts are saved in")
	f.StringVar(&a.flags.formFile, "form", "", "YAML form definition")
	f.StringVar(&a.flags.openAPIFile, "openapi", "", "OpenAPI document to derive the form from")
	f.StringVar(&a.flags.operationID, "operation", "", "operation id within --openapi")
	f.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error")
	f.StringVar(&a.flags.logFormat, "log-format", "", "text or json")
	f.StringVar(&a.flags.notify, "notification", "", "failure notification surface: text, alert or toast")
	f.IntVar(&a.flags.retries, "retries", 0, "retry attempts for failed submissions")
	f.DurationVar(&a.flags.timeout, "timeout", 0, "per-request timeout")

	root.AddCommand(
		newFillCmd(a),
		newDraftCmd(a),
		newHealthCmd(a),
	)
	return root
}

// loadConfig layers CLI flags over the file and environment settings.
func (a *app) loadConfig(cmd *cobra.Command) (*formdraft.Config, error) {
	cfg, err := formdraft.LoadConfig(a.flags.envFile, a.flags.configFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	strs := []struct {
		name string
		dst  *string
		val  string
	}{
		{"endpoint", &cfg.Endpoint, a.flags.endpoint},
		{"health-endpoint", &cfg.HealthEndpoint, a.flags.health},
		{"mode", &cfg.Mode, a.flags.mode},
		{"storage-dir", &cfg.StorageDir, a.flags.storageDir},
		{"form", &cfg.FormFile, a.flags.formFile},
		{"openapi", &cfg.OpenAPIFile, a.flags.openAPIFile},
		{"operation", &cfg.OperationID, a.flags.operationID},
		{"log-level", &cfg.LogLevel, a.flags.logLevel},
		{"log-format", &cfg.LogFormat, a.flags.logFormat},
		{"notification", &cfg.Notification, a.flags.notify},
	}
	for _, s := range strs {
		if flags.Changed(s.name) {
			*s.dst = s.val
		}
	}
	if flags.Changed("retries") {
		cfg.RetryMax = a.flags.retries
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.flags.timeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) logger(cfg *formdraft.Config) (*slog.Logger, error) {
	return logging.New(cfg.LogLevel, cfg.LogFormat, a.stderr)
}
