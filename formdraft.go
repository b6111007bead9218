package formdraft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/afero"

	"github.com/goliatone/go-formdraft/internal/config"
	"github.com/goliatone/go-formdraft/internal/logging"
	"github.com/goliatone/go-formdraft/pkg/apiclient"
	"github.com/goliatone/go-formdraft/pkg/controller"
	"github.com/goliatone/go-formdraft/pkg/draft"
	"github.com/goliatone/go-formdraft/pkg/model"
	"github.com/goliatone/go-formdraft/pkg/notify"
	"github.com/goliatone/go-formdraft/pkg/schema"
	"github.com/goliatone/go-formdraft/pkg/validation"
	"github.com/goliatone/go-formdraft/pkg/widgets"
)

// Config aliases the layered settings so callers outside the module can
// build one without importing an internal package.
type Config = config.Config

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig layers envFile, configFile and FORMDRAFT_* variables over the
// defaults.
func LoadConfig(envFile, configFile string) (*Config, error) {
	return config.Load(envFile, configFile)
}

// Options describes the collaborators Setup wires together. Every field is
// optional; a nil Config means the defaults.
type Options struct {
	Config     *Config
	Logger     *slog.Logger
	Fs         afero.Fs
	View       controller.View
	Notifier   notify.Notifier
	HTTPClient *http.Client
	Rules      *validation.Registry
	Widgets    *widgets.Registry
	Observers  []func(from, to controller.State)
}

// App is a fully wired form: its definition, draft store, optional API
// client, widget bindings and the controller driving them.
type App struct {
	Config      *Config
	Form        model.FormModel
	Store       *draft.Store
	Client      *apiclient.Client
	Attachments widgets.Attachments
	// Surface holds rendered alert or toast markup when the notification
	// setting selects an HTML surface; nil otherwise.
	Surface    *notify.HTMLSurface
	Controller *controller.Controller
	Logger     *slog.Logger
}

// Setup loads the form definition and wires config, draft store, API
// client, notifier and widgets into a Controller. The controller restores
// any saved draft before Setup returns.
func Setup(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	form, err := LoadForm(ctx, cfg, fsys)
	if err != nil {
		return nil, err
	}

	store, err := draft.NewStore(
		draft.NewFileBackend(fsys, cfg.StorageDir),
		cfg.StorageKey,
		draft.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("formdraft: draft store: %w", err)
	}

	mode, _ := controller.ParseMode(cfg.Mode)
	client, err := NewClient(cfg, opts.HTTPClient, logger)
	if err != nil && mode == controller.ModeAPI {
		return nil, err
	}

	registry := opts.Widgets
	if registry == nil {
		registry = widgets.NewRegistry()
	}
	attachments := registry.Init(widgets.ElementsFromFields(form.Fields))
	logger.Debug("widgets initialised", "form", form.ID, "elements", len(attachments))

	notifier := opts.Notifier
	var surface *notify.HTMLSurface
	switch cfg.Notification {
	case config.NotificationAlert, config.NotificationToast:
		surface = notify.NewHTMLSurface(notify.Kind(cfg.Notification), func(err error) {
			logger.Warn("notification render failed", "err", err)
		})
		if notifier == nil {
			notifier = surface
		} else {
			notifier = notify.Multi(notifier, surface)
		}
	}
	if notifier == nil {
		notifier = notify.NewWriter(os.Stderr, nil)
	}

	ctrlOpts := []controller.Option{
		controller.WithStore(store),
		controller.WithView(opts.View),
		controller.WithNotifier(notifier),
		controller.WithMode(mode),
		controller.WithLogger(logger),
		controller.WithRules(opts.Rules),
	}
	if client != nil {
		ctrlOpts = append(ctrlOpts, controller.WithSubmitter(client))
	}
	for _, fn := range opts.Observers {
		ctrlOpts = append(ctrlOpts, controller.WithStateObserver(fn))
	}
	ctrl, err := controller.New(form, ctrlOpts...)
	if err != nil {
		return nil, fmt.Errorf("formdraft: controller: %w", err)
	}

	logger.Info("form ready",
		"form", form.ID,
		"mode", string(mode),
		"fields", len(form.Fields),
		"progress", ctrl.Progress(),
	)
	return &App{
		Config:      cfg,
		Form:        form,
		Store:       store,
		Client:      client,
		Attachments: attachments,
		Surface:     surface,
		Controller:  ctrl,
		Logger:      logger,
	}, nil
}

// LoadForm resolves the form definition: an OpenAPI operation, a YAML file,
// or the bundled prediction form, in that order. The configured form id
// replaces the id declared in the definition.
func LoadForm(ctx context.Context, cfg *Config, fsys afero.Fs) (model.FormModel, error) {
	if cfg == nil {
		return model.FormModel{}, errors.New("formdraft: config is required")
	}
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	var (
		form model.FormModel
		err  error
	)
	switch {
	case cfg.OpenAPIFile != "":
		data, readErr := afero.ReadFile(fsys, cfg.OpenAPIFile)
		if readErr != nil {
			return model.FormModel{}, fmt.Errorf("formdraft: read %s: %w", cfg.OpenAPIFile, readErr)
		}
		form, err = schema.FromOpenAPI(ctx, data, cfg.OperationID)
	case cfg.FormFile != "":
		data, readErr := afero.ReadFile(fsys, cfg.FormFile)
		if readErr != nil {
			return model.FormModel{}, fmt.Errorf("formdraft: read %s: %w", cfg.FormFile, readErr)
		}
		form, err = schema.LoadYAML(data)
	default:
		form, err = schema.Prediction()
	}
	if err != nil {
		return model.FormModel{}, err
	}
	if cfg.FormID != "" {
		form.ID = cfg.FormID
	}
	return form, nil
}

// NewClient builds the API client described by cfg.
func NewClient(cfg *Config, httpClient *http.Client, logger *slog.Logger) (*apiclient.Client, error) {
	return apiclient.New(cfg.Endpoint,
		apiclient.WithHTTPClient(httpClient),
		apiclient.WithRetries(cfg.RetryMax, cfg.RetryWait),
		apiclient.WithTimeout(cfg.Timeout),
		apiclient.WithLogger(logger),
		apiclient.WithHealthEndpoint(cfg.HealthEndpoint),
	)
}
