package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/amterp/palette/internal/clipboard"
	"github.com/amterp/palette/internal/config"
	palerr "github.com/amterp/palette/internal/errors"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/prompt"
	"github.com/amterp/palette/internal/remote"
	"github.com/amterp/palette/internal/service"
	"github.com/amterp/palette/internal/store"
)

// App holds all the dependencies for the CLI.
// Uses interfaces for testability.
type App struct {
	GlobalStore store.GlobalStore
	Config      *model.GlobalConfig
	ServerURL   string
	Remote      remote.ColorStore
	Manager     *service.Manager
	Prompter    prompt.Prompter
	Copier      clipboard.Copier
	Interactive bool
}

// NewApp creates a new App with all dependencies wired up.
// If interactive is false, uses NoopPrompter that fails on prompts.
// urlFlag, when set, takes precedence over PALETTE_URL and the config file.
func NewApp(interactive bool, urlFlag string) (*App, error) {
	globalStore := store.NewGlobalStore()

	cfg, err := globalStore.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load global config: %v\n", err)
		cfg = &model.GlobalConfig{}
	}

	serverURL := resolveServerURL(urlFlag, os.Getenv(config.ServerURLEnvVar), cfg)
	timeout := time.Duration(cfg.GetTimeoutSeconds()) * time.Second
	remoteStore := remote.NewHTTPColorStore(serverURL, timeout)

	var prompter prompt.Prompter
	if interactive {
		prompter = prompt.NewHuhPrompter()
	} else {
		prompter = &prompt.NoopPrompter{}
	}

	return &App{
		GlobalStore: globalStore,
		Config:      cfg,
		ServerURL:   serverURL,
		Remote:      remoteStore,
		Manager:     service.NewManager(remoteStore),
		Prompter:    prompter,
		Copier:      clipboard.NewSystemCopier(),
		Interactive: interactive,
	}, nil
}

// resolveServerURL picks the server URL: flag, then environment, then config.
func resolveServerURL(flag, env string, cfg *model.GlobalConfig) string {
	if flag != "" {
		return flag
	}
	if env != "" {
		return env
	}
	return cfg.GetServerURL()
}

// Load fetches the collection, failing with a hint if the server is down.
func (a *App) Load(ctx context.Context) error {
	if err := a.Manager.Initialize(ctx); err != nil {
		if palerr.IsTransport(err) {
			return fmt.Errorf("%w\nIs the server running at %s? Start one with: palette serve", err, a.ServerURL)
		}
		return err
	}
	return nil
}

// commandContext returns a context cancelled on Ctrl+C.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// Fatal prints an error and exits.
func Fatal(err error) {
	var validation *palerr.ValidationError
	if errors.As(err, &validation) {
		PrintError("%s", formatValidationError(validation))
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
