// Command todoapp is a terminal client for a remote todo list.
package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/nhle/todoapp/internal/api"
	"github.com/nhle/todoapp/internal/app"
	"github.com/nhle/todoapp/internal/logging"
	"github.com/nhle/todoapp/internal/model"
	"github.com/nhle/todoapp/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "todoapp:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("todoapp", pflag.ContinueOnError)
	configPath := fs.String("config", model.DefaultConfigPath(), "path to the config file")
	showVersion := fs.BoolP("version", "v", false, "print the version and exit")
	model.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *showVersion {
		fmt.Println("todoapp", Version)
		return nil
	}

	cfg, err := model.LoadConfig(*configPath, fs)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closer.Close()
	logger.Info("starting", "version", Version, "base_url", cfg.API.BaseURL, "user_id", cfg.User.ID)

	newClient := func(baseURL string) api.TodoAPI {
		return api.NewClient(baseURL,
			api.WithTimeout(cfg.API.Timeout),
			api.WithLogger(logger),
		)
	}

	m := app.New(app.Options{
		Config:     cfg,
		ConfigPath: *configPath,
		Store:      store.New(store.NewState(nil, cfg.InitialFilter())),
		NewClient:  newClient,
		Logger:     logger,
	})

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		logger.Error("program exited", "err", err)
		return err
	}
	return nil
}
