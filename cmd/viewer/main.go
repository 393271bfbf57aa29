package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"csvapi/internal/client"
	"csvapi/internal/logging"
	"csvapi/internal/tui"
)

const defaultAPIURL = "http://127.0.0.1:8080"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command().Run(ctx, os.Args); err != nil {
		logging.New("error", "console", os.Stderr).Error("viewer failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func command() *cli.Command {
	var apiURL string
	return &cli.Command{
		Name:  "csvapi-viewer",
		Usage: "Browse CSV files stored in a csvapi server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "api",
				Aliases:     []string{"a"},
				Usage:       "Base URL of the csvapi server",
				Value:       defaultAPIURL,
				Sources:     cli.EnvVars("CSVAPI_URL"),
				Destination: &apiURL,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			api, err := client.New(apiURL)
			if err != nil {
				return err
			}
			p := tea.NewProgram(tui.New(ctx, api), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}
}
