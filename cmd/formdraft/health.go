package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdraft"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the prediction service is up",
		Args:  cobra.NoArgs,
		RunE:  a.runHealth,
	}
}

func (a *app) runHealth(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := a.logger(cfg)
	if err != nil {
		return err
	}
	client, err := formdraft.NewClient(cfg, nil, logger)
	if err != nil {
		return err
	}
	defer client.CloseIdleConnections()

	status, err := client.Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	fmt.Fprintf(a.stdout, "Status:       %s\n", status.Status)
	fmt.Fprintf(a.stdout, "Model loaded: %t\n", status.ModelLoaded)
	if status.Timestamp != "" {
		fmt.Fprintf(a.stdout, "Timestamp:    %s\n", status.Timestamp)
	}
	if !status.ModelLoaded {
		return errors.New("model not loaded")
	}
	return nil
}
