package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdraft/pkg/draft"
)

func newDraftCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect or discard the saved draft",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the saved draft as JSON",
			Args:  cobra.NoArgs,
			RunE:  a.runDraftShow,
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete the saved draft",
			Args:  cobra.NoArgs,
			RunE:  a.runDraftClear,
		},
	)
	return cmd
}

func (a *app) openStore(cmd *cobra.Command) (*draft.Store, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := a.logger(cfg)
	if err != nil {
		return nil, err
	}
	return draft.NewStore(
		draft.NewFileBackend(afero.NewOsFs(), cfg.StorageDir),
		cfg.StorageKey,
		draft.WithLogger(logger),
	)
}

func (a *app) runDraftShow(cmd *cobra.Command, _ []string) error {
	store, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	values := store.Load()
	if len(values) == 0 {
		fmt.Fprintln(a.stdout, "No saved draft")
		return nil
	}
	out, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	fmt.Fprintln(a.stdout, string(out))
	return nil
}

func (a *app) runDraftClear(cmd *cobra.Command, _ []string) error {
	store, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Draft cleared")
	return nil
}
