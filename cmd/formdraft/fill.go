package main

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/goliatone/go-formdraft"
	"github.com/goliatone/go-formdraft/pkg/controller"
	"github.com/goliatone/go-formdraft/pkg/notify"
	"github.com/goliatone/go-formdraft/pkg/terminal"
)

func newFillCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fill",
		Short: "Fill the form interactively",
		Long: `Prompt for every field, validating each answer and saving a draft as
you go. Previously saved answers are offered as defaults.`,
		Args: cobra.NoArgs,
		RunE: a.runFill,
	}
}

func (a *app) runFill(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := a.logger(cfg)
	if err != nil {
		return err
	}

	form, err := formdraft.LoadForm(ctx, cfg, nil)
	if err != nil {
		return err
	}
	view := terminal.NewView(a.stdout, terminal.Labels(form))
	instance, err := formdraft.Setup(ctx, formdraft.Options{
		Config:   cfg,
		Logger:   logger,
		View:     view,
		Notifier: notify.NewWriter(a.stderr, nil),
	})
	if err != nil {
		return err
	}
	if instance.Client != nil {
		defer instance.Client.CloseIdleConnections()
	}

	session, err := terminal.NewSession(instance.Controller, view,
		terminal.WithPromptDriver(terminal.NewSurveyDriver(a.stdout)),
		terminal.WithAttachments(instance.Attachments),
	)
	if err != nil {
		return err
	}

	res, err := session.Run(ctx)
	switch {
	case errors.Is(err, terminal.ErrAborted), errors.Is(err, terminal.ErrDeclined):
		fmt.Fprintln(a.stdout, "Draft saved. Run fill again to continue.")
		return nil
	case err != nil:
		return err
	}

	switch res.Outcome {
	case controller.OutcomeSucceeded:
		printPrediction(a.stdout, res.Response)
	case controller.OutcomeAccepted:
		fmt.Fprintln(a.stdout, "Form accepted.")
	}
	return nil
}

// printPrediction summarises a prediction response, falling back to the raw
// body when the expected keys are missing.
func printPrediction(w io.Writer, body []byte) {
	label := gjson.GetBytes(body, "prediction_label")
	if !label.Exists() {
		fmt.Fprintln(w, string(body))
		return
	}
	fmt.Fprintf(w, "Prediction: %s\n", label.String())
	if confidence := gjson.GetBytes(body, "confidence"); confidence.Exists() {
		fmt.Fprintf(w, "Confidence: %.2f%%\n", confidence.Float())
	}
}
