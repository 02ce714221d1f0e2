package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/domain/repository"
)

const watchGroup = "tripsim-watch"

var (
	submitSession string
	submitBlock   string
	submitInput   string
)

func init() {
	submitCmd := &cobra.Command{
		Use:   "submit generate|simulate",
		Short: "Queue a run for the worker instead of running it in-process",
		Args:  cobra.ExactArgs(1),
		RunE:  runSubmit,
	}
	submitCmd.Flags().StringVar(&submitSession, "session", "", "session id for simulate")
	submitCmd.Flags().StringVar(&submitBlock, "block", "", "comma-separated road ids to close")
	submitCmd.Flags().StringVar(&submitInput, "input", "", "trip description")
	rootCmd.AddCommand(submitCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Print worker results as they are published",
		RunE:  runWatch,
	}
	rootCmd.AddCommand(watchCmd)
}

// newRequestEvent собирает и проверяет запрос для stream:simulation:request
func newRequestEvent(kind, input, session, block string) (*domain.SimulationRequestEvent, error) {
	blocked, err := parseRoadIDs(block)
	if err != nil {
		return nil, err
	}

	event := &domain.SimulationRequestEvent{
		RequestID:      uuid.New(),
		Kind:           kind,
		UserInput:      input,
		BlockedRoadIDs: blocked,
	}
	if session != "" {
		id, err := uuid.Parse(session)
		if err != nil {
			return nil, fmt.Errorf("invalid --session: %w", err)
		}
		event.SessionID = &id
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}
	return event, nil
}

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	event, err := newRequestEvent(args[0], submitInput, submitSession, submitBlock)
	if err != nil {
		return err
	}

	a, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.Streams.PublishToStream(ctx, domain.StreamSimulationRequest, event); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Queued %s request %s\n", event.Kind, event.RequestID)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	hostname, _ := os.Hostname()
	consumer := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	return watchResults(ctx, a.Streams, consumer, cmd.OutOrStdout())
}

// watchResults печатает события stream:simulation:done до отмены контекста
func watchResults(ctx context.Context, streams repository.StreamRepository, consumer string, out io.Writer) error {
	if err := streams.CreateConsumerGroup(ctx, domain.StreamSimulationDone, watchGroup); err != nil {
		return err
	}

	messages, err := streams.ConsumeStream(ctx, domain.StreamSimulationDone, watchGroup, consumer)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", domain.StreamSimulationDone)
	for msg := range messages {
		var done domain.SimulationDoneEvent
		if err := json.Unmarshal([]byte(msg.Data), &done); err != nil {
			fmt.Fprintf(out, "\nSkipping malformed message %s: %v\n", msg.ID, err)
		} else {
			printDoneEvent(out, &done)
		}

		if err := streams.AckMessage(ctx, domain.StreamSimulationDone, watchGroup, msg.ID); err != nil && ctx.Err() == nil {
			return err
		}
	}
	return nil
}

func printDoneEvent(w io.Writer, e *domain.SimulationDoneEvent) {
	fmt.Fprintf(w, "\n[%s] %s request\n", e.RequestID, e.Kind)
	switch {
	case e.Error != "" && e.Fatal:
		fmt.Fprintf(w, "Error (%s): %s\n", e.ErrorCode, e.Error)
	case e.Error != "":
		fmt.Fprintf(w, "%s.\n", e.Error)
	case e.Generate != nil:
		printGenerateResult(w, e.Generate)
	case e.Impact != nil:
		printImpactResult(w, e.Impact)
	}
}
