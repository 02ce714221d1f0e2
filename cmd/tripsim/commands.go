package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/trip-impact-service/internal/app"
	"github.com/trip-impact-service/internal/config"
	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/pkg/logger"
	"go.uber.org/zap"
)

var (
	simulateSession string
	simulateBlock   string
	simulateInput   string
	runsLimit       int
)

func init() {
	generateCmd := &cobra.Command{
		Use:   "generate SENTENCE",
		Short: "Generate a scenario from a trip description and list used roads",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runGenerate,
	}
	rootCmd.AddCommand(generateCmd)

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Re-run a generated scenario with roads closed",
		RunE:  runSimulate,
	}
	simulateCmd.Flags().StringVar(&simulateSession, "session", "", "session id (default: latest)")
	simulateCmd.Flags().StringVar(&simulateBlock, "block", "", "comma-separated road ids to close")
	simulateCmd.Flags().StringVar(&simulateInput, "input", "", "trip description stored with the run")
	rootCmd.AddCommand(simulateCmd)

	interactiveCmd := &cobra.Command{
		Use:   "interactive",
		Short: "Describe trips and block roads in a prompt loop",
		RunE:  runInteractive,
	}
	rootCmd.AddCommand(interactiveCmd)

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent simulation runs",
		RunE:  runRuns,
	}
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "number of runs to show")
	rootCmd.AddCommand(runsCmd)

	mapCmd := &cobra.Command{
		Use:   "map",
		Short: "Show road and intersection counts of the loaded map",
		RunE:  runMap,
	}
	rootCmd.AddCommand(mapCmd)
}

// bootstrap - конфиг, логгер в stderr и зависимости
func bootstrap(ctx context.Context) (*app.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	// вывод CLI в stdout, логи отдельно
	log = log.WithOptions(zap.IncreaseLevel(zap.WarnLevel))

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}

	cleanup := func() {
		a.Close()
		_ = log.Sync()
	}
	return a, cleanup, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := a.Pipeline.Generate(ctx, strings.Join(args, " "))
	if err != nil {
		return describeFailure(cmd.OutOrStdout(), err)
	}

	printGenerateResult(cmd.OutOrStdout(), result)
	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	blocked, err := parseRoadIDs(simulateBlock)
	if err != nil {
		return err
	}

	sessionID := uuid.Nil
	if simulateSession != "" {
		sessionID, err = uuid.Parse(simulateSession)
		if err != nil {
			return fmt.Errorf("invalid --session: %w", err)
		}
	}

	a, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := a.Pipeline.SimulateWithBlocks(ctx, domain.ImpactRequest{
		SessionID:      sessionID,
		BlockedRoadIDs: blocked,
		UserInput:      simulateInput,
	})
	if err != nil {
		return describeFailure(cmd.OutOrStdout(), err)
	}

	printImpactResult(cmd.OutOrStdout(), result)
	return nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	return interactiveLoop(ctx, a.Pipeline, cmd.InOrStdin(), cmd.OutOrStdout())
}

func runRuns(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	records, err := a.Runs.ListRecent(ctx, runsLimit)
	if err != nil {
		return err
	}
	printRuns(cmd.OutOrStdout(), records)
	return nil
}

func runMap(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := a.Simulation.MapSummary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Roads: %d\nIntersections: %d\n", summary.Roads, summary.Intersections)
	return nil
}
