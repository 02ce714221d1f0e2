package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tripsim",
	Short: "Trip impact simulator - road closures vs. travel time",
	Long: `tripsim turns a trip described in plain language into a traffic simulation
scenario, shows which roads the trip used and re-runs the simulation with
chosen roads closed to measure the impact on travel time.`,
	SilenceUsage: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
