package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// bootstrapCmd represents the bootstrap command
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Seed the graph store up to the configured targets",
	Long: `Bootstrap mines the seed concept list (and then random existing concepts)
until the graph reaches its node/edge targets or the call budget runs out.
Unlike the background run started by serve, this command blocks until the
run completes.

Example:
  crossgraph bootstrap
  KG_BOOTSTRAP_MIN_NODES=50 crossgraph bootstrap`,
	RunE: runBootstrap,
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	app, err := buildComponents(true)
	if err != nil {
		return err
	}
	defer app.log.Sync()

	ctx := context.Background()
	defer func() { _ = app.store.Close(ctx) }()

	if err := app.boot.Run(ctx); err != nil {
		return err
	}

	status := app.boot.Status(ctx)
	fmt.Printf("bootstrap done: %d nodes, %d edges (target %d/%d), status %q\n",
		status.Counts.Nodes, status.Counts.Edges,
		status.Target.MinNodes, status.Target.MinEdges,
		status.Bootstrapped.Status)
	return nil
}
