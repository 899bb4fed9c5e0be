package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhangqin/crossgraph/internal/pipeline"
	"github.com/zhangqin/crossgraph/internal/worker"
)

var (
	mineFile        string
	mineIngest      bool
	mineOut         string
	mineConcurrency int
	mineTimeout     time.Duration
)

// mineCmd represents the mine command
var mineCmd = &cobra.Command{
	Use:   "mine [concept...]",
	Short: "Mine cross-discipline associations for one or more concepts",
	Long: `Mine runs the full association pipeline for each concept:
- Draft candidate associations across discipline lenses
- Retrieve literature evidence for every candidate
- Verify that the evidence supports the claimed relation
- Score confidence and emit a graph document artifact

Example:
  crossgraph mine 熵
  crossgraph mine 熵 最小二乘法 --ingest
  crossgraph mine --file concepts.txt --concurrency 4 --out ./reports`,
	RunE: runMine,
}

func init() {
	rootCmd.AddCommand(mineCmd)

	mineCmd.Flags().StringVar(&mineFile, "file", "", "file with one concept per line (# comments allowed)")
	mineCmd.Flags().BoolVar(&mineIngest, "ingest", false, "persist gated results to the graph store")
	mineCmd.Flags().StringVar(&mineOut, "out", "", "artifact output directory (default from config)")
	mineCmd.Flags().IntVar(&mineConcurrency, "concurrency", 2, "concepts mined in parallel")
	mineCmd.Flags().DurationVar(&mineTimeout, "timeout", 5*time.Minute, "overall mining timeout")
}

func runMine(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && mineFile == "" {
		return fmt.Errorf("nothing to mine: pass concepts or --file")
	}

	app, err := buildComponents(mineIngest)
	if err != nil {
		return err
	}
	defer app.log.Sync()

	concepts := args
	if mineFile != "" {
		fromFile, err := worker.ReadConceptsFromFile(mineFile)
		if err != nil {
			return err
		}
		concepts = append(concepts, fromFile...)
	}

	ctx, cancel := context.WithTimeout(context.Background(), mineTimeout)
	defer cancel()
	if app.store != nil {
		defer func() { _ = app.store.Close(context.Background()) }()
	}

	outDir := mineOut
	if outDir == "" {
		outDir = app.cfg.Output.Dir
	}

	batch := worker.NewBatchMiner(app.miner, mineConcurrency)
	results := batch.ProcessConcepts(ctx, concepts)

	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Concept, res.Err)
			continue
		}

		path, err := pipeline.WriteArtifact(outDir, app.cfg.Output.User, res.Document)
		if err != nil {
			return fmt.Errorf("write artifact for %s: %w", res.Concept, err)
		}

		if mineIngest {
			if ingested, err := app.store.Ingest(ctx, res.Document); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: ingest failed: %v\n", res.Concept, err)
			} else if verbose {
				fmt.Fprintf(os.Stderr, "✓ %s: ingested %d nodes, %d edges\n", res.Concept, ingested.Nodes, ingested.Edges)
			}
		}

		fmt.Printf("✓ %s: %d nodes, %d edges -> %s\n",
			res.Concept, len(res.Document.Nodes), len(res.Document.Edges), path)
	}

	return nil
}
