package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/zhangqin/crossgraph/internal/model"
)

// Miner mines one concept into a graph document.
type Miner interface {
	Run(ctx context.Context, concept string) *model.GraphDocument
}

// MineResult is the outcome of one batch item. Err is reserved for future
// fallible miners; the pipeline itself degrades instead of failing.
type MineResult struct {
	Concept  string
	Document *model.GraphDocument
	Err      error
}

// BatchMiner mines multiple concepts concurrently with a bounded number of
// in-flight pipelines.
type BatchMiner struct {
	miner       Miner
	concurrency int
}

// NewBatchMiner creates a batch miner.
func NewBatchMiner(miner Miner, concurrency int) *BatchMiner {
	if concurrency <= 0 {
		concurrency = 2
	}
	return &BatchMiner{miner: miner, concurrency: concurrency}
}

// ProcessConcepts mines every concept and returns results in input order.
func (b *BatchMiner) ProcessConcepts(ctx context.Context, concepts []string) []MineResult {
	if len(concepts) == 0 {
		return []MineResult{}
	}

	results := make([]MineResult, len(concepts))
	semaphore := make(chan struct{}, b.concurrency)
	var wg sync.WaitGroup

	for i, concept := range concepts {
		wg.Add(1)
		go func(idx int, c string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = MineResult{Concept: c, Err: ctx.Err()}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = MineResult{Concept: c, Document: b.miner.Run(ctx, c)}
		}(i, concept)
	}

	wg.Wait()
	return results
}

// ProcessFile reads concepts from a file (one per line) and mines them.
func (b *BatchMiner) ProcessFile(ctx context.Context, filePath string) ([]MineResult, error) {
	concepts, err := ReadConceptsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read concepts: %w", err)
	}
	return b.ProcessConcepts(ctx, concepts), nil
}

// ReadConceptsFromFile reads one concept per line, skipping blanks and
// #-comments, deduplicating while preserving order.
func ReadConceptsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var concepts []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			concepts = append(concepts, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return concepts, nil
}
