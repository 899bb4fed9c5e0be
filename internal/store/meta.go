package store

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/zhangqin/crossgraph/internal/model"
)

// Meta singletons live outside the concept graph and record bootstrap state
// across restarts.
const (
	metaBootstrapped = "bootstrapped"
	metaProgress     = "bootstrap_progress"
)

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// SetProgress updates the bootstrap progress singleton.
func (c *Client) SetProgress(ctx context.Context, status string, inProgress bool) error {
	session := c.session(ctx, neo4j.AccessModeWrite)
	defer func() { _ = session.Close(ctx) }()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, `
			MERGE (m:Meta {key: $key})
			SET m.status = $status,
			    m.in_progress = $in_progress,
			    m.updated_at = $updated_at
		`, map[string]any{
			"key":         metaProgress,
			"status":      status,
			"in_progress": inProgress,
			"updated_at":  nowUTC(),
		})
	})
	return err
}

// SetBootstrapped records the terminal bootstrap marker.
func (c *Client) SetBootstrapped(ctx context.Context, status string) error {
	session := c.session(ctx, neo4j.AccessModeWrite)
	defer func() { _ = session.Close(ctx) }()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, `
			MERGE (m:Meta {key: $key})
			SET m.done = true,
			    m.status = $status,
			    m.updated_at = $updated_at
		`, map[string]any{
			"key":        metaBootstrapped,
			"status":     status,
			"updated_at": nowUTC(),
		})
	})
	return err
}

// Progress reads the progress singleton. A missing record is a zero value,
// not an error.
func (c *Client) Progress(ctx context.Context) (model.BootstrapProgress, error) {
	var p model.BootstrapProgress
	if c == nil {
		return p, nil
	}

	session := c.session(ctx, neo4j.AccessModeRead)
	defer func() { _ = session.Close(ctx) }()

	result, err := session.Run(ctx, `
		MATCH (m:Meta {key: $key})
		RETURN m.status AS status, m.in_progress AS in_progress, m.updated_at AS updated_at
	`, map[string]any{"key": metaProgress})
	if err != nil {
		return p, err
	}
	if result.Next(ctx) {
		rec := result.Record()
		p.Status = asString(value(rec, "status"))
		p.InProgress = asBool(value(rec, "in_progress"))
		p.UpdatedAt = asString(value(rec, "updated_at"))
	}
	return p, result.Err()
}

// Bootstrapped reads the terminal marker.
func (c *Client) Bootstrapped(ctx context.Context) (model.BootstrapMarker, error) {
	var m model.BootstrapMarker
	if c == nil {
		return m, nil
	}

	session := c.session(ctx, neo4j.AccessModeRead)
	defer func() { _ = session.Close(ctx) }()

	result, err := session.Run(ctx, `
		MATCH (m:Meta {key: $key})
		RETURN m.done AS done, m.status AS status, m.updated_at AS updated_at
	`, map[string]any{"key": metaBootstrapped})
	if err != nil {
		return m, err
	}
	if result.Next(ctx) {
		rec := result.Record()
		m.Done = asBool(value(rec, "done"))
		m.Status = asString(value(rec, "status"))
		m.UpdatedAt = asString(value(rec, "updated_at"))
	}
	return m, result.Err()
}
