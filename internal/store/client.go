package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/zhangqin/crossgraph/internal/logger"
	"github.com/zhangqin/crossgraph/internal/model"
)

// Client wraps the Neo4j driver. A nil *Client is the degraded, store-less
// mode: queries fall back to the embedded snapshot and writes are rejected
// by the callers.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
	log      *logger.Logger
}

// NewClient connects to Neo4j. An empty URI returns (nil, nil) - the store
// is simply not configured. A configured but unreachable store returns an
// error; callers decide whether to continue read-only.
func NewClient(cfg model.StoreConfig, log *logger.Logger) (*Client, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, nil
	}

	user := cfg.User
	if user == "" {
		user = "neo4j"
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, cfg.Password, ""), func(c *neo4j.Config) {
		c.SocketConnectTimeout = timeout
	})
	if err != nil {
		return nil, fmt.Errorf("store: init driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("store: verify connectivity: %w", err)
	}

	c := &Client{
		driver:   driver,
		database: cfg.Database,
		log:      log.With("component", "store"),
	}
	c.ensureSchema(ctx)
	return c, nil
}

// Close releases the driver.
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.driver == nil {
		return nil
	}
	err := c.driver.Close(ctx)
	c.driver = nil
	return err
}

func (c *Client) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: c.database,
	})
}

// ensureSchema creates the uniqueness constraint, best-effort: restricted
// users may not be allowed to, and MERGE still works without it.
func (c *Client) ensureSchema(ctx context.Context) {
	session := c.session(ctx, neo4j.AccessModeWrite)
	defer func() { _ = session.Close(ctx) }()

	res, err := session.Run(ctx,
		`CREATE CONSTRAINT concept_node_id_unique IF NOT EXISTS FOR (c:Concept) REQUIRE c.node_id IS UNIQUE`, nil)
	if err != nil {
		c.log.Warn("schema init failed (continuing)", "error", err)
		return
	}
	_, _ = res.Consume(ctx)
}
