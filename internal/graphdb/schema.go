package graphdb

import (
	"context"
	"fmt"
	"time"
)

// Unique id constraints per node label. The uniqueness constraint on root
// nodes is also what enforces the at-most-one-root-per-utility invariant
// when two callers race EnsureUtilityRoots on a fresh project.
var schemaConstraints = []string{
	`CREATE CONSTRAINT building_id IF NOT EXISTS FOR (n:Building) REQUIRE n.id IS UNIQUE`,
	`CREATE CONSTRAINT floor_id IF NOT EXISTS FOR (n:Floor) REQUIRE n.id IS UNIQUE`,
	`CREATE CONSTRAINT apartment_id IF NOT EXISTS FOR (n:Apartment) REQUIRE n.id IS UNIQUE`,
	`CREATE CONSTRAINT meter_id IF NOT EXISTS FOR (n:Meter) REQUIRE n.id IS UNIQUE`,
	`CREATE CONSTRAINT distribution_id IF NOT EXISTS FOR (n:Distribution) REQUIRE n.id IS UNIQUE`,
	`CREATE CONSTRAINT consumer_id IF NOT EXISTS FOR (n:Consumer) REQUIRE n.id IS UNIQUE`,
	`CREATE CONSTRAINT tree_id IF NOT EXISTS FOR (n:MeteringTree) REQUIRE n.id IS UNIQUE`,
	`CREATE CONSTRAINT tree_utility_root IF NOT EXISTS FOR (n:MeteringTree) REQUIRE (n.project_id, n.utility_type, n.is_utility_root) IS UNIQUE`,
}

var schemaIndexes = []string{
	`CREATE INDEX meter_name IF NOT EXISTS FOR (n:Meter) ON (n.name)`,
	`CREATE INDEX distribution_name IF NOT EXISTS FOR (n:Distribution) ON (n.name)`,
	`CREATE INDEX consumer_name IF NOT EXISTS FOR (n:Consumer) ON (n.name)`,
	`CREATE INDEX tree_project_id IF NOT EXISTS FOR (n:MeteringTree) ON (n.project_id)`,
	`CREATE INDEX building_project_id IF NOT EXISTS FOR (n:Building) ON (n.project_id)`,
	`CREATE INDEX floor_project_id IF NOT EXISTS FOR (n:Floor) ON (n.project_id)`,
	`CREATE INDEX apartment_project_id IF NOT EXISTS FOR (n:Apartment) ON (n.project_id)`,
	`CREATE INDEX meter_project_id IF NOT EXISTS FOR (n:Meter) ON (n.project_id)`,
	`CREATE INDEX distribution_project_id IF NOT EXISTS FOR (n:Distribution) ON (n.project_id)`,
	`CREATE INDEX consumer_project_id IF NOT EXISTS FOR (n:Consumer) ON (n.project_id)`,
	`CREATE INDEX meter_utility IF NOT EXISTS FOR (n:Meter) ON (n.utility_type)`,
	`CREATE INDEX distribution_utility IF NOT EXISTS FOR (n:Distribution) ON (n.utility_type)`,
	`CREATE INDEX building_utility IF NOT EXISTS FOR (n:Building) ON (n.utility_type)`,
	`CREATE INDEX tree_utility IF NOT EXISTS FOR (n:MeteringTree) ON (n.utility_type)`,
}

// InitSchema creates constraints and indexes, retrying while the store comes
// up during cold-start orchestration. This is the only retried operation in
// the whole service; every other store failure surfaces immediately.
func (c *Client) InitSchema(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = c.applySchema(ctx)
		if lastErr == nil {
			c.log.Info("Graph constraints and indexes initialized")
			return nil
		}
		if attempt < maxRetries {
			c.log.Warn("Graph store not ready, retrying",
				"attempt", attempt, "max_retries", maxRetries, "retry_delay", retryDelay, "error", lastErr)
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("graphdb: init schema after %d attempts: %w", maxRetries, lastErr)
}

func (c *Client) applySchema(ctx context.Context) error {
	session := c.WriteSession(ctx)
	defer session.Close(ctx)

	// Connectivity probe; fails fast while the container is still booting.
	if res, err := session.Run(ctx, `RETURN 1`, nil); err != nil {
		return err
	} else if _, err := res.Consume(ctx); err != nil {
		return err
	}

	for _, stmt := range append(append([]string{}, schemaConstraints...), schemaIndexes...) {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			return err
		}
		if _, err := res.Consume(ctx); err != nil {
			return err
		}
	}
	return nil
}
