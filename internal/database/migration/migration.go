// Package migration creates the conversion history schema on first start.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"slidemd/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is checked before running; its presence means the schema exists.
const sentinelTable = "public.conversions"

var steps = []migrationStep{
	{
		Name: "create_table_conversions",
		SQL: `CREATE TABLE IF NOT EXISTS conversions (
  id              UUID        PRIMARY KEY,
  backend         TEXT        NOT NULL,
  source_filename TEXT        NOT NULL,
  stem            TEXT        NOT NULL,
  output_dir      TEXT        NOT NULL,
  archive_name    TEXT        NOT NULL DEFAULT '',
  archive_size    BIGINT      NOT NULL DEFAULT 0 CHECK (archive_size >= 0),
  storage_key     TEXT        NOT NULL DEFAULT '',
  status          TEXT        NOT NULL CHECK (status IN ('succeeded', 'failed')),
  error           TEXT        NOT NULL DEFAULT '',
  duration_ms     BIGINT      NOT NULL DEFAULT 0,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_conversions_backend",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_conversions_backend ON conversions (backend);`,
	},
	{
		Name: "create_index_conversions_stem",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_conversions_stem ON conversions (stem);`,
	},
	{
		Name: "create_index_conversions_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions (created_at);`,
	},
}

// EnsureMigrated runs the schema steps unless the conversions table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *logging.Logger, dbHost string) error {
	start := time.Now()
	event := func(fields map[string]any) {
		fields["component"] = "database"
		fields["db_host"] = dbHost
		log.Log(fields)
	}

	event(map[string]any{"event": "db_migration_check", "status": "starting"})

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinelTable).Scan(&exists)
	if err != nil {
		event(map[string]any{
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		event(map[string]any{
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	event(map[string]any{"event": "db_migration_start", "status": "in_progress"})

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			event(map[string]any{
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		event(map[string]any{
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	event(map[string]any{
		"event":       "db_migration_success",
		"status":      "success",
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}
