package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

func init() {
	RegisterGoMigration(3, Up_000003_backfill_total_minutes, Down_000003_backfill_total_minutes)
}

// Up_000003_backfill_total_minutes recomputes work_logs.total_minutes as the sum of
// per-entry whole minutes. Rows written before the column was maintained on every entry
// change carried totals rounded over the whole log.
func Up_000003_backfill_total_minutes(ctx context.Context, tx *sql.Tx, bind Binder) error {
	type entry struct {
		worklogID int64
		start     string
		end       string
	}

	// Read all rows into memory first to avoid holding a cursor while updating.
	rows, err := tx.QueryContext(ctx, "SELECT worklog_id, start_time, end_time FROM time_entries")
	if err != nil {
		return fmt.Errorf("failed to query time entries: %w", err)
	}
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.worklogID, &e.start, &e.end); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating time entries: %w", err)
	}
	rows.Close()

	totals := map[int64]int{}
	for _, e := range entries {
		start, err := time.Parse(time.RFC3339, e.start)
		if err != nil {
			return fmt.Errorf("work log %d: bad start_time %q: %w", e.worklogID, e.start, err)
		}
		end, err := time.Parse(time.RFC3339, e.end)
		if err != nil {
			return fmt.Errorf("work log %d: bad end_time %q: %w", e.worklogID, e.end, err)
		}
		minutes := 0
		if d := end.Sub(start); d > 0 {
			minutes = int(d / time.Minute)
		}
		totals[e.worklogID] += minutes
	}

	stmt, err := tx.PrepareContext(ctx, bind("UPDATE work_logs SET total_minutes = ? WHERE id = ?"))
	if err != nil {
		return fmt.Errorf("failed to prepare total update: %w", err)
	}
	defer stmt.Close()

	for id, minutes := range totals {
		if _, err := stmt.ExecContext(ctx, minutes, id); err != nil {
			return fmt.Errorf("failed to update work log %d: %w", id, err)
		}
	}
	return nil
}

// Down_000003_backfill_total_minutes is a no-op; the previous totals are not recoverable.
func Down_000003_backfill_total_minutes(ctx context.Context, tx *sql.Tx, bind Binder) error {
	return nil
}
