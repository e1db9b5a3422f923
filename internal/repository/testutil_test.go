package repository

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// newTestDB opens an in-memory database and creates every table of the
// production schema. The foreign-key constraints are left out, so rows
// are not checked against their parent tables.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE trajectories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_by TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE fixes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trajectory_id TEXT NOT NULL,
			lat REAL NOT NULL,
			lng REAL NOT NULL,
			t INTEGER NOT NULL,
			accepted INTEGER NOT NULL DEFAULT 0,
			rejected_reason TEXT NOT NULL DEFAULT '',
			seq_no INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE markers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trajectory_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			lat REAL NOT NULL,
			lng REAL NOT NULL,
			t INTEGER NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE processing_statistics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trajectory_id TEXT NOT NULL UNIQUE,
			input_count INTEGER NOT NULL DEFAULT 0,
			accepted_count INTEGER NOT NULL DEFAULT 0,
			rejected_count INTEGER NOT NULL DEFAULT 0,
			rebuild_count INTEGER NOT NULL DEFAULT 0,
			filtering_rate REAL NOT NULL DEFAULT 0,
			processing_time_ms INTEGER NOT NULL DEFAULT 0,
			window_length INTEGER NOT NULL DEFAULT 0,
			has_base_point INTEGER NOT NULL DEFAULT 0,
			base_lat REAL NOT NULL DEFAULT 0,
			base_lng REAL NOT NULL DEFAULT 0,
			base_radius REAL NOT NULL DEFAULT 0,
			consecutive_drift_count INTEGER NOT NULL DEFAULT 0,
			base_age_ms INTEGER NOT NULL DEFAULT 0,
			base_expired INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE config_profiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_default INTEGER NOT NULL DEFAULT 0,
			window_size INTEGER NOT NULL,
			validity_period_ms INTEGER NOT NULL,
			max_drift_sequence INTEGER NOT NULL,
			drift_multiplier REAL NOT NULL,
			linear_angle_threshold_deg REAL NOT NULL,
			floor_radius_meters REAL NOT NULL,
			created_by TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE analysis_tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trajectory_id TEXT NOT NULL,
			skill_name TEXT NOT NULL,
			task_type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			progress_percent REAL NOT NULL DEFAULT 0,
			eta_seconds INTEGER NOT NULL DEFAULT 0,
			params_json TEXT NOT NULL DEFAULT '',
			config_profile_id INTEGER,
			total_points INTEGER NOT NULL DEFAULT 0,
			processed_points INTEGER NOT NULL DEFAULT 0,
			failed_points INTEGER NOT NULL DEFAULT 0,
			start_time INTEGER,
			end_time INTEGER,
			result_summary TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT '',
			depends_on_task_ids TEXT NOT NULL DEFAULT '',
			blocks_task_ids TEXT NOT NULL DEFAULT '',
			created_by TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return db
}
