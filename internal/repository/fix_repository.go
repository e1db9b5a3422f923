package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/trailwatch/gpsdrift/internal/models"
)

// FixRepository handles database operations for stored fixes.
type FixRepository struct {
	db *sql.DB
}

func NewFixRepository(db *sql.DB) *FixRepository {
	return &FixRepository{db: db}
}

// BatchInsert persists fixes in a single transaction, ordered by seq_no so
// the original ingestion order survives a later ORDER BY seq_no read.
func (r *FixRepository) BatchInsert(trajectoryID string, fixes []models.Fix) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	stmt, err := tx.Prepare(`INSERT INTO fixes (trajectory_id, lat, lng, t, accepted, rejected_reason, seq_no)
		VALUES (?, ?, ?, ?, 0, '', ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, f := range fixes {
		if _, err := stmt.Exec(trajectoryID, f.Lat, f.Lng, f.T, i); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert fix %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// MarkOutcomes updates the accepted/rejected_reason columns for a batch of
// already-inserted fixes, keyed by seq_no, after a detector run.
func (r *FixRepository) MarkOutcomes(trajectoryID string, outcomes []models.StoredFix) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	stmt, err := tx.Prepare(`UPDATE fixes SET accepted = ?, rejected_reason = ?
		WHERE trajectory_id = ? AND seq_no = ?`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, o := range outcomes {
		if _, err := stmt.Exec(o.Accepted, o.RejectedReason, trajectoryID, o.SeqNo); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update fix outcome seq %d: %w", o.SeqNo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *FixRepository) List(filter models.FixFilter) ([]models.StoredFix, int64, error) {
	query := `SELECT id, trajectory_id, lat, lng, t, accepted, rejected_reason, seq_no FROM fixes`
	countQuery := `SELECT COUNT(*) FROM fixes`

	var conditions []string
	var args []interface{}

	if filter.TrajectoryID != "" {
		conditions = append(conditions, "trajectory_id = ?")
		args = append(args, filter.TrajectoryID)
	}
	if filter.Accepted != nil {
		conditions = append(conditions, "accepted = ?")
		args = append(args, *filter.Accepted)
	}
	if filter.StartTime > 0 {
		conditions = append(conditions, "t >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "t <= ?")
		args = append(args, filter.EndTime)
	}

	if len(conditions) > 0 {
		clause := " WHERE " + strings.Join(conditions, " AND ")
		query += clause
		countQuery += clause
	}

	var total int64
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count fixes: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 500
	}
	if filter.PageSize > 5000 {
		filter.PageSize = 5000
	}
	offset := (filter.Page - 1) * filter.PageSize
	query += " ORDER BY seq_no ASC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query fixes: %w", err)
	}
	defer rows.Close()

	var out []models.StoredFix
	for rows.Next() {
		var f models.StoredFix
		if err := rows.Scan(&f.ID, &f.TrajectoryID, &f.Lat, &f.Lng, &f.T, &f.Accepted, &f.RejectedReason, &f.SeqNo); err != nil {
			return nil, 0, fmt.Errorf("failed to scan fix: %w", err)
		}
		out = append(out, f)
	}

	return out, total, nil
}

// ListAllOrdered returns every fix for a trajectory in ingestion order,
// unpaginated — used to feed the detector a complete stream.
func (r *FixRepository) ListAllOrdered(trajectoryID string) ([]models.StoredFix, error) {
	rows, err := r.db.Query(
		`SELECT id, trajectory_id, lat, lng, t, accepted, rejected_reason, seq_no
		 FROM fixes WHERE trajectory_id = ? ORDER BY seq_no ASC`, trajectoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixes: %w", err)
	}
	defer rows.Close()

	var out []models.StoredFix
	for rows.Next() {
		var f models.StoredFix
		if err := rows.Scan(&f.ID, &f.TrajectoryID, &f.Lat, &f.Lng, &f.T, &f.Accepted, &f.RejectedReason, &f.SeqNo); err != nil {
			return nil, fmt.Errorf("failed to scan fix: %w", err)
		}
		out = append(out, f)
	}
	return out, nil
}

// CountUnprocessed returns the number of fixes in trajectoryID that have
// never been run through the detector (accepted = 0 AND rejected_reason = '').
func (r *FixRepository) CountUnprocessed(trajectoryID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM fixes WHERE trajectory_id = ? AND accepted = 0 AND rejected_reason = ''`,
		trajectoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unprocessed fixes: %w", err)
	}
	return count, nil
}

// CountAll returns the total number of fixes across all trajectories.
func (r *FixRepository) CountAll() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM fixes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count fixes: %w", err)
	}
	return count, nil
}
