// Package drift registers the "drift_detection" analysis skill, running
// internal/drift.Detector over a trajectory's stored fixes as an
// asynchronous batch job rather than synchronously inside a request
// handler.
package drift

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/trailwatch/gpsdrift/internal/analysis"
	coredrift "github.com/trailwatch/gpsdrift/internal/drift"
	"github.com/trailwatch/gpsdrift/internal/models"
	"github.com/trailwatch/gpsdrift/internal/repository"
)

// DetectionAnalyzer implements the drift_detection skill.
type DetectionAnalyzer struct {
	*analysis.IncrementalAnalyzer
	fixRepo     *repository.FixRepository
	markerRepo  *repository.MarkerRepository
	statsRepo   *repository.StatisticsRepository
	profileRepo *repository.ConfigProfileRepository
}

// NewDetectionAnalyzer creates a new drift detection analyzer.
func NewDetectionAnalyzer(db *sql.DB) analysis.Analyzer {
	return &DetectionAnalyzer{
		IncrementalAnalyzer: analysis.NewIncrementalAnalyzer(db, "drift_detection", 10000),
		fixRepo:             repository.NewFixRepository(db),
		markerRepo:          repository.NewMarkerRepository(db),
		statsRepo:           repository.NewStatisticsRepository(db),
		profileRepo:         repository.NewConfigProfileRepository(db),
	}
}

// resolveConfig loads the detector configuration named by the task's
// config_profile_id; an unset id (NULL or 0) selects the repository's
// default profile. When the lookup fails or finds no profile, the
// detector's built-in defaults are used.
func (a *DetectionAnalyzer) resolveConfig(profileID *int64) coredrift.Config {
	var profile *models.DetectorConfigProfile
	var err error

	if profileID != nil && *profileID != 0 {
		profile, err = a.profileRepo.GetByID(*profileID)
	} else {
		profile, err = a.profileRepo.GetDefault()
	}
	if err != nil || profile == nil {
		return coredrift.DefaultConfig()
	}

	return coredrift.Config{
		WindowSize:              profile.WindowSize,
		ValidityPeriodMs:        profile.ValidityPeriodMs,
		MaxDriftSequence:        profile.MaxDriftSequence,
		DriftMultiplier:         profile.DriftMultiplier,
		LinearAngleThresholdDeg: profile.LinearAngleThresholdDeg,
		FloorRadiusMeters:       profile.FloorRadiusMeters,
	}
}

// Analyze runs the detector end to end over a trajectory's fix stream and
// persists the resulting accept/reject outcomes, markers and statistics.
func (a *DetectionAnalyzer) Analyze(ctx context.Context, taskID int64, mode string) error {
	log.Printf("[DetectionAnalyzer] starting analysis (task_id=%d, mode=%s)", taskID, mode)

	if err := a.MarkTaskAsRunning(taskID); err != nil {
		return fmt.Errorf("failed to mark task as running: %w", err)
	}

	info, err := a.GetTaskInfo(taskID)
	if err != nil {
		return fmt.Errorf("failed to get task info: %w", err)
	}

	stored, err := a.fixRepo.ListAllOrdered(info.TrajectoryID)
	if err != nil {
		return fmt.Errorf("failed to load fixes: %w", err)
	}

	if len(stored) == 0 {
		log.Printf("[DetectionAnalyzer] no fixes to process for trajectory %s", info.TrajectoryID)
		return a.MarkTaskAsCompleted(taskID, `{"processedPoints":0}`)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := a.UpdateTaskProgress(taskID, int64(len(stored)), 0, 0); err != nil {
		return fmt.Errorf("failed to update task progress: %w", err)
	}

	fixes := make([]models.Fix, len(stored))
	for i, s := range stored {
		fixes[i] = s.ToFix()
	}

	detector := coredrift.NewDetector(a.resolveConfig(info.ConfigProfileID))
	result := detector.ProcessTrajectory(fixes)

	outcomes := make([]models.StoredFix, len(stored))
	acceptedSet := make(map[models.Fix]bool, len(result.AcceptedFixes))
	for _, f := range result.AcceptedFixes {
		acceptedSet[f] = true
	}
	for i, s := range stored {
		outcomes[i] = s
		outcomes[i].Accepted = acceptedSet[fixes[i]]
		if !outcomes[i].Accepted {
			outcomes[i].RejectedReason = coredrift.RejectedReasonDrift
		}
	}

	if err := a.fixRepo.MarkOutcomes(info.TrajectoryID, outcomes); err != nil {
		return fmt.Errorf("failed to persist fix outcomes: %w", err)
	}

	if err := a.markerRepo.DeleteByTrajectory(info.TrajectoryID); err != nil {
		return fmt.Errorf("failed to clear stale markers: %w", err)
	}
	if err := a.markerRepo.BatchInsert(info.TrajectoryID, result.Markers); err != nil {
		return fmt.Errorf("failed to persist markers: %w", err)
	}

	stats := snapshotToStatistics(info.TrajectoryID, result.Statistics)
	if err := a.statsRepo.Upsert(&stats); err != nil {
		return fmt.Errorf("failed to persist statistics: %w", err)
	}

	summary := map[string]interface{}{
		"processedPoints": len(stored),
		"acceptedCount":   result.Statistics.AcceptedCount,
		"rejectedCount":   result.Statistics.RejectedCount,
		"rebuildCount":    result.Statistics.RebuildCount,
	}
	summaryJSON, _ := json.Marshal(summary)

	if err := a.MarkTaskAsCompleted(taskID, string(summaryJSON)); err != nil {
		return fmt.Errorf("failed to mark task as completed: %w", err)
	}

	log.Printf("[DetectionAnalyzer] completed: %d processed, %d accepted, %d rejected",
		len(stored), result.Statistics.AcceptedCount, result.Statistics.RejectedCount)
	return nil
}

func snapshotToStatistics(trajectoryID string, snap coredrift.Snapshot) models.ProcessingStatistics {
	s := models.ProcessingStatistics{
		TrajectoryID:          trajectoryID,
		InputCount:            snap.AcceptedCount + snap.RejectedCount,
		AcceptedCount:         snap.AcceptedCount,
		RejectedCount:         snap.RejectedCount,
		RebuildCount:          int(snap.RebuildCount),
		FilteringRate:         snap.FilteringRate,
		ProcessingTimeMs:      snap.ProcessingTimeMs,
		WindowLength:          snap.WindowLength,
		HasBasePoint:          snap.HasBasePoint,
		ConsecutiveDriftCount: snap.ConsecutiveDriftCount,
		BaseAgeMs:             snap.BaseAgeMs,
		BaseExpired:           snap.BaseExpired,
	}
	if snap.BasePoint != nil {
		s.BaseLat = snap.BasePoint.Lat
		s.BaseLng = snap.BasePoint.Lng
		s.BaseRadius = snap.BaseRadius
	}
	return s
}

func init() {
	analysis.RegisterAnalyzer("drift_detection", NewDetectionAnalyzer)
}
