package service

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/trailwatch/gpsdrift/internal/drift"
	"github.com/trailwatch/gpsdrift/internal/models"
	"github.com/trailwatch/gpsdrift/internal/repository"
)

// TrajectoryService handles business logic for trajectories: creation,
// fix ingestion, synchronous detector runs and the read paths over the
// results.
type TrajectoryService struct {
	trajectoryRepo *repository.TrajectoryRepository
	fixRepo        *repository.FixRepository
	markerRepo     *repository.MarkerRepository
	statsRepo      *repository.StatisticsRepository
}

func NewTrajectoryService(
	trajectoryRepo *repository.TrajectoryRepository,
	fixRepo *repository.FixRepository,
	markerRepo *repository.MarkerRepository,
	statsRepo *repository.StatisticsRepository,
) *TrajectoryService {
	return &TrajectoryService{
		trajectoryRepo: trajectoryRepo,
		fixRepo:        fixRepo,
		markerRepo:     markerRepo,
		statsRepo:      statsRepo,
	}
}

// CreateTrajectory persists a new, empty trajectory.
func (s *TrajectoryService) CreateTrajectory(name, createdBy string) (*models.Trajectory, error) {
	if name == "" {
		return nil, fmt.Errorf("trajectory name is required")
	}

	t := &models.Trajectory{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedBy: createdBy,
	}

	if err := s.trajectoryRepo.Create(t); err != nil {
		return nil, fmt.Errorf("failed to create trajectory: %w", err)
	}
	return t, nil
}

func (s *TrajectoryService) GetTrajectory(id string) (*models.Trajectory, error) {
	t, err := s.trajectoryRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get trajectory: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("trajectory not found")
	}
	return t, nil
}

func (s *TrajectoryService) ListTrajectories(filter models.TrajectoryFilter) ([]models.Trajectory, int64, error) {
	return s.trajectoryRepo.List(filter)
}

// IngestFixes appends raw fixes to a trajectory's fix stream without
// running the detector. Ingestion and processing are deliberately separate
// operations (per the wire contract in §6): a caller may batch several
// ingests before triggering one process call.
func (s *TrajectoryService) IngestFixes(trajectoryID string, fixes []models.Fix) (int, error) {
	if _, err := s.GetTrajectory(trajectoryID); err != nil {
		return 0, err
	}

	valid := make([]models.Fix, 0, len(fixes))
	for _, f := range fixes {
		if f.Valid() {
			valid = append(valid, f)
		}
	}

	if err := s.fixRepo.BatchInsert(trajectoryID, valid); err != nil {
		return 0, fmt.Errorf("failed to ingest fixes: %w", err)
	}
	return len(valid), nil
}

// ProcessTrajectory runs the detector synchronously over every fix
// ingested so far, replacing prior outcomes, markers and statistics.
func (s *TrajectoryService) ProcessTrajectory(trajectoryID string, cfg drift.Config) (drift.Result, error) {
	if _, err := s.GetTrajectory(trajectoryID); err != nil {
		return drift.Result{}, err
	}

	stored, err := s.fixRepo.ListAllOrdered(trajectoryID)
	if err != nil {
		return drift.Result{}, fmt.Errorf("failed to load fixes: %w", err)
	}

	fixes := make([]models.Fix, len(stored))
	for i, sf := range stored {
		fixes[i] = sf.ToFix()
	}

	detector := drift.NewDetector(cfg)
	result := detector.ProcessTrajectory(fixes)

	acceptedSet := make(map[models.Fix]bool, len(result.AcceptedFixes))
	for _, f := range result.AcceptedFixes {
		acceptedSet[f] = true
	}
	outcomes := make([]models.StoredFix, len(stored))
	for i, sf := range stored {
		outcomes[i] = sf
		outcomes[i].Accepted = acceptedSet[fixes[i]]
		if !outcomes[i].Accepted {
			outcomes[i].RejectedReason = drift.RejectedReasonDrift
		}
	}

	if err := s.fixRepo.MarkOutcomes(trajectoryID, outcomes); err != nil {
		return result, fmt.Errorf("failed to persist fix outcomes: %w", err)
	}
	if err := s.markerRepo.DeleteByTrajectory(trajectoryID); err != nil {
		return result, fmt.Errorf("failed to clear stale markers: %w", err)
	}
	if err := s.markerRepo.BatchInsert(trajectoryID, result.Markers); err != nil {
		return result, fmt.Errorf("failed to persist markers: %w", err)
	}

	stats := toProcessingStatistics(trajectoryID, result.Statistics)
	if err := s.statsRepo.Upsert(&stats); err != nil {
		return result, fmt.Errorf("failed to persist statistics: %w", err)
	}

	return result, nil
}

func (s *TrajectoryService) GetTrajectoryStatistics(trajectoryID string) (*models.ProcessingStatistics, error) {
	stats, err := s.statsRepo.GetByTrajectory(trajectoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	if stats == nil {
		return nil, fmt.Errorf("trajectory has not been processed yet")
	}
	return stats, nil
}

func (s *TrajectoryService) GetTrajectoryMarkers(filter models.MarkerFilter) (*models.MarkersResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 500
	}

	markers, total, err := s.markerRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get markers: %w", err)
	}

	return &models.MarkersResponse{
		Data:       markers,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
	}, nil
}

func (s *TrajectoryService) ListFixes(filter models.FixFilter) (*models.FixesResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 500
	}

	fixes, total, err := s.fixRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get fixes: %w", err)
	}

	return &models.FixesResponse{
		Data:       fixes,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
	}, nil
}

func toProcessingStatistics(trajectoryID string, snap drift.Snapshot) models.ProcessingStatistics {
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
