package service

import (
	"testing"

	"github.com/trailwatch/gpsdrift/internal/drift"
	"github.com/trailwatch/gpsdrift/internal/models"
	"github.com/trailwatch/gpsdrift/internal/repository"
)

func newTrajectoryService(t *testing.T) *TrajectoryService {
	db := newTestDB(t)
	return NewTrajectoryService(
		repository.NewTrajectoryRepository(db),
		repository.NewFixRepository(db),
		repository.NewMarkerRepository(db),
		repository.NewStatisticsRepository(db),
	)
}

func TestTrajectoryServiceCreateTrajectoryRequiresName(t *testing.T) {
	svc := newTrajectoryService(t)

	if _, err := svc.CreateTrajectory("", "alice"); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestTrajectoryServiceCreateAndGet(t *testing.T) {
	svc := newTrajectoryService(t)

	created, err := svc.CreateTrajectory("morning commute", "alice")
	if err != nil {
		t.Fatalf("CreateTrajectory failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated ID")
	}

	got, err := svc.GetTrajectory(created.ID)
	if err != nil {
		t.Fatalf("GetTrajectory failed: %v", err)
	}
	if got.Name != "morning commute" {
		t.Errorf("unexpected trajectory: %+v", got)
	}
}

func TestTrajectoryServiceGetTrajectoryMissing(t *testing.T) {
	svc := newTrajectoryService(t)

	if _, err := svc.GetTrajectory("missing"); err == nil {
		t.Fatal("expected error for missing trajectory")
	}
}

func TestTrajectoryServiceIngestFixesFiltersInvalid(t *testing.T) {
	svc := newTrajectoryService(t)

	traj, err := svc.CreateTrajectory("trip", "alice")
	if err != nil {
		t.Fatalf("CreateTrajectory failed: %v", err)
	}

	fixes := []models.Fix{
		{Lat: 1, Lng: 1, T: 1000},
		{Lat: 200, Lng: 1, T: 2000}, // out of range latitude
		{Lat: 2, Lng: 2, T: 3000},
	}

	count, err := svc.IngestFixes(traj.ID, fixes)
	if err != nil {
		t.Fatalf("IngestFixes failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 valid fixes ingested, got %d", count)
	}
}

func TestTrajectoryServiceIngestFixesRejectsUnknownTrajectory(t *testing.T) {
	svc := newTrajectoryService(t)

	if _, err := svc.IngestFixes("missing", []models.Fix{{Lat: 1, Lng: 1, T: 1000}}); err == nil {
		t.Fatal("expected error when ingesting into a missing trajectory")
	}
}

func TestTrajectoryServiceGetTrajectoryStatisticsBeforeProcessing(t *testing.T) {
	svc := newTrajectoryService(t)

	traj, err := svc.CreateTrajectory("trip", "alice")
	if err != nil {
		t.Fatalf("CreateTrajectory failed: %v", err)
	}

	if _, err := svc.GetTrajectoryStatistics(traj.ID); err == nil {
		t.Fatal("expected error before a trajectory has been processed")
	}
}

func TestTrajectoryServiceProcessTrajectory(t *testing.T) {
	svc := newTrajectoryService(t)

	traj, err := svc.CreateTrajectory("trip", "alice")
	if err != nil {
		t.Fatalf("CreateTrajectory failed: %v", err)
	}

	fixes := []models.Fix{
		{Lat: 1.0000, Lng: 1.0000, T: 0},
		{Lat: 1.0001, Lng: 1.0001, T: 1000},
		{Lat: 1.0002, Lng: 1.0002, T: 2000},
		{Lat: 1.0003, Lng: 1.0003, T: 3000},
		{Lat: 1.0004, Lng: 1.0004, T: 4000},
	}
	if _, err := svc.IngestFixes(traj.ID, fixes); err != nil {
		t.Fatalf("IngestFixes failed: %v", err)
	}

	cfg := drift.DefaultConfig()
	cfg.WindowSize = 3
	result, err := svc.ProcessTrajectory(traj.ID, cfg)
	if err != nil {
		t.Fatalf("ProcessTrajectory failed: %v", err)
	}
	if result.OriginalPoints != len(fixes) {
		t.Errorf("expected OriginalPoints=%d, got %d", len(fixes), result.OriginalPoints)
	}

	stats, err := svc.GetTrajectoryStatistics(traj.ID)
	if err != nil {
		t.Fatalf("GetTrajectoryStatistics failed: %v", err)
	}
	if stats.InputCount != len(fixes) {
		t.Errorf("expected persisted InputCount=%d, got %d", len(fixes), stats.InputCount)
	}

	fixesResp, err := svc.ListFixes(models.FixFilter{TrajectoryID: traj.ID})
	if err != nil {
		t.Fatalf("ListFixes failed: %v", err)
	}
	if int(fixesResp.Total) != len(fixes) {
		t.Errorf("expected %d stored fixes, got %d", len(fixes), fixesResp.Total)
	}
}
