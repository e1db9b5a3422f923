package repository

import (
	"testing"

	"github.com/trailwatch/gpsdrift/internal/models"
)

func TestAnalysisTaskRepositoryCreateAndGetByID(t *testing.T) {
	db := newTestDB(t)
	if err := NewTrajectoryRepository(db).Create(&models.Trajectory{ID: "t1", Name: "trip"}); err != nil {
		t.Fatalf("Create trajectory failed: %v", err)
	}

	repo := NewAnalysisTaskRepository(db)
	task := &models.AnalysisTask{
		TrajectoryID: "t1",
		SkillName:    "drift_detection",
		TaskType:     models.TaskTypeIncremental,
		Status:       models.TaskStatusPending,
	}
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if task.ID == 0 {
		t.Fatal("expected Create to populate task.ID")
	}

	got, err := repo.GetByID(task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.SkillName != "drift_detection" || got.Status != models.TaskStatusPending {
		t.Errorf("unexpected task: %+v", got)
	}
}

func TestAnalysisTaskRepositoryGetByIDMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewAnalysisTaskRepository(db)

	if _, err := repo.GetByID(999); err == nil {
		t.Fatal("expected error for missing task")
	}
}

func TestAnalysisTaskRepositoryLifecycle(t *testing.T) {
	db := newTestDB(t)
	if err := NewTrajectoryRepository(db).Create(&models.Trajectory{ID: "t1", Name: "trip"}); err != nil {
		t.Fatalf("Create trajectory failed: %v", err)
	}

	repo := NewAnalysisTaskRepository(db)
	task := &models.AnalysisTask{
		TrajectoryID: "t1",
		SkillName:    "drift_detection",
		TaskType:     models.TaskTypeFullRecompute,
		Status:       models.TaskStatusPending,
	}
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.MarkAsRunning(task.ID); err != nil {
		t.Fatalf("MarkAsRunning failed: %v", err)
	}
	running, err := repo.GetByID(task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if running.Status != models.TaskStatusRunning || running.StartTime == 0 {
		t.Errorf("expected running status with start time set, got %+v", running)
	}

	if err := repo.UpdateProgress(task.ID, 50, 0, 50, 10); err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	progressed, err := repo.GetByID(task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if progressed.ProcessedPoints != 50 || progressed.ProgressPercent != 50 {
		t.Errorf("expected progress to be recorded, got %+v", progressed)
	}

	if err := repo.MarkAsCompleted(task.ID, `{"accepted":90}`); err != nil {
		t.Fatalf("MarkAsCompleted failed: %v", err)
	}
	completed, err := repo.GetByID(task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if completed.Status != models.TaskStatusCompleted || completed.ProgressPercent != 100 {
		t.Errorf("expected completed status at 100%%, got %+v", completed)
	}
	if completed.ResultSummary != `{"accepted":90}` {
		t.Errorf("expected result summary to be stored, got %q", completed.ResultSummary)
	}
}

func TestAnalysisTaskRepositoryMarkAsFailed(t *testing.T) {
	db := newTestDB(t)
	if err := NewTrajectoryRepository(db).Create(&models.Trajectory{ID: "t1", Name: "trip"}); err != nil {
		t.Fatalf("Create trajectory failed: %v", err)
	}

	repo := NewAnalysisTaskRepository(db)
	task := &models.AnalysisTask{TrajectoryID: "t1", SkillName: "drift_detection", TaskType: models.TaskTypeIncremental}
	if err := repo.Create(task); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.MarkAsFailed(task.ID, "detector panicked"); err != nil {
		t.Fatalf("MarkAsFailed failed: %v", err)
	}

	got, err := repo.GetByID(task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.TaskStatusFailed || got.ErrorMessage != "detector panicked" {
		t.Errorf("expected failed status with error message, got %+v", got)
	}
}

func TestAnalysisTaskRepositoryListFiltersByStatus(t *testing.T) {
	db := newTestDB(t)
	if err := NewTrajectoryRepository(db).Create(&models.Trajectory{ID: "t1", Name: "trip"}); err != nil {
		t.Fatalf("Create trajectory failed: %v", err)
	}

	repo := NewAnalysisTaskRepository(db)
	pending := &models.AnalysisTask{TrajectoryID: "t1", SkillName: "drift_detection", TaskType: models.TaskTypeIncremental, Status: models.TaskStatusPending}
	running := &models.AnalysisTask{TrajectoryID: "t1", SkillName: "drift_detection", TaskType: models.TaskTypeIncremental, Status: models.TaskStatusRunning}
	if err := repo.Create(pending); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(running); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	out, err := repo.List("t1", models.TaskStatusRunning, 10, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out) != 1 || out[0].ID != running.ID {
		t.Errorf("expected only the running task, got %+v", out)
	}
}

func TestAnalysisTaskRepositoryCountUnanalyzedPoints(t *testing.T) {
	db := newTestDB(t)
	if err := NewTrajectoryRepository(db).Create(&models.Trajectory{ID: "t1", Name: "trip"}); err != nil {
		t.Fatalf("Create trajectory failed: %v", err)
	}
	if err := NewFixRepository(db).BatchInsert("t1", []models.Fix{{Lat: 1, Lng: 1, T: 1000}, {Lat: 2, Lng: 2, T: 2000}}); err != nil {
		t.Fatalf("BatchInsert failed: %v", err)
	}

	repo := NewAnalysisTaskRepository(db)
	count, err := repo.CountUnanalyzedPoints("t1")
	if err != nil {
		t.Fatalf("CountUnanalyzedPoints failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 unanalyzed points, got %d", count)
	}

	all, err := repo.CountAllPoints("t1")
	if err != nil {
		t.Fatalf("CountAllPoints failed: %v", err)
	}
	if all != 2 {
		t.Errorf("expected 2 total points, got %d", all)
	}
}
