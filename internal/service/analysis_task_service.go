package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/trailwatch/gpsdrift/internal/analysis"
	"github.com/trailwatch/gpsdrift/internal/models"
	"github.com/trailwatch/gpsdrift/internal/repository"
)

// AnalysisTaskService handles analysis task business logic
type AnalysisTaskService struct {
	repo *repository.AnalysisTaskRepository
	db   *sql.DB
}

// NewAnalysisTaskService creates a new analysis task service
func NewAnalysisTaskService(repo *repository.AnalysisTaskRepository, db *sql.DB) *AnalysisTaskService {
	return &AnalysisTaskService{
		repo: repo,
		db:   db,
	}
}

// CreateTask creates a new analysis job against a trajectory and starts
// its worker.
func (s *AnalysisTaskService) CreateTask(trajectoryID string, skillName string, taskType string, params map[string]interface{}, createdBy string) (*models.AnalysisTask, error) {
	if !isValidSkillName(skillName) {
		return nil, fmt.Errorf("invalid skill name: %s", skillName)
	}

	if taskType != models.TaskTypeIncremental && taskType != models.TaskTypeFullRecompute {
		return nil, fmt.Errorf("invalid task type: %s", taskType)
	}

	// Count points to analyze
	var count int
	var err error
	if taskType == models.TaskTypeIncremental {
		count, err = s.repo.CountUnanalyzedPoints(trajectoryID)
	} else {
		count, err = s.repo.CountAllPoints(trajectoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to count points: %w", err)
	}

	if count == 0 {
		return nil, fmt.Errorf("no points to analyze")
	}

	// Serialize params to JSON
	var paramsJSON string
	if params != nil {
		paramsBytes, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize params: %w", err)
		}
		paramsJSON = string(paramsBytes)
	}

	task := &models.AnalysisTask{
		TrajectoryID:    trajectoryID,
		SkillName:       skillName,
		TaskType:        taskType,
		Status:          models.TaskStatusPending,
		ProgressPercent: 0,
		TotalPoints:     count,
		ProcessedPoints: 0,
		FailedPoints:    0,
		ParamsJSON:      paramsJSON,
		CreatedBy:       createdBy,
	}

	if err := s.repo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	go s.startAnalysisWorker(task.ID, skillName, taskType)

	return task, nil
}

// startAnalysisWorker runs the Go-native analyzer for skillName in-process.
// Every registered skill in this service is Go-native; there is no
// out-of-process worker path.
func (s *AnalysisTaskService) startAnalysisWorker(taskID int64, skillName string, taskType string) {
	log.Printf("starting analysis worker for task %d (skill: %s, type: %s)", taskID, skillName, taskType)
	s.executeGoAnalysis(taskID, skillName, taskType)
}

// executeGoAnalysis executes a Go-native analysis skill
func (s *AnalysisTaskService) executeGoAnalysis(taskID int64, skillName string, taskType string) {
	log.Printf("executing analysis for task %d (skill: %s)", taskID, skillName)

	analyzer := analysis.GetAnalyzer(skillName, s.db)
	if analyzer == nil {
		log.Printf("failed to get analyzer for skill: %s", skillName)
		s.repo.MarkAsFailed(taskID, fmt.Sprintf("unknown skill: %s", skillName))
		return
	}

	mode := "incremental"
	if taskType == models.TaskTypeFullRecompute {
		mode = "full"
	}

	ctx := context.Background()
	if err := analyzer.Analyze(ctx, taskID, mode); err != nil {
		log.Printf("analysis failed for task %d: %v", taskID, err)
		s.repo.MarkAsFailed(taskID, fmt.Sprintf("analysis failed: %v", err))
		return
	}

	log.Printf("analysis completed for task %d", taskID)
}

// GetTask retrieves a task by ID
func (s *AnalysisTaskService) GetTask(id int64) (*models.AnalysisTask, error) {
	return s.repo.GetByID(id)
}

// ListTasks retrieves tasks for a trajectory with optional status filter
func (s *AnalysisTaskService) ListTasks(trajectoryID string, status string, limit int, offset int) ([]*models.AnalysisTask, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(trajectoryID, status, limit, offset)
}

// CancelTask marks a pending or running task as failed with a cancellation
// message. A worker that is already running is not stopped.
func (s *AnalysisTaskService) CancelTask(id int64) error {
	task, err := s.repo.GetByID(id)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	if task.Status != models.TaskStatusPending && task.Status != models.TaskStatusRunning {
		return fmt.Errorf("task is not running (status: %s)", task.Status)
	}

	return s.repo.MarkAsFailed(id, "task cancelled by user")
}

// TriggerAnalysisChain runs the single registered drift-detection analysis
// job against trajectoryID.
func (s *AnalysisTaskService) TriggerAnalysisChain(trajectoryID string, taskType string, createdBy string) ([]int64, error) {
	task, err := s.CreateTask(trajectoryID, "drift_detection", taskType, nil, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create task for drift_detection: %w", err)
	}
	return []int64{task.ID}, nil
}

// isValidSkillName validates if a skill name is supported
func isValidSkillName(skillName string) bool {
	return skillName == "drift_detection"
}
