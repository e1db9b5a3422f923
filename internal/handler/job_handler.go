package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/trailwatch/gpsdrift/internal/service"
	"github.com/trailwatch/gpsdrift/pkg/response"
)

// driftDetectionSkill is the only analysis skill registered in this module.
const driftDetectionSkill = "drift_detection"

// JobHandler handles HTTP requests for asynchronous drift-detection jobs
// run against a trajectory.
type JobHandler struct {
	service *service.AnalysisTaskService
}

func NewJobHandler(service *service.AnalysisTaskService) *JobHandler {
	return &JobHandler{service: service}
}

// CreateJobRequest represents the request body for creating a job.
type CreateJobRequest struct {
	TaskType string `json:"taskType" binding:"required"` // INCREMENTAL or FULL_RECOMPUTE
}

// CreateJob triggers the drift_detection skill against a trajectory.
// POST /api/v1/trajectories/:id/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	trajectoryID := c.Param("id")

	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	createdBy := c.GetString("user")
	if createdBy == "" {
		createdBy = "anonymous"
	}

	task, err := h.service.CreateTask(trajectoryID, driftDetectionSkill, req.TaskType, nil, createdBy)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, task)
}

// GetJob retrieves a job by ID.
// GET /api/v1/trajectories/:id/jobs/:jobID
func (h *JobHandler) GetJob(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("jobID"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid job id")
		return
	}

	task, err := h.service.GetTask(id)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, task)
}

// ListJobs lists jobs for a trajectory, optionally filtered by status.
// GET /api/v1/trajectories/:id/jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	trajectoryID := c.Param("id")
	status := c.Query("status")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		offset = 0
	}

	tasks, err := h.service.ListTasks(trajectoryID, status, limit, offset)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"jobs":   tasks,
		"limit":  limit,
		"offset": offset,
	})
}

// CancelJob marks a pending or running job as failed with a cancellation
// message; a worker that is already running is not stopped.
// DELETE /api/v1/trajectories/:id/jobs/:jobID
func (h *JobHandler) CancelJob(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("jobID"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid job id")
		return
	}

	if err := h.service.CancelTask(id); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{"message": "job cancelled"})
}
