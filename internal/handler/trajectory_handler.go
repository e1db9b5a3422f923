package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/trailwatch/gpsdrift/internal/adapter"
	"github.com/trailwatch/gpsdrift/internal/models"
	"github.com/trailwatch/gpsdrift/internal/service"
	"github.com/trailwatch/gpsdrift/pkg/response"
)

// TrajectoryHandler handles HTTP requests for trajectories: creation,
// fix ingestion, synchronous processing and the read paths over fixes,
// markers and statistics.
type TrajectoryHandler struct {
	service    *service.TrajectoryService
	profileSvc *service.ConfigProfileService
}

func NewTrajectoryHandler(service *service.TrajectoryService, profileSvc *service.ConfigProfileService) *TrajectoryHandler {
	return &TrajectoryHandler{service: service, profileSvc: profileSvc}
}

// CreateTrajectoryRequest is the request body for POST /trajectories.
type CreateTrajectoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateTrajectory creates a new, empty trajectory.
// POST /api/v1/trajectories
func (h *TrajectoryHandler) CreateTrajectory(c *gin.Context) {
	var req CreateTrajectoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	createdBy := c.GetString("user")
	if createdBy == "" {
		createdBy = "anonymous"
	}

	t, err := h.service.CreateTrajectory(req.Name, createdBy)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, t)
}

// GetTrajectory retrieves a trajectory by ID.
// GET /api/v1/trajectories/:id
func (h *TrajectoryHandler) GetTrajectory(c *gin.Context) {
	t, err := h.service.GetTrajectory(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, t)
}

// ListTrajectories lists trajectories matching an optional filter.
// GET /api/v1/trajectories
func (h *TrajectoryHandler) ListTrajectories(c *gin.Context) {
	var filter models.TrajectoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	trajectories, total, err := h.service.ListTrajectories(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"data":  trajectories,
		"total": total,
	})
}

// IngestFixes accepts a batch of fixes for a trajectory. The request body
// may be a JSON array of {lat,lng,timestamp} objects, one of the object
// shapes internal/adapter.LoadFromJSON understands, or a plain-text
// lat,lng[,timestamp] listing (detected via Content-Type).
// POST /api/v1/trajectories/:id/fixes
func (h *TrajectoryHandler) IngestFixes(c *gin.Context) {
	trajectoryID := c.Param("id")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "failed to read request body")
		return
	}

	var fixes []models.Fix
	if ct := c.ContentType(); ct == "text/plain" {
		fixes = adapter.ParseFromString(string(body))
	} else {
		fixes, err = adapter.LoadFromJSON(body)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	count, err := h.service.IngestFixes(trajectoryID, fixes)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{"ingested": count})
}

// ProcessRequest optionally names a config profile to run the detector
// with, instead of the default.
type ProcessRequest struct {
	ConfigProfileID *int64 `json:"configProfileId,omitempty"`
}

// ProcessTrajectory runs the detector synchronously over every fix
// ingested for a trajectory so far.
// POST /api/v1/trajectories/:id/process
func (h *TrajectoryHandler) ProcessTrajectory(c *gin.Context) {
	trajectoryID := c.Param("id")

	var req ProcessRequest
	// Body is optional; an empty or absent body means "use the default profile".
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "invalid request body")
			return
		}
	}

	cfg, err := h.profileSvc.ResolveDetectorConfig(req.ConfigProfileID)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ProcessTrajectory(trajectoryID, cfg)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"originalPoints":  result.OriginalPoints,
		"processedPoints": result.ProcessedPoints,
		"filteredPoints":  result.FilteredPoints,
		"statistics":      result.Statistics,
	})
}

// GetStatistics returns the most recent processing snapshot for a
// trajectory.
// GET /api/v1/trajectories/:id/statistics
func (h *TrajectoryHandler) GetStatistics(c *gin.Context) {
	stats, err := h.service.GetTrajectoryStatistics(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, stats)
}

// ListMarkers lists anomaly markers recorded for a trajectory.
// GET /api/v1/trajectories/:id/markers
func (h *TrajectoryHandler) ListMarkers(c *gin.Context) {
	var filter models.MarkerFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	filter.TrajectoryID = c.Param("id")

	markers, err := h.service.GetTrajectoryMarkers(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, markers)
}

// ListFixes lists the fixes stored for a trajectory, including the
// detector's accept/reject verdict once processed.
// GET /api/v1/trajectories/:id/fixes
func (h *TrajectoryHandler) ListFixes(c *gin.Context) {
	var filter models.FixFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	filter.TrajectoryID = c.Param("id")

	fixes, err := h.service.ListFixes(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, fixes)
}
