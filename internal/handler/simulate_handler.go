package handler

import (
	"math/rand"

	"github.com/gin-gonic/gin"
	"github.com/trailwatch/gpsdrift/internal/models"
	"github.com/trailwatch/gpsdrift/internal/simulate"
	"github.com/trailwatch/gpsdrift/pkg/response"
)

// SimulateHandler generates synthetic corrupted trajectories from a clean
// baseline, for exercising the detector against known ground truth.
type SimulateHandler struct{}

func NewSimulateHandler() *SimulateHandler {
	return &SimulateHandler{}
}

// SimulateRequest is the request body for POST /simulate.
type SimulateRequest struct {
	Baseline []models.Fix `json:"baseline" binding:"required"`
	Seed     int64        `json:"seed"`

	StaticDriftCount   *int `json:"staticDriftCount,omitempty"`
	MovingDriftCount   *int `json:"movingDriftCount,omitempty"`
	TunnelCount        *int `json:"tunnelCount,omitempty"`
	SpeedScenarioCount *int `json:"speedScenarioCount,omitempty"`
}

// Simulate overlays synthetic drift, tunnel and speed anomalies onto a
// caller-supplied clean baseline trajectory and returns both the corrupted
// fix stream and the ground-truth markers.
// POST /api/v1/simulate
func (h *SimulateHandler) Simulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if len(req.Baseline) == 0 {
		response.BadRequest(c, "baseline must not be empty")
		return
	}

	cfg := simulate.DefaultConfig()
	if req.StaticDriftCount != nil {
		cfg.StaticDriftCount = *req.StaticDriftCount
	}
	if req.MovingDriftCount != nil {
		cfg.MovingDriftCount = *req.MovingDriftCount
	}
	if req.TunnelCount != nil {
		cfg.TunnelCount = *req.TunnelCount
	}
	if req.SpeedScenarioCount != nil {
		cfg.SpeedScenarioCount = *req.SpeedScenarioCount
	}

	rng := rand.New(rand.NewSource(req.Seed))
	result := simulate.Generate(req.Baseline, cfg, rng)

	response.Success(c, gin.H{
		"fixes":   result.Fixes,
		"markers": result.Markers,
	})
}
