package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/trailwatch/gpsdrift/internal/models"
	"github.com/trailwatch/gpsdrift/internal/service"
	"github.com/trailwatch/gpsdrift/pkg/response"
)

// ConfigProfileHandler handles HTTP requests for detector config profiles.
type ConfigProfileHandler struct {
	service *service.ConfigProfileService
}

func NewConfigProfileHandler(service *service.ConfigProfileService) *ConfigProfileHandler {
	return &ConfigProfileHandler{service: service}
}

// CreateProfile creates a new detector configuration profile.
// POST /api/v1/config-profiles
func (h *ConfigProfileHandler) CreateProfile(c *gin.Context) {
	var p models.DetectorConfigProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	p.CreatedBy = c.GetString("user")

	created, err := h.service.CreateProfile(&p)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, created)
}

// ListProfiles lists all detector configuration profiles.
// GET /api/v1/config-profiles
func (h *ConfigProfileHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.service.ListProfiles()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, profiles)
}

// GetProfile retrieves a detector configuration profile by ID.
// GET /api/v1/config-profiles/:id
func (h *ConfigProfileHandler) GetProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid profile id")
		return
	}

	profile, err := h.service.GetProfile(id)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, profile)
}

// UpdateProfile updates an existing detector configuration profile.
// PUT /api/v1/config-profiles/:id
func (h *ConfigProfileHandler) UpdateProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid profile id")
		return
	}

	var p models.DetectorConfigProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	p.ID = id

	if err := h.service.UpdateProfile(&p); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, p)
}
