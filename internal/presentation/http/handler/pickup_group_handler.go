package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/festkasse-api/internal/application/service"
	"github.com/sangkips/festkasse-api/internal/presentation/http/dto/request"
	"github.com/sangkips/festkasse-api/internal/presentation/http/dto/response"
)

// PickupGroupHandler handles pickup station requests
type PickupGroupHandler struct {
	groupService *service.PickupGroupService
}

// NewPickupGroupHandler creates a new pickup group handler
func NewPickupGroupHandler(groupService *service.PickupGroupService) *PickupGroupHandler {
	return &PickupGroupHandler{groupService: groupService}
}

// List handles listing pickup groups in display order
func (h *PickupGroupHandler) List(c *gin.Context) {
	groups, err := h.groupService.ListGroups(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Pickup groups retrieved successfully", groups)
}

// Create handles adding a pickup group
func (h *PickupGroupHandler) Create(c *gin.Context) {
	var req request.PickupGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Pickup group created successfully", group)
}

// Rename handles renaming a pickup group
func (h *PickupGroupHandler) Rename(c *gin.Context) {
	var req request.PickupGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	group, err := h.groupService.RenameGroup(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pickup group renamed successfully", group)
}
