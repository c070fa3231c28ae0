package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/festkasse-api/internal/application/service"
	"github.com/sangkips/festkasse-api/internal/presentation/http/dto/request"
	"github.com/sangkips/festkasse-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles settings and register HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
	registerService *service.RegisterService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService, registerService *service.RegisterService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		registerService: registerService,
	}
}

// GetSettings returns all settings except the PIN
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.All(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSettings updates the operator settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), &service.UpdateSettingsInput{
		EventName:   req.EventName,
		PrinterName: req.PrinterName,
		AutoPrint:   req.AutoPrint,
		BonPolicy:   req.BonPolicy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}

// GetRegister returns the register of this installation
func (h *SettingsHandler) GetRegister(c *gin.Context) {
	register, err := h.registerService.GetRegister(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Register retrieved successfully", register)
}

// UpdateRegister changes the register name and receipt prefix
func (h *SettingsHandler) UpdateRegister(c *gin.Context) {
	var req request.UpdateRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	register, err := h.registerService.UpdateRegister(c.Request.Context(), &service.UpdateRegisterInput{
		Name:   req.Name,
		Prefix: req.Prefix,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Register updated successfully", register)
}
