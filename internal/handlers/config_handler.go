package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/roadwatch/roadwatch-backend/internal/config"
	"github.com/roadwatch/roadwatch-backend/internal/dto"
	"github.com/roadwatch/roadwatch-backend/internal/models"
)

// ConfigHandler exposes the values the mobile client needs to render the
// create-report flow and explain verification progress.
type ConfigHandler struct {
	cfg *config.Config
}

func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

func (h *ConfigHandler) Get(c *fiber.Ctx) error {
	return c.JSON(dto.ClientConfigResponse{
		Categories:        models.Categories,
		SeverityMin:       1,
		SeverityMax:       3,
		MaxPhotos:         h.cfg.MaxReportPhotos,
		RetentionDays:     h.cfg.RetentionDays,
		VerifyMinConfirms: h.cfg.VerifyMinConfirms,
		VerifyMinScore:    h.cfg.VerifyMinScore,
		RejectMinDenials:  h.cfg.RejectMinDenials,
		RejectMaxScore:    h.cfg.RejectMaxScore,
	})
}
