package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// GetAuditEvents handles GET /api/admin/audit. Supports ?limit= and
// ?user_id= filters, most recent first.
func (s *Server) GetAuditEvents(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 || limit > 1000 {
		limit = 100
	}

	if userID := c.Query("user_id"); userID != "" {
		return c.JSON(fiber.Map{"events": s.audit.ForUser(userID, limit)})
	}
	return c.JSON(fiber.Map{"events": s.audit.Recent(limit)})
}

// GetUserAuditEvents handles GET /api/admin/audit/:userID
func (s *Server) GetUserAuditEvents(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 || limit > 1000 {
		limit = 100
	}
	return c.JSON(fiber.Map{"events": s.audit.ForUser(c.Params("userID"), limit)})
}
