package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-triage/internal/insights"
)

// InsightsHandler exposes the post-resolution analysis report.
type InsightsHandler struct {
	analyzer *insights.Analyzer
}

// NewInsightsHandler constructs the handler.
func NewInsightsHandler(analyzer *insights.Analyzer) *InsightsHandler {
	return &InsightsHandler{analyzer: analyzer}
}

// Report GET /insights/report. Builds the report over all resolved tickets.
func (h *InsightsHandler) Report(c *fiber.Ctx) error {
	report, err := h.analyzer.BuildReport(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}
