package handler

import (
	"time"

	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetDailySalesReport returns the date-filtered sales report.
// An unparseable or missing ?date falls back to today, like the
// report screen's default.
// GET /api/v1/reports/sales?date=YYYY-MM-DD
func (h *ReportHandler) GetDailySalesReport(c *fiber.Ctx) error {
	day := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local); err == nil {
			day = parsed
		}
	}

	report, err := h.service.GetDailySalesReport(day)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build sales report"})
	}

	return c.JSON(report)
}

// GetDashboardStats returns overview statistics
// GET /api/v1/dashboard/stats
func (h *ReportHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	return c.JSON(stats)
}
