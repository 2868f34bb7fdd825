package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"apparel_store/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	analyticsService services.AnalyticsService
}

func NewAdminHandler(analyticsService services.AnalyticsService) *AdminHandler {
	return &AdminHandler{analyticsService: analyticsService}
}

// Summary reports revenue and order counts for a date range. The range
// defaults to the last 30 days.
func (h *AdminHandler) Summary(c *gin.Context) {
	from, to := dateRange(c)

	summary, err := h.analyticsService.Summary(from, to)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to build summary")
		return
	}
	respondOK(c, http.StatusOK, summary)
}

func (h *AdminHandler) TopProducts(c *gin.Context) {
	from, to := dateRange(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	products, err := h.analyticsService.TopProducts(from, to, limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to rank products")
		return
	}
	respondOK(c, http.StatusOK, products)
}

// Usage serves the quota dashboard: current-month API call counters plus
// the image CDN account numbers.
func (h *AdminHandler) Usage(c *gin.Context) {
	report, err := h.analyticsService.Usage()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to build usage report")
		return
	}
	respondOK(c, http.StatusOK, report)
}

// ExportOrders streams the filtered order list as an XLSX download.
func (h *AdminHandler) ExportOrders(c *gin.Context) {
	filter := orderFilterFromQuery(c)

	workbook, err := h.analyticsService.ExportOrders(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to export orders")
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}

func dateRange(c *gin.Context) (from, to time.Time) {
	to = time.Now()
	from = to.AddDate(0, 0, -30)
	if parsed, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		from = parsed
	}
	if parsed, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		// Make the end date inclusive.
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to
}
