package api

import (
	"fmt"
	"net/http"
	"strings"

	"price-tracker/internal/ingest"
	"price-tracker/internal/series"
	"price-tracker/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type APIHandler struct {
	store  *store.RecordStore
	runner *ingest.Runner
}

func SetupRoutes(r *gin.RouterGroup, st *store.RecordStore, runner *ingest.Runner) *APIHandler {
	handler := &APIHandler{
		store:  st,
		runner: runner,
	}

	r.GET("/skus", handler.ListSKUs)

	history := r.Group("/history")
	{
		history.GET("", handler.GetHistory)
		history.GET("/export", handler.ExportHistory)
	}

	ing := r.Group("/ingest")
	{
		ing.POST("/run", handler.RunIngestion)
	}

	return handler
}

// ListSKUs: GET /api/v1/skus -> distinct non-empty skus, sorted
func (h *APIHandler) ListSKUs(c *gin.Context) {
	skus, err := h.store.ListSKUs()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data unavailable"})
		return
	}
	if skus == nil {
		skus = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": "ok", "data": skus})
}

// GetHistory builds the price-history overlay for one sku.
// GET /api/v1/history?sku=ABC123
// An empty or unknown sku yields an empty overlay, not an error.
func (h *APIHandler) GetHistory(c *gin.Context) {
	sku := strings.TrimSpace(c.Query("sku"))

	records, err := h.store.QueryBySKU(sku)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data unavailable"})
		return
	}
	overlay := series.BuildOverlay(series.FromRecords(records))

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "ok",
		"data": gin.H{
			"sku":    sku,
			"series": overlay.Series,
			"rows":   overlay.Rows,
			"y_max":  overlay.YMax,
		},
	})
}

// ExportHistory downloads the detail table for one sku as a spreadsheet.
// GET /api/v1/history/export?sku=ABC123
func (h *APIHandler) ExportHistory(c *gin.Context) {
	sku := strings.TrimSpace(c.Query("sku"))
	if sku == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing sku"})
		return
	}

	records, err := h.store.QueryBySKU(sku)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data unavailable"})
		return
	}
	overlay := series.BuildOverlay(series.FromRecords(records))

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"Timestamp", "Platform", "Price", "Discounted Price", "Discount Start", "Discount End"}
	for i, name := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, name)
	}
	for i, row := range overlay.Rows {
		values := []interface{}{row.Label, row.Platform, row.Price, row.DiscountedPrice, row.DiscountStart, row.DiscountEnd}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=price_history_%s.xlsx", sku))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

// RunIngestion triggers one ingestion run on demand.
// POST /api/v1/ingest/run
func (h *APIHandler) RunIngestion(c *gin.Context) {
	result, err := h.runner.Run()
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": "ok", "data": result})
}
