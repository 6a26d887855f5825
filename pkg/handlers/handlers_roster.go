package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnavshah/duty-roster-go/pkg/cache"
	"github.com/arnavshah/duty-roster-go/pkg/config"
	"github.com/arnavshah/duty-roster-go/pkg/export"
	"github.com/arnavshah/duty-roster-go/pkg/models"
	"github.com/arnavshah/duty-roster-go/pkg/roster"
	"github.com/arnavshah/duty-roster-go/pkg/scheduler"
	"github.com/arnavshah/duty-roster-go/pkg/staffio"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvContentType  = "text/csv; charset=utf-8"
)

// Generate handles the JSON-based generation request
func (h *Handler) Generate(c *gin.Context) {
	var input models.GenerateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := staffio.ValidateStaff(input.Staff); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.generate(c, input.Staff, input.StartDate, input.EndDate, input.Seed, nil)
}

// Upload handles a staff table upload (xlsx or csv) and generates from it
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("staff_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "staff_file is required"})
		return
	}

	var seed *int64
	if raw := strings.TrimSpace(c.PostForm("seed")); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "seed must be an integer"})
			return
		}
		seed = &v
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open staff file"})
		return
	}
	defer f.Close()

	res, err := staffio.Parse(file.Filename, f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(res.Staff) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": staffio.ErrNoStaff.Error(), "warnings": res.Warnings})
		return
	}

	h.generate(c, res.Staff, c.PostForm("start_date"), c.PostForm("end_date"), seed, res.Warnings)
}

func (h *Handler) generate(c *gin.Context, staff []models.Staff, startRaw, endRaw string, seed *int64, warnings []staffio.RowWarning) {
	start, err := config.ParseDate(startRaw)
	if err != nil {
		h.respondError(c, &scheduler.ConfigurationError{Field: "start_date", Err: err})
		return
	}
	end, err := config.ParseDate(endRaw)
	if err != nil {
		h.respondError(c, &scheduler.ConfigurationError{Field: "end_date", Err: err})
		return
	}

	r, err := h.Store.Generate(staff, start, end, roster.GenerateOptions{Seed: seed})
	if err != nil {
		h.respondError(c, err)
		return
	}

	if h.Usage != nil {
		if err := h.Usage.RecordGeneration(c.Request.Context(), r, len(staff)); err != nil {
			h.logger().Warn("Failed to record usage", zap.String("run_id", r.RunID), zap.Error(err))
		}
	}

	if warnings == nil {
		warnings = []staffio.RowWarning{}
	}
	c.JSON(http.StatusOK, gin.H{"roster": r, "warnings": warnings})
}

// GetRoster returns the current roster
func (h *Handler) GetRoster(c *gin.Context) {
	r, err := h.Store.Current()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// GetPivot returns the date by slot table
func (h *Handler) GetPivot(c *gin.Context) {
	r, err := h.Store.Current()
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	key := cache.Key("pivot", r.RunID, r.Version)

	var table export.Table
	if !h.Cache.GetJSON(ctx, key, &table) {
		table = export.Pivot(r, h.Store.Config())
		h.Cache.SetJSON(ctx, key, table)
	}

	c.JSON(http.StatusOK, gin.H{"version": r.Version, "table": table})
}

// GetDaily returns one table per date
func (h *Handler) GetDaily(c *gin.Context) {
	r, err := h.Store.Current()
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	key := cache.Key("daily", r.RunID, r.Version)

	var days []export.DayTable
	if !h.Cache.GetJSON(ctx, key, &days) {
		days = export.Daily(r, h.Store.Config())
		h.Cache.SetJSON(ctx, key, days)
	}

	c.JSON(http.StatusOK, gin.H{"version": r.Version, "days": days})
}

// GetTotals returns per-staff counts
func (h *Handler) GetTotals(c *gin.Context) {
	r, err := h.Store.Current()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"version":        r.Version,
		"totals":         export.Totals(r),
		"fairness_score": r.FairnessScore,
	})
}

// Swap exchanges the staff of two assignment rows
func (h *Handler) Swap(c *gin.Context) {
	var input models.SwapInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := h.Store.Swap(input.RowA, input.RowB)
	if h.Usage != nil && !errors.Is(err, roster.ErrNoRoster) {
		if recErr := h.Usage.RecordSwap(c.Request.Context(), err == nil); recErr != nil {
			h.logger().Warn("Failed to record usage", zap.Error(recErr))
		}
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

// ExportXLSX streams the roster as a workbook
func (h *Handler) ExportXLSX(c *gin.Context) {
	r, err := h.Store.Current()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", attachment(r, "xlsx"))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := export.WriteXLSX(c.Writer, r, h.Store.Config()); err != nil {
		h.logger().Error("Failed to write workbook", zap.String("run_id", r.RunID), zap.Error(err))
	}
}

// ExportCSV streams the assignment list as CSV
func (h *Handler) ExportCSV(c *gin.Context) {
	r, err := h.Store.Current()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", attachment(r, "csv"))
	c.Header("Content-Type", csvContentType)
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, r); err != nil {
		h.logger().Error("Failed to write csv", zap.String("run_id", r.RunID), zap.Error(err))
	}
}

func attachment(r *models.Roster, ext string) string {
	return fmt.Sprintf(`attachment; filename="roster_%s_%s.%s"`, r.StartDate, r.EndDate, ext)
}

// GetConfig returns the configuration rosters are generated with
func (h *Handler) GetConfig(c *gin.Context) {
	cfg := h.Store.Config()
	c.JSON(http.StatusOK, gin.H{
		"config":     cfg,
		"slots":      cfg.Slots(),
		"recurrence": cfg.Recurrence(),
		"state":      h.Store.State(),
	})
}
