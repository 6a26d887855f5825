package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultUsageDays = 30
	defaultRunLimit  = 20
)

// GetUsage returns the daily usage log and the latest generation summaries
func (h *Handler) GetUsage(c *gin.Context) {
	if h.Usage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Usage log is not configured"})
		return
	}

	days := defaultUsageDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}

	ctx := c.Request.Context()
	usage, err := h.Usage.Usage(ctx, days)
	if err != nil {
		h.respondError(c, err)
		return
	}
	runs, err := h.Usage.Runs(ctx, defaultRunLimit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// Calculate totals
	var totalGenerations, totalAssignments, totalSwaps, totalRejected int64
	for _, u := range usage {
		totalGenerations += int64(u.Generations)
		totalAssignments += int64(u.Assignments)
		totalSwaps += int64(u.Swaps)
		totalRejected += int64(u.RejectedSwaps)
	}

	c.JSON(http.StatusOK, gin.H{
		"usage_history": usage,
		"recent_runs":   runs,
		"totals": gin.H{
			"generations":    totalGenerations,
			"assignments":    totalAssignments,
			"swaps":          totalSwaps,
			"rejected_swaps": totalRejected,
		},
	})
}
