package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/duty-roster-go/pkg/staffio"
)

// ValidateStaff parses an uploaded staff table without generating anything
func (h *Handler) ValidateStaff(c *gin.Context) {
	file, err := c.FormFile("staff_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "staff_file is required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"valid": false, "error": "Failed to open staff file"})
		return
	}
	defer f.Close()

	res, err := staffio.Parse(file.Filename, f)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	if len(res.Staff) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid":    false,
			"error":    "At least one staff member is required",
			"warnings": res.Warnings,
		})
		return
	}

	cfg := h.Store.Config()
	campuses := make(map[string]int)
	var unknown []string
	for _, st := range res.Staff {
		campuses[st.Campus]++
		if st.Campus == cfg.WildcardCampus {
			continue
		}
		known := false
		for _, cp := range cfg.Campuses {
			if cp.Name == st.Campus {
				known = true
				break
			}
		}
		if !known {
			unknown = append(unknown, st.Name)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"warnings": res.Warnings,
		"stats": gin.H{
			"staff_count":    len(res.Staff),
			"campus_counts":  campuses,
			"unknown_campus": unknown,
		},
	})
}
