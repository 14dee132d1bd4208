package handlers

import (
	"net/http"

	"github.com/dzyusuf20/voting-appAPI/internal/database"
	"github.com/dzyusuf20/voting-appAPI/internal/models"

	"github.com/gin-gonic/gin"
)

type hasilRow struct {
	Kandidat string `json:"kandidat"`
	Total    int64  `json:"total"`
}

// Hasil handles GET /hasil/: per-kandidat vote counts for one room,
// highest first, names breaking ties. Kandidat without votes are listed
// with total 0.
func Hasil(c *gin.Context) {
	scope := resolveTenant(c)
	switch scope.Kind {
	case scopeMissing:
		jsonError(c, http.StatusBadRequest, "admin query parameter is required")
		return
	case scopeEmpty:
		c.JSON(http.StatusOK, []hasilRow{})
		return
	}

	rows := make([]hasilRow, 0)
	err := database.DB.Model(&models.Kandidat{}).
		Select("kandidats.nama AS kandidat, " + totalVotesExpr + " AS total").
		Where("kandidats.admin_owner_id = ?", scope.AdminID).
		Order("total desc, kandidats.nama asc").
		Scan(&rows).Error
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to compute hasil")
		return
	}

	c.JSON(http.StatusOK, rows)
}
