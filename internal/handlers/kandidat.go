package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dzyusuf20/voting-appAPI/internal/database"
	"github.com/dzyusuf20/voting-appAPI/internal/middleware"
	"github.com/dzyusuf20/voting-appAPI/internal/models"

	"github.com/gin-gonic/gin"
)

const totalVotesExpr = "(SELECT COUNT(*) FROM votes WHERE votes.kandidat_id = kandidats.id)"

type kandidatRow struct {
	ID         uint
	Nama       string
	Visi       string
	Misi       string
	FotoURL    string
	TotalVotes int64
	CreatedAt  time.Time
}

func (r kandidatRow) toJSON() gin.H {
	return gin.H{
		"id":          r.ID,
		"nama":        r.Nama,
		"visi":        r.Visi,
		"misi":        r.Misi,
		"foto_url":    r.FotoURL,
		"total_votes": r.TotalVotes,
		"created_at":  r.CreatedAt,
	}
}

// ListKandidat handles GET /kandidat/. Visible to the resolved room only;
// anonymous callers must name a room with ?admin=<username>.
func ListKandidat(c *gin.Context) {
	scope := resolveTenant(c)
	switch scope.Kind {
	case scopeMissing:
		jsonError(c, http.StatusBadRequest, "admin query parameter is required")
		return
	case scopeEmpty:
		c.JSON(http.StatusOK, []gin.H{})
		return
	}

	var rows []kandidatRow
	err := database.DB.Model(&models.Kandidat{}).
		Select("kandidats.id, kandidats.nama, kandidats.visi, kandidats.misi, kandidats.foto_url, kandidats.created_at, " + totalVotesExpr + " AS total_votes").
		Where("kandidats.admin_owner_id = ?", scope.AdminID).
		Order("kandidats.created_at desc").
		Scan(&rows).Error
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to list kandidat")
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toJSON())
	}
	c.JSON(http.StatusOK, out)
}

// RetrieveKandidat handles GET /kandidat/:id/. Lookups are scoped: a
// kandidat outside the resolved room is not found.
func RetrieveKandidat(c *gin.Context) {
	scope := resolveTenant(c)
	switch scope.Kind {
	case scopeMissing:
		jsonError(c, http.StatusBadRequest, "admin query parameter is required")
		return
	case scopeEmpty:
		jsonError(c, http.StatusNotFound, "kandidat not found")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		jsonError(c, http.StatusNotFound, "kandidat not found")
		return
	}

	var row kandidatRow
	err = database.DB.Model(&models.Kandidat{}).
		Select("kandidats.id, kandidats.nama, kandidats.visi, kandidats.misi, kandidats.foto_url, kandidats.created_at, " + totalVotesExpr + " AS total_votes").
		Where("kandidats.id = ? AND kandidats.admin_owner_id = ?", id, scope.AdminID).
		Take(&row).Error
	if err != nil {
		jsonError(c, http.StatusNotFound, "kandidat not found")
		return
	}

	c.JSON(http.StatusOK, row.toJSON())
}

type kandidatInput struct {
	Nama    string `json:"nama"`
	Visi    string `json:"visi"`
	Misi    string `json:"misi"`
	FotoURL string `json:"foto_url"`
}

func (in *kandidatInput) validate() string {
	if in.Nama == "" {
		return "nama is required"
	}
	if len(in.Nama) > 100 {
		return "nama must be 100 characters or fewer"
	}
	return ""
}

func kandidatJSON(k *models.Kandidat) gin.H {
	return gin.H{
		"id":       k.ID,
		"nama":     k.Nama,
		"visi":     k.Visi,
		"misi":     k.Misi,
		"foto_url": k.FotoURL,
	}
}

// CreateKandidat handles POST /kandidat/. Ownership is stamped from the
// caller; nothing in the body can place a kandidat in another room.
func CreateKandidat(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)

	var in kandidatInput
	if err := c.ShouldBindJSON(&in); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := in.validate(); msg != "" {
		jsonError(c, http.StatusBadRequest, msg)
		return
	}

	k := models.Kandidat{
		AdminOwnerID: admin.ID,
		Nama:         in.Nama,
		Visi:         in.Visi,
		Misi:         in.Misi,
		FotoURL:      in.FotoURL,
	}
	if err := database.DB.Create(&k).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to create kandidat")
		return
	}

	c.JSON(http.StatusCreated, kandidatJSON(&k))
}

// UpdateKandidat handles PUT /kandidat/:id/.
func UpdateKandidat(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		jsonError(c, http.StatusNotFound, "kandidat not found")
		return
	}

	var k models.Kandidat
	if err := database.DB.First(&k, id).Error; err != nil {
		jsonError(c, http.StatusNotFound, "kandidat not found")
		return
	}
	if k.AdminOwnerID != admin.ID {
		jsonError(c, http.StatusForbidden, "kandidat belongs to another admin")
		return
	}

	var in kandidatInput
	if err := c.ShouldBindJSON(&in); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := in.validate(); msg != "" {
		jsonError(c, http.StatusBadRequest, msg)
		return
	}

	updates := map[string]interface{}{
		"nama":     in.Nama,
		"visi":     in.Visi,
		"misi":     in.Misi,
		"foto_url": in.FotoURL,
	}
	if err := database.DB.Model(&k).Updates(updates).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to update kandidat")
		return
	}

	c.JSON(http.StatusOK, kandidatJSON(&k))
}

// DeleteKandidat handles DELETE /kandidat/:id/. Votes cascade away with
// the kandidat.
func DeleteKandidat(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		jsonError(c, http.StatusNotFound, "kandidat not found")
		return
	}

	var k models.Kandidat
	if err := database.DB.First(&k, id).Error; err != nil {
		jsonError(c, http.StatusNotFound, "kandidat not found")
		return
	}
	if k.AdminOwnerID != admin.ID {
		jsonError(c, http.StatusForbidden, "kandidat belongs to another admin")
		return
	}

	if err := database.DB.Delete(&k).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to delete kandidat")
		return
	}

	c.Status(http.StatusNoContent)
}
