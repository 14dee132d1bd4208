package handlers

import (
	"errors"
	"net/http"

	"github.com/dzyusuf20/voting-appAPI/internal/database"
	"github.com/dzyusuf20/voting-appAPI/internal/middleware"
	"github.com/dzyusuf20/voting-appAPI/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type voteRequest struct {
	KandidatID uint `json:"kandidat_id"`
}

// CastVote handles POST /vote/. One vote per peserta, ever; the kandidat
// must belong to the peserta's own room.
func CastVote(c *gin.Context) {
	voter, _ := middleware.CurrentUser(c)

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.KandidatID == 0 {
		jsonError(c, http.StatusBadRequest, "kandidat_id is required")
		return
	}

	// fast path; the unique index on voter_id is what actually closes
	// the door under concurrent casts
	var count int64
	database.DB.Model(&models.Vote{}).
		Where("voter_id = ?", voter.ID).
		Count(&count)
	if count > 0 {
		jsonError(c, http.StatusBadRequest, "you have already voted")
		return
	}

	var kandidat models.Kandidat
	if err := database.DB.First(&kandidat, req.KandidatID).Error; err != nil {
		jsonError(c, http.StatusNotFound, "kandidat not found")
		return
	}

	if voter.AdminOwnerID == nil || kandidat.AdminOwnerID != *voter.AdminOwnerID {
		jsonError(c, http.StatusForbidden, "you are not allowed to vote for this kandidat")
		return
	}

	vote := models.Vote{VoterID: voter.ID, KandidatID: kandidat.ID}
	if err := database.DB.Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			jsonError(c, http.StatusBadRequest, "you have already voted")
			return
		}
		jsonError(c, http.StatusInternalServerError, "failed to record vote")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Vote recorded"})
}
