package handlers

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/dzyusuf20/voting-appAPI/internal/auth"
	"github.com/dzyusuf20/voting-appAPI/internal/database"
	"github.com/dzyusuf20/voting-appAPI/internal/middleware"
	"github.com/dzyusuf20/voting-appAPI/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	digits   = "0123456789"
	alphanum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	defaultPrefix = "peserta"
	maxBatchSize  = 500
)

func randomString(charset string, n int) (string, error) {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[idx.Int64()]
	}
	return string(b), nil
}

type generatePesertaRequest struct {
	Jumlah int    `json:"jumlah"`
	Prefix string `json:"prefix"`
}

type generatedAccount struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// GeneratePeserta handles POST /generate-peserta/. The batch runs in one
// transaction: a random-username collision rolls the whole batch back
// instead of leaving a partial one behind.
func GeneratePeserta(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)

	var req generatePesertaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Jumlah < 1 || req.Jumlah > maxBatchSize {
		jsonError(c, http.StatusBadRequest, "jumlah must be between 1 and 500")
		return
	}
	if len(req.Prefix) > 30 {
		jsonError(c, http.StatusBadRequest, "prefix must be 30 characters or fewer")
		return
	}
	prefix := req.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}

	accounts := make([]generatedAccount, 0, req.Jumlah)
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < req.Jumlah; i++ {
			suffix, err := randomString(digits, 5)
			if err != nil {
				return err
			}
			password, err := randomString(alphanum, 8)
			if err != nil {
				return err
			}
			username := prefix + suffix

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			peserta := models.NewPeserta(username, hash, admin.ID)
			if err := tx.Create(&peserta).Error; err != nil {
				return err
			}
			accounts = append(accounts, generatedAccount{Username: username, Password: password})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			jsonError(c, http.StatusInternalServerError, "username collision while generating accounts, retry the request")
			return
		}
		jsonError(c, http.StatusInternalServerError, "failed to generate peserta accounts")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"accounts": accounts})
}

// has the peserta cast their vote; correlated against the votes table
const sudahVoteExpr = "EXISTS (SELECT 1 FROM votes WHERE votes.voter_id = users.id)"

type pesertaRow struct {
	ID                 uint
	Username           string
	MustChangePassword bool
	CreatedAt          time.Time
	SudahVote          bool
}

// ListPeserta handles GET /peserta/ with page-number pagination and an
// optional ?sudah_vote=true|false filter.
func ListPeserta(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)

	filter := c.Query("sudah_vote")
	if filter != "" && filter != "true" && filter != "false" {
		jsonError(c, http.StatusBadRequest, "sudah_vote must be true or false")
		return
	}

	// fresh query per use; gorm chains must not be reused after a finisher
	pesertaQuery := func() *gorm.DB {
		q := database.DB.Model(&models.User{}).
			Where("role = ? AND admin_owner_id = ?", models.RolePeserta, admin.ID)
		switch filter {
		case "true":
			q = q.Where(sudahVoteExpr)
		case "false":
			q = q.Where("NOT " + sudahVoteExpr)
		}
		return q
	}

	var total int64
	if err := pesertaQuery().Count(&total).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to list peserta")
		return
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			jsonError(c, http.StatusNotFound, "invalid page")
			return
		}
		page = n
	}
	lastPage := int((total + int64(cfg.PageSize) - 1) / int64(cfg.PageSize))
	if lastPage == 0 {
		lastPage = 1
	}
	if page > lastPage {
		jsonError(c, http.StatusNotFound, "invalid page")
		return
	}

	var rows []pesertaRow
	err := pesertaQuery().
		Select("users.id, users.username, users.must_change_password, users.created_at, " + sudahVoteExpr + " AS sudah_vote").
		Order("users.created_at asc").
		Offset((page - 1) * cfg.PageSize).
		Limit(cfg.PageSize).
		Scan(&rows).Error
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to list peserta")
		return
	}

	results := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		results = append(results, gin.H{
			"id":                   row.ID,
			"username":             row.Username,
			"must_change_password": row.MustChangePassword,
			"date_joined":          row.CreatedAt.Format("2006-01-02 15:04:05"),
			"sudah_vote":           row.SudahVote,
		})
	}

	var next, previous *string
	if page < lastPage {
		next = pageLink(c, page+1)
	}
	if page > 1 {
		previous = pageLink(c, page-1)
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    total,
		"next":     next,
		"previous": previous,
		"results":  results,
	})
}

func pageLink(c *gin.Context, page int) *string {
	u := *c.Request.URL
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	link := scheme + "://" + c.Request.Host + u.String()
	return &link
}

// DeletePeserta handles DELETE /peserta/:id/. A peserta owned by another
// admin is reported as not found so one tenant cannot probe another's
// roster.
func DeletePeserta(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		jsonError(c, http.StatusNotFound, "peserta not found")
		return
	}

	var peserta models.User
	err = database.DB.
		Where("id = ? AND role = ?", id, models.RolePeserta).
		First(&peserta).Error
	if err != nil {
		jsonError(c, http.StatusNotFound, "peserta not found")
		return
	}

	if peserta.AdminOwnerID == nil || *peserta.AdminOwnerID != admin.ID {
		jsonError(c, http.StatusNotFound, "peserta not found")
		return
	}

	if err := database.DB.Delete(&peserta).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to delete peserta")
		return
	}

	c.Status(http.StatusNoContent)
}
