package handlers

import (
	"github.com/dzyusuf20/voting-appAPI/internal/database"
	"github.com/dzyusuf20/voting-appAPI/internal/middleware"
	"github.com/dzyusuf20/voting-appAPI/internal/models"

	"github.com/gin-gonic/gin"
)

type scopeKind int

const (
	// scopeTenant: reads are filtered to one admin's room
	scopeTenant scopeKind = iota
	// scopeEmpty: a room was asked for but does not exist; reads
	// return empty results rather than an error
	scopeEmpty
	// scopeMissing: anonymous caller gave no ?admin= parameter
	scopeMissing
)

type tenantScope struct {
	Kind    scopeKind
	AdminID uint
}

// resolveTenant is the single place that decides whose room a request
// sees: admins see their own, peserta see their owner's, anonymous
// callers name a room via ?admin=<username>.
func resolveTenant(c *gin.Context) tenantScope {
	if user, ok := middleware.CurrentUser(c); ok {
		if user.IsAppAdmin() {
			return tenantScope{Kind: scopeTenant, AdminID: user.ID}
		}
		if user.IsPeserta() {
			if user.AdminOwnerID == nil {
				// owner was deleted; the peserta is detached
				return tenantScope{Kind: scopeEmpty}
			}
			return tenantScope{Kind: scopeTenant, AdminID: *user.AdminOwnerID}
		}
	}

	username := c.Query("admin")
	if username == "" {
		return tenantScope{Kind: scopeMissing}
	}

	var admin models.User
	err := database.DB.
		Where("username = ? AND role = ?", username, models.RoleAdmin).
		First(&admin).Error
	if err != nil {
		return tenantScope{Kind: scopeEmpty}
	}
	return tenantScope{Kind: scopeTenant, AdminID: admin.ID}
}
