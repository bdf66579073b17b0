package permissions

import (
	"github.com/sirupsen/logrus"

	"launcher-api/internal/constants"
	"launcher-api/internal/models"
)

// AccessType represents the access level of a user
type AccessType int

const (
	// None represents an unresolved identity
	None AccessType = iota
	// Free represents a signed-up user without premium
	Free
	// Premium represents a user with the premium flag set
	Premium
	// Admin represents the super-admin identity
	Admin
)

// Tier returns the display label for the access type
func (a AccessType) Tier() string {
	switch a {
	case Admin:
		return constants.TierAdmin
	case Premium:
		return constants.TierPremium
	default:
		return constants.TierFree
	}
}

// UserDirectory resolves stored user records by username
type UserDirectory interface {
	FindUser(username string) (models.User, bool)
}

// PermissionController resolves access types and tiers
type PermissionController struct {
	adminUsername string
	logger        *logrus.Logger
}

// NewController creates a new permission controller
func NewController(adminUsername string, logger *logrus.Logger) *PermissionController {
	if adminUsername == "" {
		adminUsername = constants.DefaultAdminUsername
	}

	logger.Infof("Initialized permission controller with admin %q", adminUsername)

	return &PermissionController{
		adminUsername: adminUsername,
		logger:        logger,
	}
}

// AdminUsername returns the configured super-admin identity
func (p *PermissionController) AdminUsername() string {
	return p.adminUsername
}

// IsAdmin checks if a username is the super-admin
func (p *PermissionController) IsAdmin(username string) bool {
	isAdmin := username != "" && username == p.adminUsername
	p.logger.Debugf("Checking if user %q is admin: %v", username, isAdmin)
	return isAdmin
}

// GetAccessType determines the access type of a user.
// The admin identity wins regardless of any stored record; unknown users are Free.
func (p *PermissionController) GetAccessType(dir UserDirectory, username string) AccessType {
	if username == "" {
		return None
	}

	if p.IsAdmin(username) {
		return Admin
	}

	if user, ok := dir.FindUser(username); ok && user.IsPremium {
		return Premium
	}

	return Free
}

// TierOf returns the display tier of a user
func (p *PermissionController) TierOf(dir UserDirectory, username string) string {
	return p.GetAccessType(dir, username).Tier()
}
