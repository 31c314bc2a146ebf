package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sitefiler/backend/internal/models"
	"gorm.io/gorm"
)

// RoleService answers role questions against the site-membership and
// capability tables. Every method is a total function: a nil or unknown
// user yields false or an empty set, never an error.
type RoleService struct {
	DB *gorm.DB
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{DB: db}
}

// HasAdminRole reports whether the user is a superuser or holds the
// admin role on at least one site.
func (r *RoleService) HasAdminRole(ctx context.Context, user *models.User) bool {
	if user == nil {
		return false
	}
	if user.IsSuperuser {
		return true
	}
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.SiteMembership{}).
		Where("user_id = ? AND role = ?", user.ID, models.SiteRoleAdmin).
		Count(&count).Error
	return err == nil && count > 0
}

// SitesForUser returns every site where the user holds any role.
func (r *RoleService) SitesForUser(ctx context.Context, user *models.User) []uuid.UUID {
	if user == nil {
		return nil
	}
	return r.memberSites(ctx, user, nil)
}

// AdminSitesForUser returns the subset of sites where the user's role is
// specifically admin.
func (r *RoleService) AdminSitesForUser(ctx context.Context, user *models.User) []uuid.UUID {
	if user == nil {
		return nil
	}
	role := models.SiteRoleAdmin
	return r.memberSites(ctx, user, &role)
}

func (r *RoleService) HasRoleOnSite(ctx context.Context, user *models.User, siteID uuid.UUID) bool {
	if user == nil {
		return false
	}
	if user.IsSuperuser {
		return true
	}
	return lo.Contains(r.SitesForUser(ctx, user), siteID)
}

func (r *RoleService) HasAdminRoleOnSite(ctx context.Context, user *models.User, siteID uuid.UUID) bool {
	if user == nil {
		return false
	}
	if user.IsSuperuser {
		return true
	}
	return lo.Contains(r.AdminSitesForUser(ctx, user), siteID)
}

// HasCapability reports whether the user holds an admin-surface grant.
// Superusers implicitly hold every capability.
func (r *RoleService) HasCapability(ctx context.Context, user *models.User, capability models.Capability) bool {
	if user == nil {
		return false
	}
	if user.IsSuperuser {
		return true
	}
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.UserCapability{}).
		Where("user_id = ? AND capability = ?", user.ID, capability).
		Count(&count).Error
	return err == nil && count > 0
}

func (r *RoleService) memberSites(ctx context.Context, user *models.User, role *models.SiteRole) []uuid.UUID {
	q := r.DB.WithContext(ctx).
		Model(&models.SiteMembership{}).
		Where("user_id = ?", user.ID)
	if role != nil {
		q = q.Where("role = ?", *role)
	}
	var memberships []models.SiteMembership
	if err := q.Find(&memberships).Error; err != nil {
		return nil
	}
	return lo.Uniq(lo.Map(memberships, func(m models.SiteMembership, _ int) uuid.UUID {
		return m.SiteID
	}))
}
