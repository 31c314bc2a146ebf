package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sitefiler/backend/internal/config"
	"github.com/sitefiler/backend/internal/models"
	"gorm.io/gorm"
)

// VisibilityService narrows folder and file queries down to what one
// user may see. It is a pure set filter: no ordering is imposed and the
// result is de-duplicated. currentSite is only ever non-nil in plugin
// picker contexts, where it constrains everyone, superusers included.
type VisibilityService struct {
	DB    *gorm.DB
	Roles *RoleService
	Cfg   config.ListingConfig
}

func NewVisibilityService(db *gorm.DB, roles *RoleService, cfg config.ListingConfig) *VisibilityService {
	return &VisibilityService{DB: db, Roles: roles, Cfg: cfg}
}

// availableSites resolves the site set the filter works against. With a
// current-site constraint the set collapses to that one site, or to
// nothing when the user may not access it.
func (v *VisibilityService) availableSites(ctx context.Context, currentSite *uuid.UUID, user *models.User) []uuid.UUID {
	sites := v.Roles.SitesForUser(ctx, user)
	if currentSite == nil {
		return sites
	}
	if !user.IsSuperuser && !lo.Contains(sites, *currentSite) {
		return nil
	}
	return []uuid.UUID{*currentSite}
}

// FoldersAvailable filters a folder query to what the user can see:
// core folders, folders shared with an available site, folders owned by
// an available site, and, for admins browsing without a site
// constraint, folders never linked to a site.
func (v *VisibilityService) FoldersAvailable(ctx context.Context, currentSite *uuid.UUID, user *models.User, q *gorm.DB) *gorm.DB {
	q = q.WithContext(ctx)
	if user.IsSuperuser && currentSite == nil {
		return q.Distinct()
	}

	sites := v.availableSites(ctx, currentSite, user)

	cond := v.DB.Where("folders.folder_type = ?", models.FolderTypeCore)
	if len(sites) > 0 {
		cond = cond.Or("folders.site_id IN ?", sites)
		cond = cond.Or("folders.id IN (?)", v.sharedFolderIDs(sites))
	}
	if v.Cfg.IncludeSitelessFolders && currentSite == nil && v.Roles.HasAdminRole(ctx, user) {
		cond = cond.Or("folders.site_id IS NULL")
	}

	return q.Where(cond).Distinct()
}

// FilesAvailable filters a file query the same way, keyed through each
// file's folder. Unfiled files still sitting in another user's
// clipboard never show up; unfiled files in general are hidden whenever
// a current-site constraint is active.
func (v *VisibilityService) FilesAvailable(ctx context.Context, currentSite *uuid.UUID, user *models.User, q *gorm.DB) *gorm.DB {
	q = q.WithContext(ctx).
		Joins("LEFT JOIN folders ON folders.id = files.folder_id").
		Where("NOT (files.folder_id IS NULL AND files.id IN (?))", v.foreignClipboardFileIDs(user))

	if user.IsSuperuser && currentSite == nil {
		return q.Distinct("files.*")
	}

	sites := v.availableSites(ctx, currentSite, user)

	cond := v.DB.Where("folders.folder_type = ?", models.FolderTypeCore)
	if len(sites) > 0 {
		cond = cond.Or("folders.site_id IN ?", sites)
		cond = cond.Or("files.folder_id IN (?)", v.sharedFolderIDs(sites))
	}

	if currentSite == nil {
		cond = cond.Or("files.folder_id IS NULL")
		if v.Cfg.IncludeSitelessFolders && v.Roles.HasAdminRole(ctx, user) {
			cond = cond.Or("files.folder_id IS NOT NULL AND folders.site_id IS NULL")
		}
		return q.Where(cond).Distinct("files.*")
	}

	// never show unfiled in picker contexts
	return q.Where(cond).Where("files.folder_id IS NOT NULL").Distinct("files.*")
}

func (v *VisibilityService) sharedFolderIDs(sites []uuid.UUID) *gorm.DB {
	return v.DB.Table("folder_shared_sites").
		Select("folder_shared_sites.folder_id").
		Where("folder_shared_sites.site_id IN ?", sites)
}

// foreignClipboardFileIDs lists files held in clipboards of users other
// than the one browsing. A user's own pending uploads stay visible to
// them.
func (v *VisibilityService) foreignClipboardFileIDs(user *models.User) *gorm.DB {
	return v.DB.Table("clipboard_items").
		Select("clipboard_items.file_id").
		Joins("JOIN clipboards ON clipboards.id = clipboard_items.clipboard_id").
		Where("clipboards.user_id <> ?", user.ID)
}
