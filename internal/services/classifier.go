package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sitefiler/backend/internal/models"
	"gorm.io/gorm"
)

// ClassifierService derives folder and file properties that depend on
// the tree: restriction is inherited from ancestors, read-onlyness from
// the folder type. It never caches results on the entities.
type ClassifierService struct {
	DB    *gorm.DB
	Roles *RoleService
}

func NewClassifierService(db *gorm.DB, roles *RoleService) *ClassifierService {
	return &ClassifierService{DB: db, Roles: roles}
}

// Ancestors walks the parent chain from the folder's parent up to the
// root, nearest ancestor first.
func (c *ClassifierService) Ancestors(ctx context.Context, folder *models.Folder) ([]models.Folder, error) {
	var chain []models.Folder
	seen := map[uuid.UUID]bool{folder.ID: true}
	currentID := folder.ParentID

	for currentID != nil {
		if seen[*currentID] {
			break
		}
		seen[*currentID] = true

		var parent models.Folder
		if err := c.DB.WithContext(ctx).First(&parent, "id = ?", *currentID).Error; err != nil {
			return nil, err
		}
		chain = append(chain, parent)
		currentID = parent.ParentID
	}
	return chain, nil
}

// Descendants returns every folder below the given one, level by level.
func (c *ClassifierService) Descendants(ctx context.Context, folder *models.Folder) ([]models.Folder, error) {
	var all []models.Folder
	frontier := []uuid.UUID{folder.ID}

	for len(frontier) > 0 {
		var level []models.Folder
		if err := c.DB.WithContext(ctx).
			Where("parent_id IN ?", frontier).
			Find(&level).Error; err != nil {
			return nil, err
		}
		if len(level) == 0 {
			break
		}
		all = append(all, level...)
		frontier = frontier[:0]
		for _, f := range level {
			frontier = append(frontier, f.ID)
		}
	}
	return all, nil
}

// IsRestricted reports the folder's effective restriction: its own flag
// or any ancestor's. Restriction only ever flows down the subtree.
func (c *ClassifierService) IsRestricted(ctx context.Context, folder *models.Folder) (bool, error) {
	if folder.Restricted {
		return true, nil
	}
	ancestors, err := c.Ancestors(ctx, folder)
	if err != nil {
		return false, err
	}
	for _, ancestor := range ancestors {
		if ancestor.Restricted {
			return true, nil
		}
	}
	return false, nil
}

// IsRestrictedForUser reports whether the folder's effective restriction
// blocks this user. Superusers and holders of the restrict-operations
// capability pass through.
func (c *ClassifierService) IsRestrictedForUser(ctx context.Context, user *models.User, folder *models.Folder) (bool, error) {
	restricted, err := c.IsRestricted(ctx, folder)
	if err != nil || !restricted {
		return false, err
	}
	if user != nil && user.IsSuperuser {
		return false, nil
	}
	if c.Roles.HasCapability(ctx, user, models.CapabilityRestrictOperations) {
		return false, nil
	}
	return true, nil
}

// IsReadonlyForUser reports whether the folder refuses edits outright.
// Core folders are read-only for everyone, superusers included;
// restriction plays no part here.
func (c *ClassifierService) IsReadonlyForUser(_ *models.User, folder *models.Folder) bool {
	return folder.IsCore()
}

// HasRestrictedDescendant reports whether the folder, or anything below
// it, carries the restricted flag while the user cannot bypass it.
func (c *ClassifierService) HasRestrictedDescendant(ctx context.Context, user *models.User, folder *models.Folder) (bool, error) {
	restricted, err := c.IsRestrictedForUser(ctx, user, folder)
	if err != nil {
		return false, err
	}
	if restricted {
		return true, nil
	}
	if user != nil && user.IsSuperuser {
		return false, nil
	}
	if c.Roles.HasCapability(ctx, user, models.CapabilityRestrictOperations) {
		return false, nil
	}
	descendants, err := c.Descendants(ctx, folder)
	if err != nil {
		return false, err
	}
	for _, d := range descendants {
		if d.Restricted {
			return true, nil
		}
	}
	return false, nil
}

// governingFolder loads the folder a file delegates its folder-level
// checks to, or nil for unfiled files.
func (c *ClassifierService) governingFolder(ctx context.Context, file *models.File) (*models.Folder, error) {
	if file.FolderID == nil {
		return nil, nil
	}
	var folder models.Folder
	if err := c.DB.WithContext(ctx).First(&folder, "id = ?", *file.FolderID).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

// FileIsRestrictedForUser ORs the file's own flag with its folder's
// effective restriction, with the same bypasses as folders.
func (c *ClassifierService) FileIsRestrictedForUser(ctx context.Context, user *models.User, file *models.File) (bool, error) {
	restricted := file.Restricted
	if !restricted {
		folder, err := c.governingFolder(ctx, file)
		if err != nil {
			return false, err
		}
		if folder == nil {
			return false, nil
		}
		restricted, err = c.IsRestricted(ctx, folder)
		if err != nil {
			return false, err
		}
	}
	if !restricted {
		return false, nil
	}
	if user != nil && user.IsSuperuser {
		return false, nil
	}
	if c.Roles.HasCapability(ctx, user, models.CapabilityRestrictOperations) {
		return false, nil
	}
	return true, nil
}

// FileIsReadonlyForUser delegates to the owning folder; unfiled files
// are never read-only.
func (c *ClassifierService) FileIsReadonlyForUser(ctx context.Context, user *models.User, file *models.File) (bool, error) {
	folder, err := c.governingFolder(ctx, file)
	if err != nil || folder == nil {
		return false, err
	}
	return c.IsReadonlyForUser(user, folder), nil
}

// CanChangeRestricted is the hook consulted before flipping the
// restricted flag on an already-restricted folder: site folders demand
// the admin role on their site, ownerless ones an admin role anywhere.
func (c *ClassifierService) CanChangeRestricted(ctx context.Context, user *models.User, folder *models.Folder) bool {
	if folder.SiteID != nil {
		return c.Roles.HasAdminRoleOnSite(ctx, user, *folder.SiteID)
	}
	return c.Roles.HasAdminRole(ctx, user)
}
