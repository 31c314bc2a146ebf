package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sitefiler/backend/internal/models"
	"gorm.io/gorm"
)

// BulkService validates multi-object move/delete/copy actions before
// the caller mutates anything. Checks run in a fixed order and short
// circuit: the first failure is the single reported denial, and a
// denied batch applies to zero items.
type BulkService struct {
	DB         *gorm.DB
	Roles      *RoleService
	Classifier *ClassifierService
}

func NewBulkService(db *gorm.DB, roles *RoleService, classifier *ClassifierService) *BulkService {
	return &BulkService{DB: db, Roles: roles, Classifier: classifier}
}

// Validate walks the batch against the permission rules. Unfiled files
// are dropped from scrutiny first: they are movable and deletable under
// their own rules and never block the batch.
func (b *BulkService) Validate(ctx context.Context, user *models.User, files []models.File, folders []models.Folder) (*Denial, error) {
	files = lo.Filter(files, func(f models.File, _ int) bool {
		return f.FolderID != nil
	})

	governing, err := b.governingFolders(ctx, files)
	if err != nil {
		return nil, err
	}

	for _, folder := range folders {
		if b.Classifier.IsReadonlyForUser(user, &folder) {
			return deny(DenialFileOrFolderReadOnly), nil
		}
	}
	for _, file := range files {
		if folder, ok := governing[*file.FolderID]; ok && b.Classifier.IsReadonlyForUser(user, folder) {
			return deny(DenialFileOrFolderReadOnly), nil
		}
	}

	if user.IsSuperuser {
		return nil, nil
	}

	for _, file := range files {
		restricted, err := b.Classifier.FileIsRestrictedForUser(ctx, user, &file)
		if err != nil {
			return nil, err
		}
		if restricted {
			return deny(DenialFilesOrFoldersRestricted), nil
		}
	}
	for _, folder := range folders {
		restricted, err := b.Classifier.HasRestrictedDescendant(ctx, user, &folder)
		if err != nil {
			return nil, err
		}
		if restricted {
			return deny(DenialFilesOrFoldersRestricted), nil
		}
	}

	// only superusers may touch items with no site ownership in bulk
	for _, folder := range folders {
		if folder.HasNoSite() {
			return deny(DenialNoSiteAssociated), nil
		}
	}
	for _, file := range files {
		if folder, ok := governing[*file.FolderID]; ok && folder.HasNoSite() {
			return deny(DenialNoSiteAssociated), nil
		}
	}

	hasRootFolders := lo.SomeBy(folders, func(f models.Folder) bool {
		return f.IsRoot()
	})

	var sitesAllowed []uuid.UUID
	if hasRootFolders {
		if !b.Roles.HasAdminRole(ctx, user) {
			return deny(DenialNoPermissionRootFolders), nil
		}
		// site admins may move/delete root folders on their own sites
		sitesAllowed = b.Roles.AdminSitesForUser(ctx, user)
	} else {
		sitesAllowed = b.Roles.SitesForUser(ctx, user)
	}

	for _, folder := range folders {
		if !lo.Contains(sitesAllowed, *folder.SiteID) {
			return deny(DenialNoSiteOwnership), nil
		}
	}
	for _, file := range files {
		if folder, ok := governing[*file.FolderID]; ok && !lo.Contains(sitesAllowed, *folder.SiteID) {
			return deny(DenialNoSiteOwnership), nil
		}
	}

	return nil, nil
}

// ValidateDestination gates paste and move targets. Admins bypass the
// restriction check but never the read-only and siteless ones.
func (b *BulkService) ValidateDestination(ctx context.Context, user *models.User, destination *models.Folder) (*Denial, error) {
	if destination == nil {
		return deny(DenialDestinationNotSelected), nil
	}
	if b.Classifier.IsReadonlyForUser(user, destination) {
		return deny(DenialDestinationIsReadOnly), nil
	}
	if destination.HasNoSite() {
		return deny(DenialDestinationHasNoSite), nil
	}
	if user.IsSuperuser {
		return nil, nil
	}
	restricted, err := b.Classifier.IsRestrictedForUser(ctx, user, destination)
	if err != nil {
		return nil, err
	}
	if restricted {
		return deny(DenialDestinationIsRestricted), nil
	}
	if b.Roles.HasRoleOnSite(ctx, user, *destination.SiteID) {
		return nil, nil
	}
	return deny(DenialDestinationSiteIsRestricted), nil
}

// IsValidDestination is the boolean hook the clipboard paste handler
// calls.
func (b *BulkService) IsValidDestination(ctx context.Context, user *models.User, destination *models.Folder) bool {
	denial, err := b.ValidateDestination(ctx, user, destination)
	return err == nil && denial == nil
}

// ValidateMove combines the destination checks with the batch checks
// and refuses moving a folder into itself or its own subtree.
func (b *BulkService) ValidateMove(ctx context.Context, user *models.User, destination *models.Folder, files []models.File, folders []models.Folder) (*Denial, error) {
	if destination == nil {
		return deny(DenialDestinationNotSelected), nil
	}

	for _, folder := range folders {
		if folder.ID == destination.ID {
			return deny(DenialDestinationIsInSameFolder), nil
		}
	}
	destAncestors, err := b.Classifier.Ancestors(ctx, destination)
	if err != nil {
		return nil, err
	}
	ancestorIDs := lo.Map(destAncestors, func(f models.Folder, _ int) uuid.UUID {
		return f.ID
	})
	for _, folder := range folders {
		if lo.Contains(ancestorIDs, folder.ID) {
			return deny(DenialDestinationInSameSubtree), nil
		}
	}

	if denial, err := b.ValidateDestination(ctx, user, destination); denial != nil || err != nil {
		return denial, err
	}
	return b.Validate(ctx, user, files, folders)
}

// ValidateScope rejects batch items that are not part of the listing
// the action was launched from, instead of silently skipping them. A
// nil scope is the root listing.
func (b *BulkService) ValidateScope(scopeFolderID *uuid.UUID, files []models.File, folders []models.Folder) *Denial {
	for _, folder := range folders {
		if !uuidPtrEqual(folder.ParentID, scopeFolderID) {
			return deny(DenialTargetNotInScope)
		}
	}
	for _, file := range files {
		if !uuidPtrEqual(file.FolderID, scopeFolderID) {
			return deny(DenialTargetNotInScope)
		}
	}
	return nil
}

func (b *BulkService) governingFolders(ctx context.Context, files []models.File) (map[uuid.UUID]*models.Folder, error) {
	ids := lo.Uniq(lo.FilterMap(files, func(f models.File, _ int) (uuid.UUID, bool) {
		if f.FolderID == nil {
			return uuid.Nil, false
		}
		return *f.FolderID, true
	}))
	result := make(map[uuid.UUID]*models.Folder, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []models.Folder
	if err := b.DB.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		result[rows[i].ID] = &rows[i]
	}
	return result, nil
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
