package services

import (
	"context"

	"github.com/sitefiler/backend/internal/models"
	"gorm.io/gorm"
)

// Virtual folders are read-only projections with no persisted identity.
// They exist only so listings can present synthetic groupings: the tree
// root, the unfiled pile, files missing metadata. They form a closed
// set; real folders are never wrapped in one.
type VirtualFolder interface {
	Name() string
	Children(db *gorm.DB) *gorm.DB
	Files(db *gorm.DB) *gorm.DB
}

// FolderRoot is the synthetic top of the tree. It behaves like a core
// folder for everyone except admins, who may create roots under it.
type FolderRoot struct {
	Roles *RoleService
}

func (FolderRoot) Name() string { return "root" }

func (FolderRoot) Children(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Folder{}).Where("parent_id IS NULL")
}

func (FolderRoot) Files(db *gorm.DB) *gorm.DB {
	// children of the root can only be folders
	return db.Model(&models.File{}).Where("1 = 0")
}

func (r FolderRoot) IsReadonlyForUser(ctx context.Context, user *models.User) bool {
	return !r.Roles.HasAdminRole(ctx, user)
}

func (r FolderRoot) IsRestrictedForUser(ctx context.Context, user *models.User) bool {
	return !r.Roles.HasAdminRole(ctx, user)
}

func (r FolderRoot) CanChangeRestricted(ctx context.Context, user *models.User) bool {
	return r.Roles.HasAdminRole(ctx, user)
}

// ContainsFolder reports whether a root folder with the given name
// already exists, trashed rows excluded.
func (r FolderRoot) ContainsFolder(ctx context.Context, db *gorm.DB, name string) (bool, error) {
	var count int64
	err := r.Children(db.WithContext(ctx)).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// UnfiledFiles groups files that were uploaded but never placed into a
// folder and are not sitting in any clipboard.
type UnfiledFiles struct{}

func (UnfiledFiles) Name() string { return "unfiled files" }

func (UnfiledFiles) Children(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Folder{}).Where("1 = 0")
}

func (UnfiledFiles) Files(db *gorm.DB) *gorm.DB {
	return db.Model(&models.File{}).
		Where("files.folder_id IS NULL").
		Where("files.id NOT IN (?)", db.Session(&gorm.Session{NewDB: true}).
			Table("clipboard_items").Select("clipboard_items.file_id"))
}

// MissingMetadataFiles groups files still lacking mandatory metadata.
type MissingMetadataFiles struct{}

func (MissingMetadataFiles) Name() string { return "files with missing metadata" }

func (MissingMetadataFiles) Children(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Folder{}).Where("1 = 0")
}

func (MissingMetadataFiles) Files(db *gorm.DB) *gorm.DB {
	return db.Model(&models.File{}).Where("files.has_all_mandatory_data = ?", false)
}
