package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sitefiler/backend/internal/models"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.UserCapability{},
		&models.Site{},
		&models.SiteMembership{},
		&models.Folder{},
		&models.File{},
		&models.Clipboard{},
		&models.ClipboardItem{},
	)
	if err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, superuser bool) *models.User {
	t.Helper()
	user := &models.User{
		Email:       email,
		FirstName:   "Test",
		LastName:    "User",
		IsSuperuser: superuser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating user %s: %v", email, err)
	}
	return user
}

func createSite(t *testing.T, db *gorm.DB, domain string) *models.Site {
	t.Helper()
	site := &models.Site{Name: domain, Domain: domain}
	if err := db.Create(site).Error; err != nil {
		t.Fatalf("failed creating site %s: %v", domain, err)
	}
	return site
}

func grantRole(t *testing.T, db *gorm.DB, user *models.User, site *models.Site, role models.SiteRole) {
	t.Helper()
	membership := &models.SiteMembership{
		UserID: user.ID,
		SiteID: site.ID,
		Role:   role,
	}
	if err := db.Create(membership).Error; err != nil {
		t.Fatalf("failed granting %s on %s: %v", role, site.Domain, err)
	}
}

func grantCapability(t *testing.T, db *gorm.DB, user *models.User, capability models.Capability) {
	t.Helper()
	grant := &models.UserCapability{UserID: user.ID, Capability: capability}
	if err := db.Create(grant).Error; err != nil {
		t.Fatalf("failed granting capability %s: %v", capability, err)
	}
}

type folderOpts struct {
	parent     *models.Folder
	folderType models.FolderType
	siteID     *uuid.UUID
	restricted bool
}

func createFolder(t *testing.T, db *gorm.DB, name string, opts folderOpts) *models.Folder {
	t.Helper()
	if opts.folderType == "" {
		opts.folderType = models.FolderTypeSite
	}
	folder := &models.Folder{
		Name:       name,
		FolderType: opts.folderType,
		SiteID:     opts.siteID,
		Restricted: opts.restricted,
	}
	if opts.parent != nil {
		folder.ParentID = &opts.parent.ID
	}
	if err := db.Create(folder).Error; err != nil {
		t.Fatalf("failed creating folder %s: %v", name, err)
	}
	return folder
}

func createFile(t *testing.T, db *gorm.DB, name string, folder *models.Folder, restricted bool) *models.File {
	t.Helper()
	file := &models.File{
		Name:             name,
		OriginalFilename: name,
		MimeType:         "text/plain",
		Size:             10,
		Restricted:       restricted,
	}
	if folder != nil {
		file.FolderID = &folder.ID
	}
	if err := db.Create(file).Error; err != nil {
		t.Fatalf("failed creating file %s: %v", name, err)
	}
	return file
}

func addToClipboard(t *testing.T, db *gorm.DB, user *models.User, file *models.File) {
	t.Helper()
	clipboard := &models.Clipboard{UserID: user.ID}
	if err := db.Where("user_id = ?", user.ID).FirstOrCreate(clipboard).Error; err != nil {
		t.Fatalf("failed creating clipboard: %v", err)
	}
	item := &models.ClipboardItem{ClipboardID: clipboard.ID, FileID: file.ID}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed adding file to clipboard: %v", err)
	}
}

func newServices(db *gorm.DB) (*RoleService, *ClassifierService, *PermissionService, *BulkService) {
	roles := NewRoleService(db)
	classifier := NewClassifierService(db, roles)
	permissions := NewPermissionService(db, roles, classifier)
	bulk := NewBulkService(db, roles, classifier)
	return roles, classifier, permissions, bulk
}

func folderIDs(folders []models.Folder) map[uuid.UUID]bool {
	ids := make(map[uuid.UUID]bool, len(folders))
	for _, f := range folders {
		ids[f.ID] = true
	}
	return ids
}

func fileIDs(files []models.File) map[uuid.UUID]bool {
	ids := make(map[uuid.UUID]bool, len(files))
	for _, f := range files {
		ids[f.ID] = true
	}
	return ids
}
