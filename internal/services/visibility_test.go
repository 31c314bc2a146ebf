package services

import (
	"context"
	"testing"

	"github.com/sitefiler/backend/internal/config"
	"github.com/sitefiler/backend/internal/models"
	"gorm.io/gorm"
)

func newVisibility(db *gorm.DB, includeSiteless bool) *VisibilityService {
	roles := NewRoleService(db)
	return NewVisibilityService(db, roles, config.ListingConfig{
		IncludeSitelessFolders: includeSiteless,
	})
}

func listFolders(t *testing.T, q *gorm.DB) []models.Folder {
	t.Helper()
	var folders []models.Folder
	if err := q.Find(&folders).Error; err != nil {
		t.Fatalf("failed listing folders: %v", err)
	}
	return folders
}

func listFiles(t *testing.T, q *gorm.DB) []models.File {
	t.Helper()
	var files []models.File
	if err := q.Find(&files).Error; err != nil {
		t.Fatalf("failed listing files: %v", err)
	}
	return files
}

func TestFoldersAvailable(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	siteA := createSite(t, db, "a.example.com")
	siteB := createSite(t, db, "b.example.com")

	superuser := createUser(t, db, "root@test.com", true)
	editorA := createUser(t, db, "editor-a@test.com", false)
	adminA := createUser(t, db, "admin-a@test.com", false)
	grantRole(t, db, editorA, siteA, models.SiteRoleEditor)
	grantRole(t, db, adminA, siteA, models.SiteRoleAdmin)

	coreFolder := createFolder(t, db, "core docs", folderOpts{folderType: models.FolderTypeCore})
	folderA := createFolder(t, db, "site a", folderOpts{siteID: &siteA.ID})
	folderB := createFolder(t, db, "site b", folderOpts{siteID: &siteB.ID})
	siteless := createFolder(t, db, "orphan", folderOpts{})

	sharedWithA := createFolder(t, db, "shared", folderOpts{siteID: &siteB.ID})
	if err := db.Model(sharedWithA).Association("SharedWith").Append(siteA); err != nil {
		t.Fatalf("failed sharing folder: %v", err)
	}

	visibility := newVisibility(db, true)

	t.Run("superuser without constraint sees everything", func(t *testing.T) {
		folders := listFolders(t, visibility.FoldersAvailable(ctx, nil, superuser, db.Model(&models.Folder{})))
		if len(folders) != 5 {
			t.Errorf("expected all 5 folders, got %d", len(folders))
		}
	})

	t.Run("site editor sees core, own-site and shared folders only", func(t *testing.T) {
		ids := folderIDs(listFolders(t, visibility.FoldersAvailable(ctx, nil, editorA, db.Model(&models.Folder{}))))
		if !ids[coreFolder.ID] {
			t.Error("core folder should be visible")
		}
		if !ids[folderA.ID] {
			t.Error("own-site folder should be visible")
		}
		if !ids[sharedWithA.ID] {
			t.Error("folder shared with own site should be visible")
		}
		if ids[folderB.ID] {
			t.Error("foreign-site folder must not leak")
		}
		if ids[siteless.ID] {
			t.Error("siteless folder must not be visible to non-admins")
		}
	})

	t.Run("admins additionally see siteless folders", func(t *testing.T) {
		ids := folderIDs(listFolders(t, visibility.FoldersAvailable(ctx, nil, adminA, db.Model(&models.Folder{}))))
		if !ids[siteless.ID] {
			t.Error("siteless folder should be visible to site admins")
		}
	})

	t.Run("siteless inclusion can be configured off", func(t *testing.T) {
		strict := newVisibility(db, false)
		ids := folderIDs(listFolders(t, strict.FoldersAvailable(ctx, nil, adminA, db.Model(&models.Folder{}))))
		if ids[siteless.ID] {
			t.Error("siteless folder must be hidden when the flag is off")
		}
	})

	t.Run("current-site constraint applies to superusers too", func(t *testing.T) {
		ids := folderIDs(listFolders(t, visibility.FoldersAvailable(ctx, &siteA.ID, superuser, db.Model(&models.Folder{}))))
		if ids[folderB.ID] {
			t.Error("constraint must hide foreign-site folders even for superusers")
		}
		if !ids[folderA.ID] || !ids[coreFolder.ID] {
			t.Error("constrained listing keeps the site's folders and core folders")
		}
		if ids[siteless.ID] {
			t.Error("constrained listing never includes siteless folders")
		}
	})

	t.Run("constraint on an inaccessible site yields core only", func(t *testing.T) {
		ids := folderIDs(listFolders(t, visibility.FoldersAvailable(ctx, &siteB.ID, editorA, db.Model(&models.Folder{}))))
		if !ids[coreFolder.ID] {
			t.Error("core folders stay visible")
		}
		if ids[folderB.ID] || ids[folderA.ID] {
			t.Error("no site folders should be visible without a role on the constrained site")
		}
	})

	t.Run("identical inputs yield identical outputs", func(t *testing.T) {
		first := folderIDs(listFolders(t, visibility.FoldersAvailable(ctx, nil, editorA, db.Model(&models.Folder{}))))
		second := folderIDs(listFolders(t, visibility.FoldersAvailable(ctx, nil, editorA, db.Model(&models.Folder{}))))
		if len(first) != len(second) {
			t.Fatalf("expected stable results, got %d then %d", len(first), len(second))
		}
		for id := range first {
			if !second[id] {
				t.Error("second run is missing a folder from the first")
			}
		}
	})
}

func TestFilesAvailable(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	siteA := createSite(t, db, "a.example.com")
	siteB := createSite(t, db, "b.example.com")

	superuser := createUser(t, db, "root@test.com", true)
	editorA := createUser(t, db, "editor-a@test.com", false)
	adminA := createUser(t, db, "admin-a@test.com", false)
	uploader := createUser(t, db, "uploader@test.com", false)
	grantRole(t, db, editorA, siteA, models.SiteRoleEditor)
	grantRole(t, db, adminA, siteA, models.SiteRoleAdmin)

	coreFolder := createFolder(t, db, "core docs", folderOpts{folderType: models.FolderTypeCore})
	folderA := createFolder(t, db, "site a", folderOpts{siteID: &siteA.ID})
	folderB := createFolder(t, db, "site b", folderOpts{siteID: &siteB.ID})
	siteless := createFolder(t, db, "orphan", folderOpts{})

	coreFile := createFile(t, db, "core.txt", coreFolder, false)
	fileA := createFile(t, db, "a.txt", folderA, false)
	fileB := createFile(t, db, "b.txt", folderB, false)
	sitelessFile := createFile(t, db, "orphan.txt", siteless, false)
	unfiled := createFile(t, db, "unfiled.txt", nil, false)

	pending := createFile(t, db, "pending.txt", nil, false)
	addToClipboard(t, db, uploader, pending)

	visibility := newVisibility(db, true)

	t.Run("superuser sees all but other users' clipboard files", func(t *testing.T) {
		ids := fileIDs(listFiles(t, visibility.FilesAvailable(ctx, nil, superuser, db.Model(&models.File{}))))
		if ids[pending.ID] {
			t.Error("another user's clipboard upload must never leak")
		}
		for _, f := range []*models.File{coreFile, fileA, fileB, sitelessFile, unfiled} {
			if !ids[f.ID] {
				t.Errorf("file %s should be visible to superusers", f.Name)
			}
		}
	})

	t.Run("own clipboard uploads stay visible to the uploader", func(t *testing.T) {
		ids := fileIDs(listFiles(t, visibility.FilesAvailable(ctx, nil, uploader, db.Model(&models.File{}))))
		if !ids[pending.ID] {
			t.Error("a user's own pending upload should be visible to them")
		}
	})

	t.Run("site editor sees core, own-site and unfiled files", func(t *testing.T) {
		ids := fileIDs(listFiles(t, visibility.FilesAvailable(ctx, nil, editorA, db.Model(&models.File{}))))
		if !ids[coreFile.ID] || !ids[fileA.ID] || !ids[unfiled.ID] {
			t.Error("core, own-site and unfiled files should be visible")
		}
		if ids[fileB.ID] {
			t.Error("foreign-site file must not leak")
		}
		if ids[sitelessFile.ID] {
			t.Error("siteless-folder file must not be visible to non-admins")
		}
	})

	t.Run("admins additionally see siteless-folder files", func(t *testing.T) {
		ids := fileIDs(listFiles(t, visibility.FilesAvailable(ctx, nil, adminA, db.Model(&models.File{}))))
		if !ids[sitelessFile.ID] {
			t.Error("siteless-folder file should be visible to site admins")
		}
	})

	t.Run("current-site constraint hides unfiled files", func(t *testing.T) {
		ids := fileIDs(listFiles(t, visibility.FilesAvailable(ctx, &siteA.ID, superuser, db.Model(&models.File{}))))
		if ids[unfiled.ID] {
			t.Error("unfiled files never show in picker contexts")
		}
		if !ids[fileA.ID] || !ids[coreFile.ID] {
			t.Error("constrained listing keeps the site's files and core files")
		}
		if ids[fileB.ID] || ids[sitelessFile.ID] {
			t.Error("foreign-site and siteless files must be hidden under a constraint")
		}
	})
}
