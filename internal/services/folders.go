package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sitefiler/backend/internal/models"
	"github.com/sitefiler/backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrDuplicateFolderName = errors.New("a folder with this name already exists here")

// FolderService owns folder lifecycle: creation, renames, type
// conversion and trashing. All writes here are the caller-side mutations
// the permission evaluator must have approved beforehand.
type FolderService struct {
	DB         *gorm.DB
	Classifier *ClassifierService
}

func NewFolderService(db *gorm.DB, classifier *ClassifierService) *FolderService {
	return &FolderService{DB: db, Classifier: classifier}
}

// MakeRoot creates a top-level folder. This is the only entry point for
// root creation; AddChild never applies to the synthetic root.
func (s *FolderService) MakeRoot(ctx context.Context, name string, siteID *uuid.UUID, ownerID *uuid.UUID) (*models.Folder, error) {
	if err := s.checkSiblingName(ctx, nil, name, uuid.Nil); err != nil {
		return nil, err
	}
	folder := &models.Folder{
		Name:       name,
		FolderType: models.FolderTypeSite,
		SiteID:     siteID,
		OwnerID:    ownerID,
	}
	if err := s.DB.WithContext(ctx).Create(folder).Error; err != nil {
		return nil, err
	}
	logger.Info("folder_root_created", map[string]interface{}{
		"folder_id": folder.ID.String(),
		"name":      name,
	})
	return folder, nil
}

// Create adds a child folder. Type and site are inherited from the
// parent so the top-down invariants hold from birth.
func (s *FolderService) Create(ctx context.Context, parent *models.Folder, name string, ownerID *uuid.UUID) (*models.Folder, error) {
	if err := s.checkSiblingName(ctx, &parent.ID, name, uuid.Nil); err != nil {
		return nil, err
	}
	folder := &models.Folder{
		Name:       name,
		ParentID:   &parent.ID,
		FolderType: parent.FolderType,
		SiteID:     parent.SiteID,
		OwnerID:    ownerID,
	}
	if err := s.DB.WithContext(ctx).Create(folder).Error; err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *FolderService) Rename(ctx context.Context, folder *models.Folder, name string) error {
	if err := s.checkSiblingName(ctx, folder.ParentID, name, folder.ID); err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).
		Model(folder).
		Update("name", name).Error; err != nil {
		return err
	}
	folder.Name = name
	return nil
}

// ConvertToCore turns the folder and its whole subtree into core
// folders, clearing every site link on the way down.
func (s *FolderService) ConvertToCore(ctx context.Context, folder *models.Folder) error {
	return s.convertSubtree(ctx, folder, models.FolderTypeCore, nil)
}

// ConvertToSite is the reverse transition; it demands an explicit site
// and propagates it to every descendant.
func (s *FolderService) ConvertToSite(ctx context.Context, folder *models.Folder, siteID uuid.UUID) error {
	if siteID == uuid.Nil {
		return errors.New("converting to a site folder requires a site")
	}
	return s.convertSubtree(ctx, folder, models.FolderTypeSite, &siteID)
}

func (s *FolderService) convertSubtree(ctx context.Context, folder *models.Folder, folderType models.FolderType, siteID *uuid.UUID) error {
	descendants, err := s.Classifier.Descendants(ctx, folder)
	if err != nil {
		return err
	}
	ids := append(
		lo.Map(descendants, func(f models.Folder, _ int) uuid.UUID { return f.ID }),
		folder.ID,
	)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.Folder{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"folder_type": folderType,
				"site_id":     siteID,
			}).Error
	})
	if err != nil {
		return err
	}

	folder.FolderType = folderType
	folder.SiteID = siteID
	logger.Info("folder_type_converted", map[string]interface{}{
		"folder_id":   folder.ID.String(),
		"folder_type": string(folderType),
		"subtree":     len(ids),
	})
	return nil
}

// SetRestricted flips the restriction flag. No propagation happens on
// write: descendants pick the restriction up at read time through the
// ancestor walk.
func (s *FolderService) SetRestricted(ctx context.Context, folder *models.Folder, restricted bool) error {
	if err := s.DB.WithContext(ctx).
		Model(folder).
		Update("restricted", restricted).Error; err != nil {
		return err
	}
	folder.Restricted = restricted
	return nil
}

// Trash soft-deletes the folder together with its subtree and the files
// inside it. Rows keep their deletion timestamp until an out-of-band
// reaper hard-deletes what is empty.
func (s *FolderService) Trash(ctx context.Context, folder *models.Folder) error {
	descendants, err := s.Classifier.Descendants(ctx, folder)
	if err != nil {
		return err
	}
	ids := append(
		lo.Map(descendants, func(f models.Folder, _ int) uuid.UUID { return f.ID }),
		folder.ID,
	)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("folder_id IN ?", ids).Delete(&models.File{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Folder{}).Error
	})
	if err != nil {
		return err
	}

	logger.Info("folder_trashed", map[string]interface{}{
		"folder_id": folder.ID.String(),
		"subtree":   len(ids),
	})
	return nil
}

// checkSiblingName enforces name uniqueness among non-trashed siblings.
// Trashed rows do not count; the reaper may bring the name back.
func (s *FolderService) checkSiblingName(ctx context.Context, parentID *uuid.UUID, name string, excludeID uuid.UUID) error {
	q := s.DB.WithContext(ctx).Model(&models.Folder{}).Where("name = ?", name)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateFolderName
	}
	return nil
}
