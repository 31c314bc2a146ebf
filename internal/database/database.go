package database

import (
	"fmt"

	"github.com/sitefiler/backend/internal/config"
	"github.com/sitefiler/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.UserCapability{},
		&models.Site{},
		&models.SiteMembership{},
		&models.Folder{},
		&models.File{},
		&models.Clipboard{},
		&models.ClipboardItem{},
	); err != nil {
		return err
	}

	constraint := `
DO $$
BEGIN
  IF NOT EXISTS (
    SELECT 1
    FROM pg_constraint
    WHERE conname = 'core_folder_has_no_site_check'
  ) THEN
    ALTER TABLE folders
    ADD CONSTRAINT core_folder_has_no_site_check
    CHECK (folder_type <> 'core' OR site_id IS NULL);
  END IF;
END $$;`

	return db.Exec(constraint).Error
}
