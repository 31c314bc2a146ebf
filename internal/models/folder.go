package models

import "github.com/google/uuid"

type FolderType string

const (
	// FolderTypeCore marks globally shared folders. Core folders carry no
	// site and are read-only for everyone through normal channels.
	FolderTypeCore FolderType = "core"
	// FolderTypeSite marks folders owned by exactly one site. A site
	// folder whose SiteID is still null is "ownerless" and only admins
	// may see or touch it.
	FolderTypeSite        FolderType = "site"
	FolderTypeUnspecified FolderType = "unspecified"
)

type Folder struct {
	BaseModel
	Name       string     `json:"name" gorm:"type:varchar(255);not null"`
	ParentID   *uuid.UUID `json:"parentID,omitempty" gorm:"type:uuid;index"`
	FolderType FolderType `json:"folderType" gorm:"type:varchar(20);not null;default:'site';index"`
	SiteID     *uuid.UUID `json:"siteID,omitempty" gorm:"type:uuid;index"`
	Restricted bool       `json:"restricted" gorm:"not null;default:false"`
	OwnerID    *uuid.UUID `json:"ownerID,omitempty" gorm:"type:uuid;index"`

	Parent     *Folder  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Children   []Folder `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	Site       *Site    `json:"site,omitempty" gorm:"foreignKey:SiteID"`
	SharedWith []Site   `json:"-" gorm:"many2many:folder_shared_sites"`
	Files      []File   `json:"-" gorm:"foreignKey:FolderID"`
}

func (Folder) TableName() string {
	return "folders"
}

func (f *Folder) IsCore() bool {
	return f.FolderType == FolderTypeCore
}

func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}

func (f *Folder) HasNoSite() bool {
	return f.SiteID == nil
}
