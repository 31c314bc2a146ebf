package models

import "github.com/google/uuid"

type FileKind string

const (
	FileKindGeneric FileKind = "generic"
	FileKindImage   FileKind = "image"
	FileKindArchive FileKind = "archive"
)

// File lives in at most one folder. A nil FolderID means the file is
// "unfiled": it was uploaded but never placed, and special visibility
// rules apply. A file's Restricted flag is independent of its folder's,
// the effective restriction is the OR of both.
type File struct {
	BaseModel
	Name                string     `json:"name" gorm:"type:varchar(255);not null"`
	OriginalFilename    string     `json:"originalFilename" gorm:"type:varchar(255);not null"`
	MimeType            string     `json:"mimeType" gorm:"type:varchar(255);not null"`
	Size                int64      `json:"size" gorm:"not null;default:0"`
	SHA1                string     `json:"sha1" gorm:"type:varchar(40)"`
	Description         string     `json:"description" gorm:"type:text"`
	Kind                FileKind   `json:"kind" gorm:"type:varchar(20);not null;default:'generic';index"`
	FolderID            *uuid.UUID `json:"folderID,omitempty" gorm:"type:uuid;index"`
	OwnerID             *uuid.UUID `json:"ownerID,omitempty" gorm:"type:uuid;index"`
	Restricted          bool       `json:"restricted" gorm:"not null;default:false"`
	HasAllMandatoryData bool       `json:"hasAllMandatoryData" gorm:"not null;default:false;index"`

	Folder *Folder `json:"folder,omitempty" gorm:"foreignKey:FolderID"`
	Owner  *User   `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

func (File) TableName() string {
	return "files"
}

func (f *File) IsUnfiled() bool {
	return f.FolderID == nil
}
