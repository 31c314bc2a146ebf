package models

import "github.com/google/uuid"

// Clipboard is a per-user scratch list of uploaded files awaiting
// placement into a folder. The engine never mutates clipboards; it only
// consults them so one user's pending uploads never leak into another
// user's listings.
type Clipboard struct {
	BaseModel
	UserID uuid.UUID       `json:"userID" gorm:"type:uuid;not null;uniqueIndex"`
	User   User            `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Items  []ClipboardItem `json:"items,omitempty" gorm:"foreignKey:ClipboardID"`
}

func (Clipboard) TableName() string {
	return "clipboards"
}

type ClipboardItem struct {
	BaseModel
	ClipboardID uuid.UUID `json:"clipboardID" gorm:"type:uuid;not null;index"`
	FileID      uuid.UUID `json:"fileID" gorm:"type:uuid;not null;index"`
	File        File      `json:"file,omitempty" gorm:"foreignKey:FileID"`
}

func (ClipboardItem) TableName() string {
	return "clipboard_items"
}
