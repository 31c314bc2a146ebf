package models

import "github.com/google/uuid"

// SiteRole is the level a user holds on one site. Admins get root-level
// powers scoped to that site; editors get ordinary member access.
type SiteRole string

const (
	SiteRoleAdmin  SiteRole = "admin"
	SiteRoleEditor SiteRole = "editor"
)

// Site is an opaque tenant. Folders and files hang off sites for
// ownership; the permission engine only ever compares site IDs.
type Site struct {
	BaseModel
	Name   string `json:"name" gorm:"type:varchar(100);not null"`
	Domain string `json:"domain" gorm:"type:varchar(255);uniqueIndex;not null"`
}

type SiteMembership struct {
	BaseModel
	UserID uuid.UUID `json:"userID" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_site"`
	SiteID uuid.UUID `json:"siteID" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_site"`
	Role   SiteRole  `json:"role" gorm:"type:varchar(20);not null;default:'editor'"`
	User   User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Site   Site      `json:"site,omitempty" gorm:"foreignKey:SiteID"`
}

func (SiteMembership) TableName() string {
	return "site_memberships"
}
