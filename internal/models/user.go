package models

import "github.com/google/uuid"

// Capability is a per-user grant on the admin surface, independent of any
// site role. Holding a capability is necessary but never sufficient: the
// permission evaluator combines it with site membership.
type Capability string

const (
	CapabilityAddFolder           Capability = "add_folder"
	CapabilityChangeFolder        Capability = "change_folder"
	CapabilityDeleteFolder        Capability = "delete_folder"
	CapabilityChangeFile          Capability = "change_file"
	CapabilityDeleteFile          Capability = "delete_file"
	CapabilityRestrictOperations  Capability = "can_restrict_operations"
	CapabilityUseDirectoryListing Capability = "can_use_directory_listing"
)

type User struct {
	BaseModel
	Email        string           `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	FirstName    string           `json:"firstName" gorm:"type:varchar(100);not null"`
	LastName     string           `json:"lastName" gorm:"type:varchar(100);not null"`
	IsSuperuser  bool             `json:"isSuperuser" gorm:"not null;default:false"`
	Memberships  []SiteMembership `json:"-" gorm:"foreignKey:UserID"`
	Capabilities []UserCapability `json:"-" gorm:"foreignKey:UserID"`
}

type UserCapability struct {
	BaseModel
	UserID     uuid.UUID  `json:"userID" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_capability"`
	Capability Capability `json:"capability" gorm:"type:varchar(50);not null;uniqueIndex:idx_user_capability"`
}

func (UserCapability) TableName() string {
	return "user_capabilities"
}
