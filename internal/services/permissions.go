package services

import (
	"context"
	"fmt"

	"github.com/sitefiler/backend/internal/models"
	"gorm.io/gorm"
)

type Operation string

const (
	OperationAddChild Operation = "add_child"
	OperationChange   Operation = "change"
	OperationDelete   Operation = "delete"
	OperationRestrict Operation = "restrict"
)

// Decision is the outcome of a single-object permission check. Reason is
// nil exactly when Allowed is true.
type Decision struct {
	Allowed bool
	Reason  *Denial
}

func allowed() Decision {
	return Decision{Allowed: true}
}

func denied(kind DenialKind) Decision {
	return Decision{Reason: deny(kind)}
}

// PermissionService gates every single-object add/change/delete/restrict
// request. Rules are evaluated in strict order; the first matching rule
// wins. Callers check existence before invoking it: a missing target is
// a caller bug, not a denial.
type PermissionService struct {
	DB         *gorm.DB
	Roles      *RoleService
	Classifier *ClassifierService
}

func NewPermissionService(db *gorm.DB, roles *RoleService, classifier *ClassifierService) *PermissionService {
	return &PermissionService{DB: db, Roles: roles, Classifier: classifier}
}

// EvaluateMakeRootFolder covers the only way a folder can be created at
// the top level. Site admins and superusers only.
func (p *PermissionService) EvaluateMakeRootFolder(ctx context.Context, user *models.User) Decision {
	if p.Roles.HasAdminRole(ctx, user) {
		return allowed()
	}
	return denied(DenialNoPermissionRootFolders)
}

// Evaluate dispatches a single-object decision on a folder or file
// target. Unknown target types are a programming error, not a denial.
func (p *PermissionService) Evaluate(ctx context.Context, user *models.User, op Operation, target interface{}) (Decision, error) {
	switch t := target.(type) {
	case *models.Folder:
		return p.EvaluateFolder(ctx, user, op, t)
	case *models.File:
		return p.EvaluateFile(ctx, user, op, t)
	}
	return Decision{}, fmt.Errorf("unsupported permission target %T", target)
}

// EvaluateFolder decides one operation against one folder.
func (p *PermissionService) EvaluateFolder(ctx context.Context, user *models.User, op Operation, folder *models.Folder) (Decision, error) {
	switch op {
	case OperationAddChild:
		return p.evaluateAddChild(ctx, user, folder)
	case OperationChange:
		return p.evaluateFolderMutation(ctx, user, folder, models.CapabilityChangeFolder, false)
	case OperationDelete:
		return p.evaluateFolderMutation(ctx, user, folder, models.CapabilityDeleteFolder, true)
	case OperationRestrict:
		return p.evaluateRestrict(ctx, user, folder, folder.Restricted)
	}
	return denied(DenialOperationNotPermitted), nil
}

// EvaluateFile decides one operation against one file. Folder-level
// checks delegate to the owning folder; unfiled files fall back to the
// unfiled rules, where only the file's own restriction can block.
func (p *PermissionService) EvaluateFile(ctx context.Context, user *models.User, op Operation, file *models.File) (Decision, error) {
	switch op {
	case OperationChange, OperationDelete:
	case OperationRestrict:
		folder, err := p.Classifier.governingFolder(ctx, file)
		if err != nil {
			return Decision{}, err
		}
		return p.evaluateRestrict(ctx, user, folder, file.Restricted)
	default:
		// files gain children through the upload pipeline, never here
		return denied(DenialOperationNotPermitted), nil
	}

	restricted, err := p.Classifier.FileIsRestrictedForUser(ctx, user, file)
	if err != nil {
		return Decision{}, err
	}
	if restricted {
		return denied(DenialFilesOrFoldersRestricted), nil
	}

	folder, err := p.Classifier.governingFolder(ctx, file)
	if err != nil {
		return Decision{}, err
	}
	if folder == nil {
		// unfiled files are managed by whoever uploaded them
		return allowed(), nil
	}

	capability := models.CapabilityChangeFile
	if op == OperationDelete {
		capability = models.CapabilityDeleteFile
	}
	// restriction was already settled above, folder and file combined
	return p.evaluateFileMutation(ctx, user, folder, capability)
}

// evaluateFileMutation is the change/delete ladder for filed files.
// The root-folder admin gate protects the folder object itself, not
// its contents: a file sitting directly in a root folder takes the
// ordinary capability and role checks.
func (p *PermissionService) evaluateFileMutation(ctx context.Context, user *models.User, folder *models.Folder, capability models.Capability) (Decision, error) {
	if p.Classifier.IsReadonlyForUser(user, folder) {
		return denied(DenialFileOrFolderReadOnly), nil
	}
	if folder.HasNoSite() {
		if p.Roles.HasAdminRole(ctx, user) {
			return allowed(), nil
		}
		return denied(DenialNoSiteAssociated), nil
	}
	if !p.Roles.HasCapability(ctx, user, capability) {
		return denied(DenialOperationNotPermitted), nil
	}
	if !p.Roles.HasRoleOnSite(ctx, user, *folder.SiteID) {
		return denied(DenialNoSiteOwnership), nil
	}
	return allowed(), nil
}

func (p *PermissionService) evaluateAddChild(ctx context.Context, user *models.User, folder *models.Folder) (Decision, error) {
	// nobody can add subfolders in core folders
	if p.Classifier.IsReadonlyForUser(user, folder) {
		return denied(DenialFileOrFolderReadOnly), nil
	}
	restricted, err := p.Classifier.IsRestrictedForUser(ctx, user, folder)
	if err != nil {
		return Decision{}, err
	}
	if restricted {
		return denied(DenialFilesOrFoldersRestricted), nil
	}
	// only admins can add subfolders in site folders with no site
	if folder.HasNoSite() {
		if p.Roles.HasAdminRole(ctx, user) {
			return allowed(), nil
		}
		return denied(DenialNoSiteAssociated), nil
	}
	if !p.Roles.HasCapability(ctx, user, models.CapabilityAddFolder) {
		return denied(DenialOperationNotPermitted), nil
	}
	if !p.Roles.HasRoleOnSite(ctx, user, *folder.SiteID) {
		return denied(DenialNoSiteOwnership), nil
	}
	return allowed(), nil
}

// evaluateFolderMutation is the shared change/delete ladder: core is
// untouchable, ownerless folders need an admin, root site folders need
// the site's admin, everything else needs the capability plus a role on
// the owning site.
func (p *PermissionService) evaluateFolderMutation(ctx context.Context, user *models.User, folder *models.Folder, capability models.Capability, checkRestriction bool) (Decision, error) {
	if p.Classifier.IsReadonlyForUser(user, folder) {
		return denied(DenialFileOrFolderReadOnly), nil
	}
	if checkRestriction {
		restricted, err := p.Classifier.IsRestrictedForUser(ctx, user, folder)
		if err != nil {
			return Decision{}, err
		}
		if restricted {
			return denied(DenialFilesOrFoldersRestricted), nil
		}
	}
	if folder.HasNoSite() {
		if p.Roles.HasAdminRole(ctx, user) {
			return allowed(), nil
		}
		return denied(DenialNoSiteAssociated), nil
	}
	if folder.IsRoot() {
		if p.Roles.HasAdminRoleOnSite(ctx, user, *folder.SiteID) {
			return allowed(), nil
		}
		return denied(DenialNoPermissionRootFolders), nil
	}
	if !p.Roles.HasCapability(ctx, user, capability) {
		return denied(DenialOperationNotPermitted), nil
	}
	if !p.Roles.HasRoleOnSite(ctx, user, *folder.SiteID) {
		return denied(DenialNoSiteOwnership), nil
	}
	return allowed(), nil
}

// evaluateRestrict double-gates flag changes: holding the capability is
// necessary, and once something is already restricted the target's own
// hook must also grant the change.
func (p *PermissionService) evaluateRestrict(ctx context.Context, user *models.User, folder *models.Folder, alreadyRestricted bool) (Decision, error) {
	if !p.Roles.HasCapability(ctx, user, models.CapabilityRestrictOperations) {
		return denied(DenialOperationNotPermitted), nil
	}
	if alreadyRestricted {
		granted := p.Roles.HasAdminRole(ctx, user)
		if folder != nil {
			granted = p.Classifier.CanChangeRestricted(ctx, user, folder)
		}
		if !granted {
			return denied(DenialFilesOrFoldersRestricted), nil
		}
	}
	return allowed(), nil
}
