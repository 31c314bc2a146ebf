package services

// DenialKind enumerates every reason the engine refuses an operation.
// Denials are decision values, never Go errors: permission facts do not
// become true by retrying, and a denied bulk operation applies to zero
// items.
type DenialKind string

const (
	DenialDestinationIsReadOnly        DenialKind = "destination_is_read_only"
	DenialDestinationHasNoSite         DenialKind = "destination_has_no_site"
	DenialDestinationIsRestricted      DenialKind = "destination_is_restricted"
	DenialDestinationSiteIsRestricted  DenialKind = "destination_site_is_restricted"
	DenialDestinationNotSelected       DenialKind = "destination_not_selected"
	DenialDestinationIsInSameFolder    DenialKind = "destination_is_in_same_folder"
	DenialDestinationInSameSubtree     DenialKind = "destination_in_same_folder_subtree"
	DenialFileOrFolderReadOnly         DenialKind = "file_or_folder_is_read_only"
	DenialFilesOrFoldersRestricted     DenialKind = "files_or_folders_restricted"
	DenialNoSiteAssociated             DenialKind = "no_site_associated"
	DenialNoSiteOwnership              DenialKind = "no_site_ownership"
	DenialNoPermissionRootFolders      DenialKind = "no_permission_to_edit_root_folders"
	DenialTargetNotInScope             DenialKind = "target_not_in_scope"
	DenialOperationNotPermitted        DenialKind = "operation_not_permitted"
)

var denialMessages = map[DenialKind]string{
	DenialDestinationIsReadOnly: "Sorry, the destination folder is read-only. " +
		"Please choose a different destination folder " +
		"or have the folder's permissions changed.",
	DenialDestinationHasNoSite: "Sorry, the selected destination folder is not " +
		"associated with a site. " +
		"You must first link the folder to a site.",
	DenialDestinationIsRestricted: "Whoops! You don't have permission to add " +
		"content to the selected destination folder. " +
		"Please choose a different destination folder.",
	DenialDestinationSiteIsRestricted: "Whoops! You don't have permissions for " +
		"the site associated with the selected " +
		"destination folder. Please choose a " +
		"different destination folder.",
	DenialDestinationNotSelected: "Whoops! You did not select a destination folder.",
	DenialDestinationIsInSameFolder: "Whoops! Did you want to add this folder " +
		"into itself? " +
		"You can't do that. Please choose a " +
		"different destination folder.",
	DenialDestinationInSameSubtree: "Whoops! Did you want to add this " +
		"folder into itself? " +
		"You can't do that. Please choose a " +
		"different destination folder.",
	DenialFileOrFolderReadOnly: "Whoops! This file/folder is read only. You " +
		"don't have permission to move/edit/delete.",
	DenialFilesOrFoldersRestricted: "Whoops! This file/folder is restricted. " +
		"You don't have the necessary permissions " +
		"to modify it. ",
	DenialNoSiteAssociated: "Whoops! This file is not associated with a site. " +
		"Please link the folder to a site.",
	DenialNoSiteOwnership: "Whoops! You don't have permissions to edit this " +
		"folder/file, because it is associated with a site to " +
		"which you do not have access.",
	DenialNoPermissionRootFolders: "Whoops! You don't have permissions " +
		"to edit root folders.",
	DenialTargetNotInScope: "Whoops! Some of the selected items are not part " +
		"of the current folder view. Please run the action " +
		"from the folder that contains them.",
	DenialOperationNotPermitted: "Whoops! You don't have the necessary " +
		"permissions for this operation.",
}

// Denial is a single refused decision. It is surfaced to the user as a
// message, and to HTTP boundaries as a 403-equivalent.
type Denial struct {
	Kind DenialKind
}

func deny(kind DenialKind) *Denial {
	return &Denial{Kind: kind}
}

func (d *Denial) Message() string {
	return denialMessages[d.Kind]
}
