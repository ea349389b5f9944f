package domain

// RoleKind discriminates the role attachment of a principal.
type RoleKind int

const (
	RolePlain RoleKind = iota
	RoleOfficer
)

// DefaultOfficerTitle is used when an officer is created without a title.
const DefaultOfficerTitle = "Petugas"

// RoleAttachment is the role data attached to a principal. Title is only
// meaningful for RoleOfficer.
type RoleAttachment struct {
	Kind  RoleKind
	Title string
}

func PlainRole() RoleAttachment { return RoleAttachment{Kind: RolePlain} }

func OfficerRole(title string) RoleAttachment {
	if title == "" {
		title = DefaultOfficerTitle
	}
	return RoleAttachment{Kind: RoleOfficer, Title: title}
}

func (k RoleKind) String() string {
	if k == RoleOfficer {
		return "officer"
	}
	return "plain"
}
