package rbac

import "errors"

type Role string
type ParentType string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

const (
	ParentWorkspace    ParentType = "workspace"
	ParentConversation ParentType = "conversation"
)

// Role byte values used by the membership identifier codec. Zero is
// reserved invalid so a blank role byte never parses as a real role.
const (
	CodeOwner  byte = 1
	CodeAdmin  byte = 2
	CodeMember byte = 3
)

var ErrInvalidRole = errors.New("invalid role")

// ParseRole validates a role string. Unknown values fail with ErrInvalidRole.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleOwner, RoleAdmin, RoleMember:
		return Role(value), nil
	default:
		return "", ErrInvalidRole
	}
}

// NormalizeOrMember returns the parsed role, or RoleMember when the value
// is empty or unknown. Used where an invalid requested role must degrade
// to least privilege rather than fail.
func NormalizeOrMember(value string) Role {
	role, err := ParseRole(value)
	if err != nil {
		return RoleMember
	}
	return role
}

// ParseParentType validates a parent discriminant.
func ParseParentType(value string) (ParentType, error) {
	switch ParentType(value) {
	case ParentWorkspace, ParentConversation:
		return ParentType(value), nil
	default:
		return "", errors.New("invalid parent type")
	}
}

// Code returns the numeric byte for a role, 0 for unknown roles.
func (r Role) Code() byte {
	switch r {
	case RoleOwner:
		return CodeOwner
	case RoleAdmin:
		return CodeAdmin
	case RoleMember:
		return CodeMember
	default:
		return 0
	}
}

// RoleFromCode maps a role byte back to its role. Fails with ErrInvalidRole
// for any byte outside the defined set.
func RoleFromCode(code byte) (Role, error) {
	switch code {
	case CodeOwner:
		return RoleOwner, nil
	case CodeAdmin:
		return RoleAdmin, nil
	case CodeMember:
		return RoleMember, nil
	default:
		return "", ErrInvalidRole
	}
}

// CanManageMembers reports whether a role may add or remove members on its
// parent.
func CanManageMembers(role Role) bool {
	return role == RoleOwner || role == RoleAdmin
}

// SeesEverything reports whether a workspace role bypasses membership-based
// conversation visibility.
func SeesEverything(role Role) bool {
	return role == RoleOwner || role == RoleAdmin
}
