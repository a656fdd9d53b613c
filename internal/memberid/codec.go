// Package memberid packs a membership (user, parent, role) into a single
// opaque 128-bit identifier so a membership can be referenced without a
// surrogate key.
package memberid

import (
	"github.com/google/uuid"

	"relay/api/internal/rbac"
)

// roleByte is the index of the slot that carries the role value. The role
// slot never participates in the XOR.
const roleByte = 15

// Encode derives a membership identifier from a user id, a parent id and a
// role. The first 15 bytes are the byte-wise XOR of the two ids; the last
// byte is the numeric role value.
func Encode(userID, parentID uuid.UUID, role rbac.Role) uuid.UUID {
	var id uuid.UUID
	for i := 0; i < roleByte; i++ {
		id[i] = userID[i] ^ parentID[i]
	}
	id[roleByte] = role.Code()
	return id
}

// ExtractRole recovers the role from a membership identifier. Fails with
// rbac.ErrInvalidRole when the role byte holds an undefined value.
func ExtractRole(id uuid.UUID) (rbac.Role, error) {
	return rbac.RoleFromCode(id[roleByte])
}

// ExtractUserID recovers the user id from a membership identifier given the
// parent id the caller already holds. The last byte of the original user id
// is not preserved by the encoding, so byte 16 of the result is always zero.
func ExtractUserID(id, parentID uuid.UUID) uuid.UUID {
	var userID uuid.UUID
	for i := 0; i < roleByte; i++ {
		userID[i] = id[i] ^ parentID[i]
	}
	userID[roleByte] = 0
	return userID
}

// ExtractParentID strips the role byte and returns the remaining 15 bytes
// as-is. This is NOT the original parent id: the bytes are still XOR'd with
// the user id, and only a caller that already holds the user id can undo
// that (via ExtractUserID with the arguments swapped). Kept bit-for-bit
// compatible with the original scheme; do not "fix" it here.
func ExtractParentID(id uuid.UUID) uuid.UUID {
	parentID := id
	parentID[roleByte] = 0
	return parentID
}
