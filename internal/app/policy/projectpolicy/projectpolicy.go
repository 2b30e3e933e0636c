// Package projectpolicy holds the access rules gating project and task
// operations.
//
// Authorization rules:
//   - Only the project owner may update or delete the project
//   - Owners and editors with accepted membership may invite
//   - Any accepted member (any role) may see and work on the project's tasks
//   - A pending or declined membership grants no access at all
package projectpolicy

import (
	"github.com/dalemusser/taskhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsOwner reports whether userID owns the project.
func IsOwner(p *models.Project, userID primitive.ObjectID) bool {
	return p != nil && p.OwnerID == userID
}

// accepted reports whether m is an accepted membership.
func accepted(m *models.Member) bool {
	return m != nil && m.InvitationStatus == models.InviteAccepted
}

// CanInvite reports whether the membership m permits sending invitations
// for its project.
func CanInvite(m *models.Member) bool {
	if !accepted(m) {
		return false
	}
	return m.Role == models.RoleOwner || m.Role == models.RoleEditor
}

// HasTaskAccess reports whether the membership m grants access to the
// project's tasks. This is the single predicate used by task create, list,
// and delete.
func HasTaskAccess(m *models.Member) bool {
	return accepted(m)
}
