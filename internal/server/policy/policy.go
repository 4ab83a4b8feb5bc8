// Package policy implements the access-control decision for documents.
// The decision is a pure function of the document and the actor; it performs
// no I/O and must be re-evaluated on every access-sensitive operation.
package policy

import "github.com/ShrinivasInamdar/Hackathon-2025/internal/server/models"

// CanAccess reports whether actor may operate on doc.
//
// Rules are evaluated in order, first match wins:
//
//  1. admins may access everything
//  2. the owner may access their own documents
//  3. shared and public documents are accessible to everyone
//  4. otherwise the actor's role must outrank the document's required
//     privilege (strictly; an equal rank is denied)
//
// Ownership and the admin bypass are checked before the privilege
// comparison because RequiredPrivilege only gates the private tier: a
// shared or public document must never be blocked by a privilege mismatch.
func CanAccess(doc *models.Document, actor *models.User) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	if doc.OwnerID == actor.ID {
		return true
	}
	if doc.AccessLevel == models.AccessShared || doc.AccessLevel == models.AccessPublic {
		return true
	}
	return actor.Role.Rank() > requiredRank(doc.RequiredPrivilege)
}

// requiredRank resolves the privilege bar for a private document. An unset
// or invalid value falls back to the lowest defined rank.
func requiredRank(r models.Role) int {
	if !r.Valid() {
		return models.RoleUser.Rank()
	}
	return r.Rank()
}
