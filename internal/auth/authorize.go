package auth

import "strings"

// RoleAdmin overrides both ownership checks.
const RoleAdmin = "admin"

// Caller is the authenticated identity evaluated by the ownership predicates.
type Caller struct {
	AccountID string
	Roles     []string
}

// HasRole reports whether the caller holds the role (case-insensitive).
func (c Caller) HasRole(role string) bool {
	role = strings.TrimSpace(strings.ToLower(role))
	if role == "" {
		return false
	}
	for _, r := range c.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// RouteOwnership succeeds iff the route's account id is the caller's own, or
// the caller is an admin. Unresolvable ids deny.
func RouteOwnership(caller Caller, routeAccountID string) bool {
	if caller.AccountID == "" || routeAccountID == "" {
		return false
	}
	return caller.AccountID == routeAccountID || caller.HasRole(RoleAdmin)
}

// ResourceOwnership succeeds iff the resource is owned by the caller, or the
// caller is an admin.
func ResourceOwnership(caller Caller, resource OwnedResource) bool {
	if resource == nil || caller.AccountID == "" {
		return false
	}
	owner := resource.OwnerAccountID()
	if owner == "" {
		return false
	}
	return owner == caller.AccountID || caller.HasRole(RoleAdmin)
}
