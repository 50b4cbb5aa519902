package authz

import "context"

// RoleAuthorizer maps the system's roles onto permissions:
//   - admin: everything, including template/schedule mutation and
//     triggering generation
//   - edit:  read everything, update tickets
//   - read:  read-only
type RoleAuthorizer struct{}

// NewRoleAuthorizer creates a RoleAuthorizer.
func NewRoleAuthorizer() *RoleAuthorizer {
	return &RoleAuthorizer{}
}

// Authorize implements Authorizer.
func (a *RoleAuthorizer) Authorize(_ context.Context, req Request) (bool, error) {
	for _, role := range req.Roles {
		if roleAllows(role, req.Resource, req.Verb) {
			return true, nil
		}
	}
	return false, nil
}

func roleAllows(role, resource, verb string) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleEdit:
		if verb == VerbGet || verb == VerbList {
			return true
		}
		return resource == ResourceTickets && verb == VerbUpdate
	case RoleRead:
		return verb == VerbGet || verb == VerbList
	}
	return false
}

// NoopAuthorizer allows everything. Used in development and when an
// external gate already enforces authorization.
type NoopAuthorizer struct{}

// NewNoopAuthorizer creates a NoopAuthorizer.
func NewNoopAuthorizer() *NoopAuthorizer {
	return &NoopAuthorizer{}
}

// Authorize implements Authorizer. It always allows.
func (a *NoopAuthorizer) Authorize(_ context.Context, _ Request) (bool, error) {
	return true, nil
}
