// Package authz provides authorization primitives for the scheduling
// server. Authentication itself happens upstream (the hosted backend's
// auth gate); this package consumes the identity headers that gate
// injects and maps roles onto resource/verb permissions. A no-op mode
// exists for development.
package authz

import "context"

// Resource names for permission checks.
const (
	ResourceTemplates = "templates"
	ResourceSchedules = "schedules"
	ResourceInstances = "instances"
	ResourceTickets   = "tickets"
	ResourceAudit     = "audit"
)

// Verb names for permission checks.
const (
	VerbGet      = "get"
	VerbList     = "list"
	VerbCreate   = "create"
	VerbUpdate   = "update"
	VerbGenerate = "generate"
)

// Roles recognized by the role authorizer.
const (
	RoleAdmin = "admin"
	RoleEdit  = "edit"
	RoleRead  = "read"
)

// Request represents an authorization check.
type Request struct {
	User     string
	Roles    []string
	Resource string
	Verb     string
}

// Authorizer checks whether a user is authorized to perform an action.
type Authorizer interface {
	Authorize(ctx context.Context, req Request) (bool, error)
}
