package entity

// ActorRole is the closed set of roles the engine distinguishes.
type ActorRole string

const (
	RoleEmployee ActorRole = "employee"
	RoleManager  ActorRole = "manager"
	RoleAdmin    ActorRole = "admin"
)

// IsAdministrator is the only capability the lifecycle rules care about:
// admins bypass the ordering cutoffs (but never the served lock).
func (r ActorRole) IsAdministrator() bool {
	return r == RoleAdmin
}
