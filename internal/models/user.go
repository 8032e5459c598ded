package models

// Privileged roles. Role is an open set; anything else is an ordinary operator.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
)

// User represents the authenticated operator identity persisted on the device
type User struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Matricula string `json:"matricula"`
}

// IsPrivileged reports whether the operator may open management screens.
// The core only exposes the role; enforcement belongs to the view layer.
func (u User) IsPrivileged() bool {
	return u.Role == RoleAdmin || u.Role == RoleSupervisor
}
