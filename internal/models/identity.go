package models

// Role represents the available portal roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleGuest   Role = "guest"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleGuest, RoleAdmin:
		return true
	}
	return false
}

// Identity is the user currently holding the portal session. Guests carry no
// ExternalID; students carry their school identifier (SDMS number).
type Identity struct {
	Role       Role   `json:"role"`
	Name       string `json:"name,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
	Email      string `json:"email,omitempty"`
}

// GuestIdentity returns the identity used for "continue as guest".
func GuestIdentity() Identity {
	return Identity{Role: RoleGuest}
}
