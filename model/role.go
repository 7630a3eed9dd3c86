package model

import "fmt"

// Role is the closed set of capabilities a user can act under. Reader, Editor
// and Journalist are persisted on the user row, Manager is derived from the
// IsManager flag and can be combined with any of them.
type Role string

const (
	RoleReader     Role = "reader"
	RoleEditor     Role = "editor"
	RoleJournalist Role = "journalist"
	RoleManager    Role = "manager"
)

// AssignableRoles are the roles a user can register with.
var AssignableRoles = []Role{RoleReader, RoleEditor, RoleJournalist}

// Valid reports whether r can be stored on a user row.
func (r Role) Valid() bool {
	for _, a := range AssignableRoles {
		if r == a {
			return true
		}
	}
	return false
}

// CanSubscribe is false for roles that must never own subscriptions.
func (r Role) CanSubscribe() bool {
	return r == RoleReader
}

func (r Role) String() string {
	return string(r)
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
