package domain

import (
	"errors"
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

var ErrBadRole = errors.New("unknown role")

// Roles lists every role; users are partitioned into exactly these classes.
var Roles = []Role{RoleCustomer, RoleAdmin}

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleCustomer:
		return RoleCustomer, nil
	}
	return "", ErrBadRole
}

type User struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	ContactNumber string `json:"contact_number,omitempty"`
	Role          Role   `json:"role"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// User form fields whose applicability depends on the role.
const (
	FieldContactNumber = "contact_number"
)

// notApplicable lists, per role, the user fields that role does not carry.
// Admin accounts are staff logins and have no customer contact number.
var notApplicable = map[Role]map[string]bool{
	RoleAdmin: {FieldContactNumber: true},
}

// FieldApplies reports whether field is collected for users with role.
func FieldApplies(role Role, field string) bool {
	return !notApplicable[role][field]
}
