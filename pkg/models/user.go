package models

import "time"

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Home is the landing path for a signed-in user of this role.
func (r Role) Home() string {
	if r == RoleAdmin {
		return "/adminpage"
	}
	return "/userpage"
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Registration struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

type LoginResult struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
}

type Profile struct {
	ID        string    `json:"id,omitempty"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
