package models

// Role identifies the three account variants.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFaculty Role = "faculty"
	RoleStudent Role = "student"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleStudent:
		return true
	}
	return false
}

// Account is a login-bearing entity. Faculty rows carry Subject,
// student rows carry RollNumber; both are empty for the other variants.
type Account struct {
	ID         int    `json:"id"`
	Email      string `json:"email"`
	Password   string `json:"password,omitempty"`
	Role       Role   `json:"role"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
	Subject    string `json:"subject,omitempty"`
	RollNumber string `json:"rollNumber,omitempty"`
}

// Public returns a copy safe for API responses, with the password blanked.
func (a Account) Public() Account {
	a.Password = ""
	return a
}

// AccountFilter captures listing criteria for the user directory.
type AccountFilter struct {
	Role   *Role
	Search string
}
