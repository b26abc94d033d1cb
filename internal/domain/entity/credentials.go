package entity

// Credentials identify a login attempt. Role must match the account's role exactly.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}
