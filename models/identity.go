package models

// Identity is the authenticated caller as reported by the auth service.
type Identity struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}
