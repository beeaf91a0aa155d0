package models

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// User is the identity held by the session. ProfilePhoto is a data URI.
// IsPrivate marks users whose chat history must never reach the store.
type User struct {
	Username     string   `json:"username"`
	Role         UserRole `json:"role"`
	ProfilePhoto string   `json:"profilePhoto,omitempty"`
	IsPrivate    bool     `json:"isPrivate,omitempty"`
}
