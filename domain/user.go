package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Actor is the public summary of a user attached to notifications.
type Actor struct {
	ID        string
	Username  string
	AvatarURL string
}
