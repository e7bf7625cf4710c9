package services

// Censor replaces forbidden words. *moderation.Moderator implements it.
type Censor interface {
	Censor(text string) (string, []string)
}
