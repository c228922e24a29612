package model

// Identity is the synthetic author/committer identity used for formatting
// commits. The original change author is never impersonated; the bot signs
// its own work.
type Identity struct {
	Name  string
	Email string
}

// String renders the identity in git's "Name <email>" form.
func (i Identity) String() string {
	return i.Name + " <" + i.Email + ">"
}
