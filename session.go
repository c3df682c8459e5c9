package wowo

import "time"

// Session is a persisted conversation thread owned by the backend. The
// client only caches a list of these for display plus a single active
// reference; an empty active id means "no session yet".
type Session struct {
	ID        string
	Title     string // empty = untitled
	CreatedAt time.Time
}

// User identifies whoever is logged in. Established at login and immutable
// until logout clears it or a re-login replaces it.
type User struct {
	ID   string
	Name string
}

// Valid reports whether the user carries both fields. Stored state with a
// partial user is treated as not logged in.
func (u User) Valid() bool {
	return u.ID != "" && u.Name != ""
}
