package auth

import (
	"time"

	"github.com/artem13815/animelist/pkg/watchlist"
)

// User is a domain entity representing a registered account. Username is
// unique and never changes once set.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is what a successful login hands back to the caller.
type Session struct {
	User      User
	Token     string
	Watchlist []watchlist.Anime
}
