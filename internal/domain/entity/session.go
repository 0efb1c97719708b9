package entity

import "time"

// Session sesión autenticada; su identidad es el username.
type Session struct {
	Username        string
	AuthenticatedAt time.Time
}
