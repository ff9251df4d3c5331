package domain

import "time"

// Distance is a directed source→target travel distance in kilometers.
// Matching is case-insensitive and trimmed on both location names, and there
// is deliberately no reverse-direction fallback.
type Distance struct {
	ID        int64      `json:"id"`
	PCode     string     `json:"pcode,omitempty"`
	Source    string     `json:"source"`
	TCode     string     `json:"tcode,omitempty"`
	Target    string     `json:"target"`
	Distance  float64    `json:"distance"`
	TState    string     `json:"tstate,omitempty"`
	Active    bool       `json:"active"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Parameter holds grade-based allowance rates. A posting's two-character
// conraiss code is matched against the last two characters of Contiss.
type Parameter struct {
	ID        int64      `json:"id"`
	Contiss   string     `json:"contiss"`
	PerNight  float64    `json:"pernight"`
	Local     float64    `json:"local,omitempty"`
	Kilometer float64    `json:"kilometer"`
	Active    bool       `json:"active"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// State maps a state name to its capital for the derived posting column.
type State struct {
	ID      int64  `json:"id"`
	Code    string `json:"code,omitempty"`
	State   string `json:"state"`
	Capital string `json:"capital"`
	Active  bool   `json:"active"`
}
