package domain

import "strconv"

// DefaultRosterSize is the number of player slots of a standard table
const DefaultRosterSize = 12

// PlayerID identifies a player slot. IDs are fixed for the process lifetime.
type PlayerID string

// String returns the string representation of the player ID
func (p PlayerID) String() string {
	return string(p)
}

// Roster is the fixed, ordered list of player slots
type Roster []PlayerID

// NewRoster creates a roster of n slots numbered "1".."n"
func NewRoster(n int) Roster {
	roster := make(Roster, n)
	for i := range roster {
		roster[i] = PlayerID(strconv.Itoa(i + 1))
	}
	return roster
}

// Contains reports whether the ID is one of the roster slots
func (r Roster) Contains(id PlayerID) bool {
	return r.Index(id) >= 0
}

// Index returns the slot position of the ID, or -1
func (r Roster) Index(id PlayerID) int {
	for i, p := range r {
		if p == id {
			return i
		}
	}
	return -1
}

// PlayerInfo is a public view of a roster slot (hides the role)
type PlayerInfo struct {
	ID         PlayerID `json:"id"`
	HasVoted   bool     `json:"hasVoted"`
	Eliminated bool     `json:"eliminated"`
}
