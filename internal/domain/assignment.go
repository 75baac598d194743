package domain

import "math/rand"

// Assignment binds one role kind to each roster slot
type Assignment map[PlayerID]RoleKind

// AssignRoles deals a uniformly shuffled copy of the catalog to the roster slots, in slot order
func AssignRoles(roster Roster, catalog Catalog, rng *rand.Rand) (Assignment, error) {
	if err := catalog.Validate(len(roster)); err != nil {
		return nil, err
	}

	shuffled := make(Catalog, len(catalog))
	copy(shuffled, catalog)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	assignment := make(Assignment, len(roster))
	for i, id := range roster {
		assignment[id] = shuffled[i]
	}
	return assignment, nil
}

// Swap exchanges the roles bound to two distinct assigned players
func (a Assignment) Swap(first, second PlayerID) error {
	if first == second {
		return ErrInvalidPair
	}
	firstRole, ok := a[first]
	if !ok {
		return ErrInvalidPair
	}
	secondRole, ok := a[second]
	if !ok {
		return ErrInvalidPair
	}

	a[first], a[second] = secondRole, firstRole
	return nil
}

// Holder returns the first player in roster order holding the role kind
func (a Assignment) Holder(roster Roster, kind RoleKind) (PlayerID, bool) {
	for _, id := range roster {
		if a[id] == kind {
			return id, true
		}
	}
	return "", false
}

// Clone returns an independent copy of the assignment
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for id, kind := range a {
		out[id] = kind
	}
	return out
}
