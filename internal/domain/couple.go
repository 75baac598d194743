package domain

// Couple is the optional symmetric pairing chosen for the cursed lover.
// It holds either no one or exactly two players.
type Couple struct {
	members [2]PlayerID
	linked  bool
}

// Link replaces any previous pairing
func (c *Couple) Link(first, second PlayerID) {
	c.members = [2]PlayerID{first, second}
	c.linked = true
}

// Clear removes the pairing
func (c *Couple) Clear() {
	*c = Couple{}
}

// Partner returns the other member if the player is linked
func (c *Couple) Partner(id PlayerID) (PlayerID, bool) {
	if !c.linked {
		return "", false
	}
	switch id {
	case c.members[0]:
		return c.members[1], true
	case c.members[1]:
		return c.members[0], true
	}
	return "", false
}

// Contains reports whether the player is one of the two members
func (c *Couple) Contains(id PlayerID) bool {
	_, ok := c.Partner(id)
	return ok
}

// Members returns the linked pair, or nil
func (c *Couple) Members() []PlayerID {
	if !c.linked {
		return nil
	}
	return []PlayerID{c.members[0], c.members[1]}
}
