package domain

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Game is the single shared game session: role assignment, the round's votes,
// eliminations, the couple link and the post-mortem mailbox, plus the two
// phase flags. Game is not safe for concurrent use.
type Game struct {
	ID        string
	Round     int
	CreatedAt time.Time

	roster     Roster
	catalog    Catalog
	rng        *rand.Rand
	roles      Assignment
	ledger     *VoteLedger
	eliminated map[PlayerID]bool
	couple     Couple
	mailbox    *Mailbox
	started    bool
	revealed   bool
}

// Option configures a Game
type Option func(*Game)

// WithRand sets the random source used to shuffle roles
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) {
		g.rng = rng
	}
}

// NewGame creates a game in the lobby with freshly dealt roles. The catalog
// must hold exactly one role per roster slot.
func NewGame(roster Roster, catalog Catalog, opts ...Option) (*Game, error) {
	if err := catalog.Validate(len(roster)); err != nil {
		return nil, err
	}

	g := &Game{
		roster:     append(Roster(nil), roster...),
		catalog:    append(Catalog(nil), catalog...),
		ledger:     NewVoteLedger(),
		eliminated: make(map[PlayerID]bool),
		mailbox:    NewMailbox(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if err := g.StartNewGame(); err != nil {
		return nil, err
	}
	return g, nil
}

// Roster returns a copy of the player slots
func (g *Game) Roster() Roster {
	return append(Roster(nil), g.roster...)
}

// Catalog returns a copy of the role catalog
func (g *Game) Catalog() Catalog {
	return append(Catalog(nil), g.catalog...)
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return phaseOf(g.started, g.revealed)
}

// Started reports whether the voting window is open
func (g *Game) Started() bool {
	return g.started
}

// Revealed reports whether results are visible to players
func (g *Game) Revealed() bool {
	return g.revealed
}

// HasPlayer checks if the ID is a roster slot
func (g *Game) HasPlayer(id PlayerID) bool {
	return g.roster.Contains(id)
}

// ---- round controller ----

// StartVoting opens the voting window. Calling it outside the lobby is a no-op.
func (g *Game) StartVoting() {
	if g.Phase().CanTransitionTo(PhaseVoting) {
		g.started = true
	}
}

// Reveal makes the round's results visible. The voting window must have been opened.
func (g *Game) Reveal() error {
	phase := g.Phase()
	if phase == PhaseRevealed {
		return nil
	}
	if !phase.CanTransitionTo(PhaseRevealed) {
		return ErrInvalidTransition
	}
	g.revealed = true
	return nil
}

// NextNight moves to the next round of the same game: votes are cleared and the
// phase returns to the lobby; roles, eliminations, couple and mailbox persist.
func (g *Game) NextNight() {
	g.ledger.Reset()
	g.started = false
	g.revealed = false
	g.Round++
}

// StartNewGame resets everything game-specific and deals new roles
func (g *Game) StartNewGame() error {
	roles, err := AssignRoles(g.roster, g.catalog, g.rng)
	if err != nil {
		return err
	}

	g.ID = uuid.New().String()
	g.Round = 1
	g.CreatedAt = time.Now()
	g.roles = roles
	g.ledger.Reset()
	g.eliminated = make(map[PlayerID]bool)
	g.couple.Clear()
	g.mailbox.Reset()
	g.started = false
	g.revealed = false

	return nil
}

// ---- vote ledger ----

// CastVote records the voter's accusation against the target
func (g *Game) CastVote(voterID, targetID PlayerID) error {
	if !g.HasPlayer(voterID) || !g.HasPlayer(targetID) {
		return ErrUnknownPlayer
	}
	if g.eliminated[voterID] {
		return ErrVoterEliminated
	}
	if voterID == targetID {
		return ErrSelfTarget
	}
	if g.eliminated[targetID] {
		return ErrTargetEliminated
	}
	if !g.started {
		return ErrVotingClosed
	}

	return g.ledger.Record(voterID, targetID)
}

// HasVoted checks if a player has voted this round
func (g *Game) HasVoted(id PlayerID) bool {
	return g.ledger.HasVoted(id)
}

// VotedCount returns the number of players who have voted this round
func (g *Game) VotedCount() int {
	return g.ledger.VotedCount()
}

// Result returns the highest vote count and the players reaching it
func (g *Game) Result() (int, []PlayerID) {
	return g.ledger.Result(g.roster)
}

// Tally returns the votes received by every roster member
func (g *Game) Tally() map[PlayerID]int {
	return g.ledger.Tally(g.roster)
}

// AllVoted reports whether the number of voters equals the full roster size.
// Eliminated players are counted in the denominator.
func (g *Game) AllVoted() bool {
	return g.ledger.VotedCount() == len(g.roster)
}

// ---- eliminations & couple ----

// Eliminate removes a player from active play. It reports whether the player
// was newly eliminated; repeated calls are no-ops.
func (g *Game) Eliminate(id PlayerID) (bool, error) {
	if !g.HasPlayer(id) {
		return false, ErrUnknownPlayer
	}
	if g.eliminated[id] {
		return false, nil
	}
	g.eliminated[id] = true
	return true, nil
}

// IsEliminated checks if a player has been eliminated this game
func (g *Game) IsEliminated(id PlayerID) bool {
	return g.eliminated[id]
}

// EliminatedPlayers returns the eliminated players in roster order
func (g *Game) EliminatedPlayers() []PlayerID {
	out := make([]PlayerID, 0, len(g.eliminated))
	for _, id := range g.roster {
		if g.eliminated[id] {
			out = append(out, id)
		}
	}
	return out
}

// SetCouple links two distinct known players, replacing any previous couple
func (g *Game) SetCouple(first, second PlayerID) error {
	if first == second || !g.HasPlayer(first) || !g.HasPlayer(second) {
		return ErrInvalidPair
	}
	g.couple.Link(first, second)
	return nil
}

// Partner returns the other couple member if the player is linked
func (g *Game) Partner(id PlayerID) (PlayerID, bool) {
	return g.couple.Partner(id)
}

// CoupleMembers returns the linked pair, or nil
func (g *Game) CoupleMembers() []PlayerID {
	return g.couple.Members()
}

// ---- roles ----

// SwapRoles exchanges the roles of two distinct players. Applying it twice
// restores the original assignment.
func (g *Game) SwapRoles(first, second PlayerID) error {
	if !g.HasPlayer(first) || !g.HasPlayer(second) {
		return ErrInvalidPair
	}
	return g.roles.Swap(first, second)
}

// RoleOf returns the role currently held by the player
func (g *Game) RoleOf(id PlayerID) (Role, error) {
	kind, ok := g.roles[id]
	if !ok {
		return Role{}, ErrUnknownPlayer
	}
	return kind.Role(), nil
}

// Roles returns a copy of the current assignment
func (g *Game) Roles() Assignment {
	return g.roles.Clone()
}

// FindHolder returns the player currently holding the role kind
func (g *Game) FindHolder(kind RoleKind) (PlayerID, bool) {
	return g.roles.Holder(g.roster, kind)
}

// ---- post-mortem mailbox ----

// SubmitMessage stores the last word of an eliminated player. A second
// submission by the same author is ignored and reports created=false.
func (g *Game) SubmitMessage(author PlayerID, text string) (PostmortemMessage, bool, error) {
	if !g.HasPlayer(author) {
		return PostmortemMessage{}, false, ErrUnknownPlayer
	}
	if !g.eliminated[author] {
		return PostmortemMessage{}, false, ErrForbidden
	}
	return g.mailbox.Submit(author, text)
}

// HasPostmortem checks if the player already left a message
func (g *Game) HasPostmortem(id PlayerID) bool {
	return g.mailbox.HasAuthor(id)
}

// RevealMessage makes a message visible to the necromancer; unknown IDs are ignored
func (g *Game) RevealMessage(id int) bool {
	return g.mailbox.Reveal(id)
}

// VisibleTo returns the revealed messages if the requester holds the necromancer role
func (g *Game) VisibleTo(requester PlayerID) ([]PostmortemMessage, error) {
	holder, ok := g.FindHolder(RoleNecromancer)
	if !ok || holder != requester {
		return nil, ErrForbidden
	}
	return g.mailbox.Revealed(), nil
}

// Messages returns every stored post-mortem message
func (g *Game) Messages() []PostmortemMessage {
	return g.mailbox.All()
}
