package domain

import "time"

// Read-only projections of the game. Every view is a copy; holding one never
// aliases game state.

// StatusView is the polling payload used by clients to decide when to refresh
type StatusView struct {
	Revealed   bool `json:"revealed"`
	AllVoted   bool `json:"allVoted"`
	Eliminated bool `json:"eliminated"`
	Started    bool `json:"started"`
}

// PlayerStage tells a client which screen to show
type PlayerStage string

const (
	StageEliminated     PlayerStage = "eliminated"
	StageWaitingStart   PlayerStage = "waiting_start"
	StageBallot         PlayerStage = "ballot"
	StageWaitingResults PlayerStage = "waiting_results"
	StageResults        PlayerStage = "results"
)

// PlayerView is what a single player is allowed to see
type PlayerView struct {
	PlayerID      PlayerID    `json:"playerId"`
	Stage         PlayerStage `json:"stage"`
	Round         int         `json:"round"`
	HasPostmortem bool        `json:"hasPostmortem,omitempty"`
	Targets       []PlayerID  `json:"targets,omitempty"`
	LoverPartner  PlayerID    `json:"loverPartner,omitempty"`
	AlreadyVoted  bool        `json:"alreadyVoted,omitempty"`
	Result        *ResultView `json:"result,omitempty"`
}

// RoleView is a player's own secret
type RoleView struct {
	PlayerID     PlayerID `json:"playerId"`
	Role         Role     `json:"role"`
	LoverPartner PlayerID `json:"loverPartner,omitempty"`
	Started      bool     `json:"started"`
}

// ResultView is the public result shown once the admin reveals the round
type ResultView struct {
	Tally          map[PlayerID]int  `json:"tally"`
	MaxVotes       int               `json:"maxVotes"`
	Winners        []PlayerID        `json:"winners"`
	Ballots        []Ballot          `json:"ballots"`
	WinnerRoles    map[PlayerID]Role `json:"winnerRoles"`
	CoupleRevealed bool              `json:"coupleRevealed"`
	Couple         []PlayerID        `json:"couple,omitempty"`
}

// DashboardPlayer is one roster row of the admin dashboard
type DashboardPlayer struct {
	ID         PlayerID `json:"id"`
	Role       Role     `json:"role"`
	HasVoted   bool     `json:"hasVoted"`
	Eliminated bool     `json:"eliminated"`
	InCouple   bool     `json:"inCouple"`
}

// DashboardView is the admin overview of the session
type DashboardView struct {
	GameID     string            `json:"gameId"`
	CreatedAt  time.Time         `json:"createdAt"`
	Round      int               `json:"round"`
	Phase      Phase             `json:"phase"`
	Started    bool              `json:"started"`
	Revealed   bool              `json:"revealed"`
	AllVoted   bool              `json:"allVoted"`
	VotedCount int               `json:"votedCount"`
	Players    []DashboardPlayer `json:"players"`
	Tally      map[PlayerID]int  `json:"tally"`
	TopVoted   []PlayerID        `json:"topVoted"`
	MaxVotes   int               `json:"maxVotes"`
	Couple     []PlayerID        `json:"couple,omitempty"`
}

// AdminResultView is the detailed vote breakdown for the admin
type AdminResultView struct {
	Tally    map[PlayerID]int  `json:"tally"`
	MaxVotes int               `json:"maxVotes"`
	Winners  []PlayerID        `json:"winners"`
	Ballots  []Ballot          `json:"ballots"`
	Roles    map[PlayerID]Role `json:"roles"`
}

// NecromancerConsoleView lets the admin pick which messages to reveal
type NecromancerConsoleView struct {
	NecromancerID PlayerID            `json:"necromancerId,omitempty"`
	Eliminated    []PlayerID          `json:"eliminated"`
	Messages      []PostmortemMessage `json:"messages"`
}

// SpectatorView exposes the full session state
type SpectatorView struct {
	GameID     string              `json:"gameId"`
	CreatedAt  time.Time           `json:"createdAt"`
	Round      int                 `json:"round"`
	Phase      Phase               `json:"phase"`
	Roles      map[PlayerID]Role   `json:"roles"`
	Ballots    []Ballot            `json:"ballots"`
	Tally      map[PlayerID]int    `json:"tally"`
	Eliminated []PlayerID          `json:"eliminated"`
	Couple     []PlayerID          `json:"couple,omitempty"`
	Messages   []PostmortemMessage `json:"messages"`
}

// Status returns the polling status for a caller; an empty or unknown ID is never eliminated
func (g *Game) Status(caller PlayerID) StatusView {
	return StatusView{
		Revealed:   g.revealed,
		AllVoted:   g.AllVoted(),
		Eliminated: g.eliminated[caller],
		Started:    g.started,
	}
}

// PlayerView returns the screen state of a player
func (g *Game) PlayerView(id PlayerID) (PlayerView, error) {
	if !g.HasPlayer(id) {
		return PlayerView{}, ErrUnknownPlayer
	}

	view := PlayerView{PlayerID: id, Round: g.Round}

	switch {
	case g.eliminated[id]:
		view.Stage = StageEliminated
		view.HasPostmortem = g.mailbox.HasAuthor(id)
	case !g.started:
		view.Stage = StageWaitingStart
	case g.ledger.HasVoted(id) && g.revealed:
		view.Stage = StageResults
		result := g.ResultView()
		view.Result = &result
	case g.ledger.HasVoted(id):
		view.Stage = StageWaitingResults
	default:
		view.Stage = StageBallot
		view.Targets = g.eligibleTargets(id)
		view.LoverPartner, _ = g.couple.Partner(id)
	}

	return view, nil
}

// RoleView returns a player's own role and lover partner
func (g *Game) RoleView(id PlayerID) (RoleView, error) {
	role, err := g.RoleOf(id)
	if err != nil {
		return RoleView{}, err
	}

	partner, _ := g.couple.Partner(id)
	return RoleView{
		PlayerID:     id,
		Role:         role,
		LoverPartner: partner,
		Started:      g.started,
	}, nil
}

// ResultView builds the public result of the current round
func (g *Game) ResultView() ResultView {
	maxVotes, winners := g.Result()

	winnerRoles := make(map[PlayerID]Role, len(winners))
	coupleRevealed := false
	for _, id := range winners {
		winnerRoles[id] = g.roles[id].Role()
		if g.couple.Contains(id) {
			coupleRevealed = true
		}
	}

	view := ResultView{
		Tally:          g.Tally(),
		MaxVotes:       maxVotes,
		Winners:        nonNil(winners),
		Ballots:        g.ledger.Ballots(g.roster),
		WinnerRoles:    winnerRoles,
		CoupleRevealed: coupleRevealed,
	}
	if coupleRevealed {
		view.Couple = g.couple.Members()
	}
	return view
}

// Dashboard builds the admin overview
func (g *Game) Dashboard() DashboardView {
	maxVotes, top := g.Result()

	players := make([]DashboardPlayer, 0, len(g.roster))
	for _, id := range g.roster {
		players = append(players, DashboardPlayer{
			ID:         id,
			Role:       g.roles[id].Role(),
			HasVoted:   g.ledger.HasVoted(id),
			Eliminated: g.eliminated[id],
			InCouple:   g.couple.Contains(id),
		})
	}

	return DashboardView{
		GameID:     g.ID,
		CreatedAt:  g.CreatedAt,
		Round:      g.Round,
		Phase:      g.Phase(),
		Started:    g.started,
		Revealed:   g.revealed,
		AllVoted:   g.AllVoted(),
		VotedCount: g.ledger.VotedCount(),
		Players:    players,
		Tally:      g.Tally(),
		TopVoted:   nonNil(top),
		MaxVotes:   maxVotes,
		Couple:     g.couple.Members(),
	}
}

// AdminResult builds the detailed vote breakdown
func (g *Game) AdminResult() AdminResultView {
	maxVotes, winners := g.Result()
	return AdminResultView{
		Tally:    g.Tally(),
		MaxVotes: maxVotes,
		Winners:  nonNil(winners),
		Ballots:  g.ledger.Ballots(g.roster),
		Roles:    g.roleTable(),
	}
}

// NecromancerConsole lists each author's message for the admin
func (g *Game) NecromancerConsole() NecromancerConsoleView {
	necromancer, _ := g.FindHolder(RoleNecromancer)

	messages := make([]PostmortemMessage, 0, g.mailbox.Len())
	for _, id := range g.roster {
		if msg, ok := g.mailbox.ByAuthor(id); ok {
			messages = append(messages, msg)
		}
	}

	return NecromancerConsoleView{
		NecromancerID: necromancer,
		Eliminated:    g.EliminatedPlayers(),
		Messages:      messages,
	}
}

// Spectator returns the full session state
func (g *Game) Spectator() SpectatorView {
	return SpectatorView{
		GameID:     g.ID,
		CreatedAt:  g.CreatedAt,
		Round:      g.Round,
		Phase:      g.Phase(),
		Roles:      g.roleTable(),
		Ballots:    g.ledger.Ballots(g.roster),
		Tally:      g.Tally(),
		Eliminated: g.EliminatedPlayers(),
		Couple:     g.couple.Members(),
		Messages:   g.mailbox.All(),
	}
}

// GetPlayerInfoList returns the public roster
func (g *Game) GetPlayerInfoList() []PlayerInfo {
	players := make([]PlayerInfo, 0, len(g.roster))
	for _, id := range g.roster {
		players = append(players, PlayerInfo{
			ID:         id,
			HasVoted:   g.ledger.HasVoted(id),
			Eliminated: g.eliminated[id],
		})
	}
	return players
}

func (g *Game) eligibleTargets(voter PlayerID) []PlayerID {
	targets := make([]PlayerID, 0, len(g.roster))
	for _, id := range g.roster {
		if id != voter && !g.eliminated[id] {
			targets = append(targets, id)
		}
	}
	return targets
}

func (g *Game) roleTable() map[PlayerID]Role {
	roles := make(map[PlayerID]Role, len(g.roles))
	for id, kind := range g.roles {
		roles[id] = kind.Role()
	}
	return roles
}

func nonNil(ids []PlayerID) []PlayerID {
	if ids == nil {
		return []PlayerID{}
	}
	return ids
}
