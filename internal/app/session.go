package app

import (
	"log/slog"
	"strings"
	"sync"

	"nightfall/internal/domain"
)

// ClientConnection represents a connected player channel
type ClientConnection interface {
	GetPlayerID() domain.PlayerID
	Close() error
}

// GameSession wraps the single shared game with concurrency control.
// Every mutation runs under the write lock; views are built under the read lock
// and are copies, so callers never observe a half-applied transition.
type GameSession struct {
	game    *domain.Game
	mu      sync.RWMutex
	logger  *slog.Logger
	metrics *Metrics

	clients   map[domain.PlayerID]ClientConnection
	clientsMu sync.Mutex
}

// NewGameSession creates the session and deals the first game
func NewGameSession(roster domain.Roster, catalog domain.Catalog, logger *slog.Logger, metrics *Metrics, opts ...domain.Option) (*GameSession, error) {
	game, err := domain.NewGame(roster, catalog, opts...)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	logger.Info("game created", "gameID", game.ID, "players", len(roster))

	return &GameSession{
		game:    game,
		logger:  logger,
		metrics: metrics,
		clients: make(map[domain.PlayerID]ClientConnection),
	}, nil
}

// Metrics returns the session collectors
func (s *GameSession) Metrics() *Metrics {
	return s.metrics
}

// GameID returns the current game identifier
func (s *GameSession) GameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.ID
}

// Phase returns the current phase
func (s *GameSession) Phase() domain.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.Phase()
}

// HasPlayer checks if the ID is a roster slot
func (s *GameSession) HasPlayer(id domain.PlayerID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.HasPlayer(id)
}

// Roles returns the distinct roles of the catalog
func (s *GameSession) Roles() []domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.Catalog().UniqueRoles()
}

// Players returns the public roster
func (s *GameSession) Players() []domain.PlayerInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.GetPlayerInfoList()
}

// ---- player operations ----

// CastVote records a vote
func (s *GameSession) CastVote(voterID, targetID domain.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.CastVote(voterID, targetID); err != nil {
		s.metrics.VoteRejections.WithLabelValues(rejectionReason(err)).Inc()
		s.logger.Debug("vote rejected", "voterID", voterID, "targetID", targetID, "error", err)
		return err
	}

	s.metrics.VotesCast.Inc()
	s.logger.Info("vote cast",
		"voterID", voterID,
		"targetID", targetID,
		"voted", s.game.VotedCount(),
		"players", len(s.game.Roster()),
	)
	return nil
}

// SubmitMessage stores an eliminated player's last word
func (s *GameSession) SubmitMessage(author domain.PlayerID, text string) (domain.PostmortemMessage, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, created, err := s.game.SubmitMessage(author, text)
	if err != nil {
		s.logger.Debug("post-mortem rejected", "author", author, "error", err)
		return msg, false, err
	}
	if !created {
		s.logger.Debug("post-mortem already stored", "author", author, "messageID", msg.ID)
		return msg, false, nil
	}

	s.metrics.PostmortemMessages.Inc()
	s.logger.Info("post-mortem stored", "author", author, "messageID", msg.ID)
	return msg, true, nil
}

// PlayerView returns a player's screen state
func (s *GameSession) PlayerView(id domain.PlayerID) (domain.PlayerView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.PlayerView(id)
}

// RoleView returns a player's own role
func (s *GameSession) RoleView(id domain.PlayerID) (domain.RoleView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.RoleView(id)
}

// Status returns the polling status for the caller
func (s *GameSession) Status(caller domain.PlayerID) domain.StatusView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.Status(caller)
}

// Result returns the highest vote count and the players reaching it
func (s *GameSession) Result() (int, []domain.PlayerID) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.Result()
}

// VisibleTo returns the revealed post-mortem messages for the necromancer
func (s *GameSession) VisibleTo(requester domain.PlayerID) ([]domain.PostmortemMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.VisibleTo(requester)
}

// Spectator returns the full session state
func (s *GameSession) Spectator() domain.SpectatorView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.Spectator()
}

// ---- admin operations ----

// Dashboard returns the admin overview
func (s *GameSession) Dashboard() domain.DashboardView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.Dashboard()
}

// AdminResult returns the detailed vote breakdown
func (s *GameSession) AdminResult() domain.AdminResultView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.AdminResult()
}

// NecromancerConsole returns the messages the admin may reveal
func (s *GameSession) NecromancerConsole() domain.NecromancerConsoleView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game.NecromancerConsole()
}

// StartVoting opens the voting window
func (s *GameSession) StartVoting() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.Started() {
		s.logger.Debug("voting already open", "round", s.game.Round)
		return
	}

	s.game.StartVoting()
	s.metrics.RoundTransitions.WithLabelValues("start").Inc()
	s.logger.Info("voting started", "gameID", s.game.ID, "round", s.game.Round)
}

// Reveal publishes the round's results
func (s *GameSession) Reveal() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.Revealed() {
		return nil
	}
	if err := s.game.Reveal(); err != nil {
		s.logger.Debug("reveal rejected", "phase", s.game.Phase(), "error", err)
		return err
	}

	maxVotes, winners := s.game.Result()
	s.metrics.RoundTransitions.WithLabelValues("reveal").Inc()
	s.logger.Info("results revealed",
		"round", s.game.Round,
		"maxVotes", maxVotes,
		"winners", winners,
	)
	return nil
}

// NextNight clears the votes and returns to the lobby, keeping the game
func (s *GameSession) NextNight() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.game.NextNight()
	s.metrics.RoundTransitions.WithLabelValues("next_night").Inc()
	s.logger.Info("next night", "gameID", s.game.ID, "round", s.game.Round)
}

// NewGame deals fresh roles and wipes every game-specific state
func (s *GameSession) NewGame() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.game.ID
	if err := s.game.StartNewGame(); err != nil {
		s.logger.Error("new game failed", "error", err)
		return err
	}

	s.metrics.RoundTransitions.WithLabelValues("new_game").Inc()
	s.metrics.EliminatedPlayers.Set(0)
	s.logger.Info("new game", "previousGameID", previous, "gameID", s.game.ID)
	return nil
}

// Eliminate removes a player from active play
func (s *GameSession) Eliminate(id domain.PlayerID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added, err := s.game.Eliminate(id)
	if err != nil {
		s.logger.Debug("eliminate rejected", "playerID", id, "error", err)
		return false, err
	}
	if !added {
		return false, nil
	}

	s.metrics.Eliminations.Inc()
	s.metrics.EliminatedPlayers.Set(float64(len(s.game.EliminatedPlayers())))

	attrs := []any{"playerID", id}
	if partner, ok := s.game.Partner(id); ok {
		// shared fate is narrated by the admin, not enforced
		attrs = append(attrs, "partner", partner, "partnerEliminated", s.game.IsEliminated(partner))
	}
	s.logger.Info("player eliminated", attrs...)
	return true, nil
}

// SetCouple links two players
func (s *GameSession) SetCouple(first, second domain.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.SetCouple(first, second); err != nil {
		s.logger.Debug("couple rejected", "first", first, "second", second, "error", err)
		return err
	}

	s.logger.Info("couple linked", "first", first, "second", second)
	return nil
}

// SwapRoles exchanges two players' roles
func (s *GameSession) SwapRoles(first, second domain.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.SwapRoles(first, second); err != nil {
		s.logger.Debug("swap rejected", "first", first, "second", second, "error", err)
		return err
	}

	s.logger.Info("roles swapped", "first", first, "second", second)
	return nil
}

// RevealMessage makes a post-mortem message visible to the necromancer
func (s *GameSession) RevealMessage(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.game.RevealMessage(id) {
		s.logger.Debug("post-mortem not found", "messageID", id)
		return false
	}

	s.logger.Info("post-mortem revealed", "messageID", id)
	return true
}

// ---- connections ----

// RegisterClient tracks a player's live channel. A previous channel of the
// same player is returned so the caller can close it.
func (s *GameSession) RegisterClient(client ClientConnection) ClientConnection {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	previous := s.clients[client.GetPlayerID()]
	s.clients[client.GetPlayerID()] = client
	return previous
}

// UnregisterClient forgets the channel if it is still the registered one
func (s *GameSession) UnregisterClient(client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if s.clients[client.GetPlayerID()] == client {
		delete(s.clients, client.GetPlayerID())
	}
}

// ConnectedCount returns the number of live channels
func (s *GameSession) ConnectedCount() int {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	return len(s.clients)
}

func rejectionReason(err error) string {
	code := ErrorCode(err)
	if code == CodeInternal {
		return "other"
	}
	return strings.ToLower(code)
}
