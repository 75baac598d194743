package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nightfall/internal/app"
	"nightfall/internal/domain"
)

const maxBodySize = 4096

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
	GameID string `json:"gameId"`
	Phase  string `json:"phase"`
}

// VoteRequest is the body of a vote
type VoteRequest struct {
	Target domain.PlayerID `json:"target"`
}

// PostmortemRequest is the body of a post-mortem submission
type PostmortemRequest struct {
	Text string `json:"text"`
}

// PostmortemResponse reports the stored message; Created is false when the author already wrote
type PostmortemResponse struct {
	Message domain.PostmortemMessage `json:"message"`
	Created bool                     `json:"created"`
}

// NecromancerResponse lists the messages revealed to the necromancer
type NecromancerResponse struct {
	Messages []domain.PostmortemMessage `json:"messages"`
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{
		Status: "ok",
		GameID: s.session.GameID(),
		Phase:  s.session.Phase().String(),
	})
}

// handleRoles handles GET /api/roles
func (s *Server) handleRoles(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, s.session.Roles())
}

// handlePlayers handles GET /api/players
func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, s.session.Players())
}

// handlePlayerView handles GET /api/players/{id}
func (s *Server) handlePlayerView(w http.ResponseWriter, r *http.Request) {
	view, err := s.session.PlayerView(playerParam(r))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, view)
}

// handleRole handles GET /api/players/{id}/role
func (s *Server) handleRole(w http.ResponseWriter, r *http.Request) {
	view, err := s.session.RoleView(playerParam(r))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, view)
}

// handleVote handles POST /api/players/{id}/vote
func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	voter := playerParam(r)

	var req VoteRequest
	if err := decodeJSON(r, &req); err != nil || req.Target == "" {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "A target is required")
		return
	}

	err := s.session.CastVote(voter, req.Target)
	switch {
	case err == nil, errors.Is(err, domain.ErrAlreadyVoted):
		// a repeated vote is answered with the current screen, like a redirect
		view, viewErr := s.session.PlayerView(voter)
		if viewErr != nil {
			s.sendDomainError(w, viewErr)
			return
		}
		view.AlreadyVoted = err != nil
		s.sendSuccess(w, view)
	default:
		s.sendDomainError(w, err)
	}
}

// handlePostmortem handles POST /api/players/{id}/postmortem
func (s *Server) handlePostmortem(w http.ResponseWriter, r *http.Request) {
	var req PostmortemRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	msg, created, err := s.session.SubmitMessage(playerParam(r), req.Text)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, &PostmortemResponse{Message: msg, Created: created})
}

// handleNecromancer handles GET /api/players/{id}/necromancer
func (s *Server) handleNecromancer(w http.ResponseWriter, r *http.Request) {
	messages, err := s.session.VisibleTo(playerParam(r))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, &NecromancerResponse{Messages: messages})
}

// handleStatus handles GET /api/status?player=
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, s.session.Status(domain.PlayerID(r.URL.Query().Get("player"))))
}

// handleSpectate handles GET /api/spectate?key=
func (s *Server) handleSpectate(w http.ResponseWriter, r *http.Request) {
	expected := s.config.Game.SpectatorKey
	if expected == "" {
		s.sendError(w, http.StatusNotFound, "NOT_FOUND", "Spectator view is disabled")
		return
	}

	key := r.URL.Query().Get("key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
		s.sendError(w, http.StatusForbidden, app.CodeForbidden, "Invalid spectator key")
		return
	}

	s.sendSuccess(w, s.session.Spectator())
}

// playerParam reads the {id} route parameter
func playerParam(r *http.Request) domain.PlayerID {
	return domain.PlayerID(chi.URLParam(r, "id"))
}

// decodeJSON reads a bounded JSON body
func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(v)
}

// statusFor maps an error code to an HTTP status
func statusFor(code string) int {
	switch code {
	case app.CodeUnknownPlayer:
		return http.StatusNotFound
	case app.CodeForbidden, app.CodeVoterEliminated:
		return http.StatusForbidden
	case app.CodeSelfTarget, app.CodeInvalidPair, app.CodeEmptyMessage:
		return http.StatusBadRequest
	case app.CodeTargetEliminated, app.CodeAlreadyVoted, app.CodeVotingClosed, app.CodeInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// sendDomainError sends the envelope matching a domain error
func (s *Server) sendDomainError(w http.ResponseWriter, err error) {
	code := app.ErrorCode(err)
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		s.logger.Error("unexpected error", "error", err)
		s.sendError(w, status, code, "Internal server error")
		return
	}
	s.sendError(w, status, code, err.Error())
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	}); err != nil {
		s.logger.Debug("write response failed", "error", err)
	}
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}); err != nil {
		s.logger.Debug("write response failed", "error", err)
	}
}
