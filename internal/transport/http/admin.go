package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"nightfall/internal/auth"
	"nightfall/internal/domain"
)

// LoginRequest is the body of an admin login
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the issued token for clients that do not keep cookies
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CoupleRequest is the body of a couple link
type CoupleRequest struct {
	Players []domain.PlayerID `json:"players"`
}

// SwapRequest is the body of a role swap
type SwapRequest struct {
	First  domain.PlayerID `json:"first"`
	Second domain.PlayerID `json:"second"`
}

// EliminateResponse reports whether the player was newly eliminated
type EliminateResponse struct {
	PlayerID   domain.PlayerID `json:"playerId"`
	Eliminated bool            `json:"eliminated"`
	Added      bool            `json:"added"`
}

// RevealMessageResponse reports whether a message matched the ID
type RevealMessageResponse struct {
	MessageID int  `json:"messageId"`
	Revealed  bool `json:"revealed"`
}

// handleLogin handles POST /api/admin/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	metrics := s.session.Metrics()

	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := s.password.Check(req.Password); err != nil {
		metrics.RecordLogin("wrong_password")
		s.logger.Warn("admin login failed", "remoteAddr", r.RemoteAddr)
		s.sendError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Wrong password")
		return
	}

	token, expires, err := s.tokens.GenerateToken()
	if err != nil {
		s.logger.Error("token generation failed", "error", err)
		s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	s.cookies.SetTokenCookie(w, token, expires)
	metrics.RecordLogin("success")
	s.logger.Info("admin logged in", "remoteAddr", r.RemoteAddr)
	s.sendSuccess(w, &LoginResponse{Token: token, ExpiresAt: expires})
}

// handleLoginLimited answers logins over the per-IP rate
func (s *Server) handleLoginLimited(w http.ResponseWriter, r *http.Request) {
	s.session.Metrics().RecordLogin("rate_limited")
	s.logger.Warn("admin login rate limited", "remoteAddr", r.RemoteAddr)
	s.sendError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many login attempts")
}

// handleLogout handles POST /api/admin/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.cookies.ClearTokenCookie(w)
	s.sendSuccess(w, nil)
}

// requireAdmin rejects requests without a valid admin token
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := s.cookies.TokenFromRequest(r)
		if token == "" {
			s.sendError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Admin login required")
			return
		}

		if _, err := s.tokens.ValidateToken(token); err != nil {
			message := "Invalid admin session"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "Admin session expired"
			}
			s.logger.Debug("admin token rejected", "error", err)
			s.sendError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleDashboard handles GET /api/admin/dashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, s.session.Dashboard())
}

// handleAdminResults handles GET /api/admin/results
func (s *Server) handleAdminResults(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, s.session.AdminResult())
}

// handleNecromancerConsole handles GET /api/admin/necromancer
func (s *Server) handleNecromancerConsole(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, s.session.NecromancerConsole())
}

// handleStart handles POST /api/admin/start
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.session.StartVoting()
	s.sendSuccess(w, s.session.Dashboard())
}

// handleReveal handles POST /api/admin/reveal
func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Reveal(); err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, s.session.AdminResult())
}

// handleNextNight handles POST /api/admin/next-night
func (s *Server) handleNextNight(w http.ResponseWriter, r *http.Request) {
	s.session.NextNight()
	s.sendSuccess(w, s.session.Dashboard())
}

// handleNewGame handles POST /api/admin/new-game
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	if err := s.session.NewGame(); err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, s.session.Dashboard())
}

// handleEliminate handles POST /api/admin/eliminate/{id}
func (s *Server) handleEliminate(w http.ResponseWriter, r *http.Request) {
	id := playerParam(r)
	added, err := s.session.Eliminate(id)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, &EliminateResponse{PlayerID: id, Eliminated: true, Added: added})
}

// handleCouple handles POST /api/admin/couple
func (s *Server) handleCouple(w http.ResponseWriter, r *http.Request) {
	var req CoupleRequest
	if err := decodeJSON(r, &req); err != nil || len(req.Players) != 2 {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "Exactly two players are required")
		return
	}

	if err := s.session.SetCouple(req.Players[0], req.Players[1]); err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, s.session.Dashboard())
}

// handleSwap handles POST /api/admin/swap
func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	var req SwapRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := s.session.SwapRoles(req.First, req.Second); err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, s.session.Dashboard())
}

// handleRevealMessage handles POST /api/admin/postmortem/{msgID}/reveal
func (s *Server) handleRevealMessage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "msgID"))
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_REQUEST", "Message ID must be a number")
		return
	}

	// unknown IDs are a silent no-op
	s.sendSuccess(w, &RevealMessageResponse{MessageID: id, Revealed: s.session.RevealMessage(id)})
}
