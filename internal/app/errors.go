package app

import (
	"errors"

	"nightfall/internal/domain"
)

// Error codes shared by the HTTP API and the WebSocket channel
const (
	CodeUnknownPlayer     = "UNKNOWN_PLAYER"
	CodeSelfTarget        = "SELF_TARGET"
	CodeTargetEliminated  = "TARGET_ELIMINATED"
	CodeVoterEliminated   = "VOTER_ELIMINATED"
	CodeAlreadyVoted      = "ALREADY_VOTED"
	CodeVotingClosed      = "VOTING_CLOSED"
	CodeForbidden         = "FORBIDDEN"
	CodeInvalidPair       = "INVALID_PAIR"
	CodeEmptyMessage      = "EMPTY_MESSAGE"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInternal          = "INTERNAL_ERROR"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrUnknownPlayer, CodeUnknownPlayer},
	{domain.ErrSelfTarget, CodeSelfTarget},
	{domain.ErrTargetEliminated, CodeTargetEliminated},
	{domain.ErrVoterEliminated, CodeVoterEliminated},
	{domain.ErrAlreadyVoted, CodeAlreadyVoted},
	{domain.ErrVotingClosed, CodeVotingClosed},
	{domain.ErrForbidden, CodeForbidden},
	{domain.ErrInvalidPair, CodeInvalidPair},
	{domain.ErrEmptyMessage, CodeEmptyMessage},
	{domain.ErrInvalidTransition, CodeInvalidTransition},
}

// ErrorCode maps a domain error to its stable client-facing code
func ErrorCode(err error) string {
	for _, entry := range errorCodes {
		if errors.Is(err, entry.err) {
			return entry.code
		}
	}
	return CodeInternal
}
