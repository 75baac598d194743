package domain

import "errors"

// Domain errors
var (
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrSelfTarget        = errors.New("cannot vote for yourself")
	ErrTargetEliminated  = errors.New("target is eliminated")
	ErrVoterEliminated   = errors.New("eliminated players cannot vote")
	ErrAlreadyVoted      = errors.New("already voted this round")
	ErrVotingClosed      = errors.New("voting is not open")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidPair       = errors.New("two distinct known players are required")
	ErrEmptyMessage      = errors.New("message cannot be empty")
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrCatalogSize       = errors.New("role catalog size does not match roster size")
	ErrUnknownRole       = errors.New("unknown role")
)
