package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailbox(t *testing.T) {
	m := NewMailbox()

	first, created, err := m.Submit("3", "  watch 5  ")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "watch 5", first.Text)

	second, created, err := m.Submit("8", "watch 3")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, second.ID)

	assert.Empty(t, m.Revealed())
	assert.True(t, m.Reveal(2))
	assert.False(t, m.Reveal(9))

	revealed := m.Revealed()
	require.Len(t, revealed, 1)
	assert.Equal(t, PlayerID("8"), revealed[0].Author)

	// returned copies do not alias the stored message
	all := m.All()
	all[0].Revealed = true
	assert.Len(t, m.Revealed(), 1)

	m.Reset()
	assert.Zero(t, m.Len())
	msg, _, err := m.Submit("3", "again")
	require.NoError(t, err)
	assert.Equal(t, 1, msg.ID)
}

func TestVoteLedger(t *testing.T) {
	roster := NewRoster(4)
	l := NewVoteLedger()

	maxVotes, winners := l.Result(roster)
	assert.Equal(t, 0, maxVotes)
	assert.Empty(t, winners)

	require.NoError(t, l.Record("1", "3"))
	require.NoError(t, l.Record("2", "3"))
	require.NoError(t, l.Record("4", "1"))
	assert.ErrorIs(t, l.Record("4", "2"), ErrAlreadyVoted)

	target, ok := l.TargetOf("4")
	assert.True(t, ok)
	assert.Equal(t, PlayerID("1"), target)

	assert.Equal(t, map[PlayerID]int{"1": 1, "2": 0, "3": 2, "4": 0}, l.Tally(roster))
	assert.Equal(t, []Ballot{
		{VoterID: "1", TargetID: "3"},
		{VoterID: "2", TargetID: "3"},
		{VoterID: "4", TargetID: "1"},
	}, l.Ballots(roster))

	maxVotes, winners = l.Result(roster)
	assert.Equal(t, 2, maxVotes)
	assert.Equal(t, []PlayerID{"3"}, winners)

	l.Reset()
	assert.Zero(t, l.VotedCount())
	assert.False(t, l.HasVoted("1"))
}

func TestPhase_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to Phase
		want     bool
	}{
		{PhaseLobby, PhaseVoting, true},
		{PhaseLobby, PhaseRevealed, false},
		{PhaseVoting, PhaseRevealed, true},
		{PhaseVoting, PhaseVoting, false},
		{PhaseRevealed, PhaseVoting, false},
		{PhaseRevealed, PhaseRevealed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}
