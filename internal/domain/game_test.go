package domain

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g, err := NewGame(NewRoster(DefaultRosterSize), DefaultCatalog(), WithRand(rand.New(rand.NewSource(7))))
	require.NoError(t, err)
	return g
}

func TestNewGame_CatalogSizeMismatch(t *testing.T) {
	_, err := NewGame(NewRoster(11), DefaultCatalog())
	assert.ErrorIs(t, err, ErrCatalogSize)

	_, err = NewGame(NewRoster(13), DefaultCatalog())
	assert.ErrorIs(t, err, ErrCatalogSize)
}

func TestNewGame_StartsInLobby(t *testing.T) {
	g := newTestGame(t)

	assert.Equal(t, PhaseLobby, g.Phase())
	assert.False(t, g.Started())
	assert.False(t, g.Revealed())
	assert.Equal(t, 1, g.Round)
	assert.NotEmpty(t, g.ID)
	assert.Len(t, g.Roles(), DefaultRosterSize)
}

func TestCastVote(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(g *Game)
		voter   PlayerID
		target  PlayerID
		wantErr error
	}{
		{
			name:   "success",
			setup:  func(g *Game) { g.StartVoting() },
			voter:  "1",
			target: "4",
		},
		{
			name:    "unknown voter",
			setup:   func(g *Game) { g.StartVoting() },
			voter:   "13",
			target:  "4",
			wantErr: ErrUnknownPlayer,
		},
		{
			name:    "unknown target",
			setup:   func(g *Game) { g.StartVoting() },
			voter:   "1",
			target:  "0",
			wantErr: ErrUnknownPlayer,
		},
		{
			name: "eliminated voter",
			setup: func(g *Game) {
				g.StartVoting()
				_, _ = g.Eliminate("1")
			},
			voter:   "1",
			target:  "4",
			wantErr: ErrVoterEliminated,
		},
		{
			name:    "self target",
			setup:   func(g *Game) { g.StartVoting() },
			voter:   "2",
			target:  "2",
			wantErr: ErrSelfTarget,
		},
		{
			name: "eliminated target",
			setup: func(g *Game) {
				g.StartVoting()
				_, _ = g.Eliminate("4")
			},
			voter:   "1",
			target:  "4",
			wantErr: ErrTargetEliminated,
		},
		{
			name:    "voting closed",
			setup:   func(g *Game) {},
			voter:   "1",
			target:  "4",
			wantErr: ErrVotingClosed,
		},
		{
			name: "already voted",
			setup: func(g *Game) {
				g.StartVoting()
				_ = g.CastVote("1", "5")
			},
			voter:   "1",
			target:  "4",
			wantErr: ErrAlreadyVoted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			tt.setup(g)
			before := g.Tally()

			err := g.CastVote(tt.voter, tt.target)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, g.Tally(), "rejected vote must not change the tally")
				return
			}
			require.NoError(t, err)
			assert.True(t, g.HasVoted(tt.voter))
			assert.Equal(t, before[tt.target]+1, g.Tally()[tt.target])
		})
	}
}

func TestCastVote_ExactlyOncePerRound(t *testing.T) {
	g := newTestGame(t)
	g.StartVoting()

	require.NoError(t, g.CastVote("1", "4"))
	assert.ErrorIs(t, g.CastVote("1", "4"), ErrAlreadyVoted)
	assert.ErrorIs(t, g.CastVote("1", "5"), ErrAlreadyVoted)

	assert.Equal(t, 1, g.Tally()["4"])
	assert.Equal(t, 0, g.Tally()["5"])
	assert.Equal(t, 1, g.VotedCount())
}

func TestTallyMatchesVotedCount(t *testing.T) {
	g := newTestGame(t)
	g.StartVoting()

	for i, voter := range g.Roster() {
		target := g.Roster()[(i+3)%DefaultRosterSize]
		require.NoError(t, g.CastVote(voter, target))

		sum := 0
		for _, count := range g.Tally() {
			sum += count
		}
		assert.Equal(t, g.VotedCount(), sum)
	}
	assert.True(t, g.AllVoted())
}

func TestResult(t *testing.T) {
	t.Run("no votes", func(t *testing.T) {
		g := newTestGame(t)
		g.StartVoting()

		maxVotes, winners := g.Result()
		assert.Equal(t, 0, maxVotes)
		assert.Empty(t, winners)
	})

	t.Run("single winner", func(t *testing.T) {
		g := newTestGame(t)
		g.StartVoting()
		require.NoError(t, g.CastVote("1", "4"))
		require.NoError(t, g.CastVote("2", "4"))
		require.NoError(t, g.CastVote("3", "5"))

		maxVotes, winners := g.Result()
		assert.Equal(t, 2, maxVotes)
		assert.Equal(t, []PlayerID{"4"}, winners)
	})

	t.Run("tie keeps every maximal target", func(t *testing.T) {
		g := newTestGame(t)
		g.StartVoting()
		require.NoError(t, g.CastVote("1", "9"))
		require.NoError(t, g.CastVote("2", "5"))

		maxVotes, winners := g.Result()
		assert.Equal(t, 1, maxVotes)
		assert.Equal(t, []PlayerID{"5", "9"}, winners)
	})
}

func TestAllVoted_CountsEliminatedPlayers(t *testing.T) {
	g := newTestGame(t)
	_, err := g.Eliminate("12")
	require.NoError(t, err)
	g.StartVoting()

	for _, voter := range g.Roster()[:11] {
		target := PlayerID("1")
		if voter == "1" {
			target = "2"
		}
		require.NoError(t, g.CastVote(voter, target))
	}

	assert.Equal(t, 11, g.VotedCount())
	assert.False(t, g.AllVoted())
}

func TestEliminate_Idempotent(t *testing.T) {
	g := newTestGame(t)

	added, err := g.Eliminate("6")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = g.Eliminate("6")
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, []PlayerID{"6"}, g.EliminatedPlayers())

	_, err = g.Eliminate("42")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestCouple(t *testing.T) {
	g := newTestGame(t)

	require.NoError(t, g.SetCouple("3", "7"))

	partner, ok := g.Partner("3")
	assert.True(t, ok)
	assert.Equal(t, PlayerID("7"), partner)

	partner, ok = g.Partner("7")
	assert.True(t, ok)
	assert.Equal(t, PlayerID("3"), partner)

	_, ok = g.Partner("5")
	assert.False(t, ok)

	// replaced wholesale
	require.NoError(t, g.SetCouple("1", "2"))
	_, ok = g.Partner("3")
	assert.False(t, ok)
	assert.Equal(t, []PlayerID{"1", "2"}, g.CoupleMembers())

	assert.ErrorIs(t, g.SetCouple("4", "4"), ErrInvalidPair)
	assert.ErrorIs(t, g.SetCouple("4", "99"), ErrInvalidPair)
	assert.Equal(t, []PlayerID{"1", "2"}, g.CoupleMembers())
}

func TestSetCouple_AllowsEliminatedPlayers(t *testing.T) {
	g := newTestGame(t)
	_, _ = g.Eliminate("3")

	require.NoError(t, g.SetCouple("3", "7"))
	partner, _ := g.Partner("7")
	assert.Equal(t, PlayerID("3"), partner)
}

func TestSwapRoles(t *testing.T) {
	g := newTestGame(t)
	original := g.Roles()

	require.NoError(t, g.SwapRoles("2", "9"))
	swapped := g.Roles()
	assert.Equal(t, original["2"], swapped["9"])
	assert.Equal(t, original["9"], swapped["2"])

	require.NoError(t, g.SwapRoles("2", "9"))
	if diff := cmp.Diff(original, g.Roles()); diff != "" {
		t.Errorf("double swap changed the assignment (-want +got):\n%s", diff)
	}

	assert.ErrorIs(t, g.SwapRoles("2", "2"), ErrInvalidPair)
	assert.ErrorIs(t, g.SwapRoles("2", "77"), ErrInvalidPair)
	assert.Equal(t, original, g.Roles())
}

func TestFindHolder_FollowsSwaps(t *testing.T) {
	g := newTestGame(t)

	necro, ok := g.FindHolder(RoleNecromancer)
	require.True(t, ok)

	other := PlayerID("1")
	if necro == other {
		other = "2"
	}
	require.NoError(t, g.SwapRoles(necro, other))

	holder, ok := g.FindHolder(RoleNecromancer)
	require.True(t, ok)
	assert.Equal(t, other, holder)
}

func TestPostmortemScenario(t *testing.T) {
	g := newTestGame(t)
	necro, ok := g.FindHolder(RoleNecromancer)
	require.True(t, ok)

	author := PlayerID("6")
	if author == necro {
		author = "8"
	}

	_, _, err := g.SubmitMessage(author, "I suspect 9")
	assert.ErrorIs(t, err, ErrForbidden, "alive players cannot leave a message")

	_, err = g.Eliminate(author)
	require.NoError(t, err)

	msg, created, err := g.SubmitMessage(author, "I suspect 9")
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, msg.Revealed)

	visible, err := g.VisibleTo(necro)
	require.NoError(t, err)
	assert.Empty(t, visible)

	assert.True(t, g.RevealMessage(msg.ID))

	visible, err = g.VisibleTo(necro)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "I suspect 9", visible[0].Text)
	assert.Equal(t, author, visible[0].Author)

	notNecro := PlayerID("1")
	if notNecro == necro {
		notNecro = "2"
	}
	_, err = g.VisibleTo(notNecro)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmitMessage_OncePerAuthor(t *testing.T) {
	g := newTestGame(t)
	_, _ = g.Eliminate("6")

	first, created, err := g.SubmitMessage("6", "first")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := g.SubmitMessage("6", "second")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "first", second.Text)

	assert.Len(t, g.Messages(), 1)
}

func TestSubmitMessage_RejectsBlankText(t *testing.T) {
	g := newTestGame(t)
	_, _ = g.Eliminate("6")

	_, _, err := g.SubmitMessage("6", "   \n\t")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, g.Messages())
	assert.False(t, g.HasPostmortem("6"))

	_, _, err = g.SubmitMessage("99", "hello")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestRevealMessage_UnknownIDIsNoop(t *testing.T) {
	g := newTestGame(t)
	assert.False(t, g.RevealMessage(12345))
}

func TestRoundController(t *testing.T) {
	g := newTestGame(t)

	assert.ErrorIs(t, g.Reveal(), ErrInvalidTransition)

	g.StartVoting()
	assert.Equal(t, PhaseVoting, g.Phase())
	g.StartVoting()
	assert.Equal(t, PhaseVoting, g.Phase())

	require.NoError(t, g.Reveal())
	assert.Equal(t, PhaseRevealed, g.Phase())
	require.NoError(t, g.Reveal())
	assert.Equal(t, PhaseRevealed, g.Phase())

	// opening the window again does not hide the results
	g.StartVoting()
	assert.Equal(t, PhaseRevealed, g.Phase())
}

func TestNextNight_KeepsGameState(t *testing.T) {
	g := newTestGame(t)
	require.NoError(t, g.SetCouple("3", "7"))
	_, _ = g.Eliminate("6")
	_, _, err := g.SubmitMessage("6", "beware of 2")
	require.NoError(t, err)
	g.StartVoting()
	require.NoError(t, g.CastVote("1", "4"))
	require.NoError(t, g.Reveal())

	roles := g.Roles()
	id := g.ID
	g.NextNight()

	assert.Equal(t, PhaseLobby, g.Phase())
	assert.False(t, g.Started())
	assert.False(t, g.Revealed())
	assert.Equal(t, 0, g.VotedCount())
	assert.False(t, g.HasVoted("1"))
	maxVotes, winners := g.Result()
	assert.Equal(t, 0, maxVotes)
	assert.Empty(t, winners)

	assert.Equal(t, []PlayerID{"6"}, g.EliminatedPlayers())
	assert.Len(t, g.Messages(), 1)
	assert.Equal(t, []PlayerID{"3", "7"}, g.CoupleMembers())
	assert.Equal(t, roles, g.Roles())
	assert.Equal(t, id, g.ID)
	assert.Equal(t, 2, g.Round)
}

func TestStartNewGame_ResetsEverything(t *testing.T) {
	g := newTestGame(t)
	require.NoError(t, g.SetCouple("3", "7"))
	_, _ = g.Eliminate("6")
	first, _, err := g.SubmitMessage("6", "beware of 2")
	require.NoError(t, err)
	g.StartVoting()
	require.NoError(t, g.CastVote("1", "4"))
	g.NextNight()
	id := g.ID

	require.NoError(t, g.StartNewGame())

	assert.Equal(t, PhaseLobby, g.Phase())
	assert.Equal(t, 0, g.VotedCount())
	assert.Empty(t, g.EliminatedPlayers())
	assert.Empty(t, g.Messages())
	assert.Nil(t, g.CoupleMembers())
	assert.NotEqual(t, id, g.ID)
	assert.Equal(t, 1, g.Round)
	assert.Equal(t, g.CreatedAt, g.Dashboard().CreatedAt)
	assert.Equal(t, g.CreatedAt, g.Spectator().CreatedAt)
	assert.False(t, g.CreatedAt.IsZero())

	// the message sequence restarts
	_, _ = g.Eliminate("6")
	msg, _, err := g.SubmitMessage("6", "again")
	require.NoError(t, err)
	assert.Equal(t, first.ID, msg.ID)
}

func TestPlayerView_Stages(t *testing.T) {
	g := newTestGame(t)
	require.NoError(t, g.SetCouple("1", "5"))

	view, err := g.PlayerView("1")
	require.NoError(t, err)
	assert.Equal(t, StageWaitingStart, view.Stage)

	g.StartVoting()
	_, _ = g.Eliminate("3")

	view, err = g.PlayerView("1")
	require.NoError(t, err)
	assert.Equal(t, StageBallot, view.Stage)
	assert.Equal(t, PlayerID("5"), view.LoverPartner)
	assert.NotContains(t, view.Targets, PlayerID("1"))
	assert.NotContains(t, view.Targets, PlayerID("3"))
	assert.Len(t, view.Targets, DefaultRosterSize-2)

	view, err = g.PlayerView("3")
	require.NoError(t, err)
	assert.Equal(t, StageEliminated, view.Stage)
	assert.False(t, view.HasPostmortem)

	require.NoError(t, g.CastVote("1", "5"))
	view, err = g.PlayerView("1")
	require.NoError(t, err)
	assert.Equal(t, StageWaitingResults, view.Stage)

	require.NoError(t, g.Reveal())
	view, err = g.PlayerView("1")
	require.NoError(t, err)
	assert.Equal(t, StageResults, view.Stage)
	require.NotNil(t, view.Result)
	assert.Equal(t, []PlayerID{"5"}, view.Result.Winners)
	assert.True(t, view.Result.CoupleRevealed)
	assert.Equal(t, []PlayerID{"1", "5"}, view.Result.Couple)

	_, err = g.PlayerView("0")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestResultView_HidesCoupleUnlessAWinnerIsLinked(t *testing.T) {
	g := newTestGame(t)
	require.NoError(t, g.SetCouple("1", "5"))
	g.StartVoting()
	require.NoError(t, g.CastVote("2", "4"))

	result := g.ResultView()
	assert.False(t, result.CoupleRevealed)
	assert.Nil(t, result.Couple)
	assert.Equal(t, g.Roles()["4"].Role(), result.WinnerRoles["4"])
	assert.Equal(t, []Ballot{{VoterID: "2", TargetID: "4"}}, result.Ballots)
}

func TestStatus(t *testing.T) {
	g := newTestGame(t)
	_, _ = g.Eliminate("2")
	g.StartVoting()

	want := StatusView{Started: true, Eliminated: true}
	if diff := cmp.Diff(want, g.Status("2")); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, g.Status("").Eliminated)
}

func TestNecromancerConsole(t *testing.T) {
	g := newTestGame(t)
	_, _ = g.Eliminate("9")
	_, _ = g.Eliminate("4")
	_, _, err := g.SubmitMessage("9", "nine")
	require.NoError(t, err)
	_, _, err = g.SubmitMessage("4", "four")
	require.NoError(t, err)

	console := g.NecromancerConsole()
	necro, _ := g.FindHolder(RoleNecromancer)

	assert.Equal(t, necro, console.NecromancerID)
	assert.Equal(t, []PlayerID{"4", "9"}, console.Eliminated)
	require.Len(t, console.Messages, 2)
	assert.Equal(t, PlayerID("4"), console.Messages[0].Author)
	assert.Equal(t, 2, console.Messages[0].ID)
}
