package game

import (
	"strings"
	"testing"

	"github.com/lox/briscola/internal/card"
	"github.com/stretchr/testify/assert"
)

func TestEventFormatter(t *testing.T) {
	t.Parallel()

	trump := ViewOf(card.New(7, card.Cuori))
	players := []PlayerSummary{
		{Name: "Alice", RoundPoints: 70, RoundWins: 3},
		{Name: "Bob", RoundPoints: 50, RoundWins: 1},
	}

	tests := []struct {
		name string
		opts FormattingOptions
		obs  Observation
		want string
	}{
		{
			name: "new round",
			obs:  newObservation(NewRoundData{Round: 2, Trump: trump, Leader: "Bob"}),
			want: "*** Round 2 *** briscola: 7 di Cuori, Bob leads",
		},
		{
			name: "card played from own perspective",
			opts: FormattingOptions{Perspective: "Alice"},
			obs: newObservation(ShowTurnActionData{
				PlayerName: "Alice",
				Card:       ViewOf(card.New(1, card.Fiori)),
			}),
			want: "You plays 1 di Fiori",
		},
		{
			name: "play turn with hand",
			opts: FormattingOptions{ShowHand: true},
			obs: newObservation(PlayTurnData{
				PlayerName: "Bob",
				Turn:       4,
				Hand:       []CardView{ViewOf(card.New(3, card.Picche)), ViewOf(card.New(8, card.Quadri))},
			}),
			want: "Trick 4: Bob to play [hand: 3 di Picche, 8 di Quadri]",
		},
		{
			name: "trick end",
			obs: newObservation(ShowTurnEndData{
				Turn:   1,
				Table:  []CardView{ViewOf(card.New(10, card.Fiori)), ViewOf(card.New(1, card.Cuori))},
				Winner: "Bob",
				Points: 15,
			}),
			want: "Trick 1 to Bob for 15 points (10 di Fiori, 1 di Cuori)",
		},
		{
			name: "tied round",
			obs:  newObservation(RoundEndData{Round: 3, Players: players}),
			want: "*** Round 3 tied, no winner *** Alice: 70 pts, 3 wins; Bob: 50 pts, 1 wins",
		},
		{
			name: "game over",
			obs:  newObservation(GameOverData{Round: 4, Players: players, GameWinner: "Alice"}),
			want: "*** Game over after 4 rounds *** winner: Alice (Alice: 3; Bob: 1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NewEventFormatter(tt.opts).Format(tt.obs))
		})
	}
}

func TestDescribeEveryObservation(t *testing.T) {
	t.Parallel()

	g := mustNew(t, []string{"A", "B", "C"}, WithSeed(2))
	for _, rec := range playGame(t, g, firstCard) {
		line := Describe(rec.obs)
		assert.NotEmpty(t, line)
		assert.False(t, strings.HasPrefix(line, rec.obs.Event.String()), "unformatted %s", rec.obs.Event)
	}
}
