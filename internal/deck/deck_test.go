package deck

import (
	"testing"

	"github.com/lox/briscola/internal/card"
	"github.com/lox/briscola/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckSizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		players int
		size    int
	}{
		{players: 2, size: 40},
		{players: 3, size: 39},
		{players: 4, size: 40},
	}

	for _, tt := range tests {
		d := New(randutil.New(42), tt.players)
		assert.Equal(t, tt.size, d.CardsRemaining(), "players=%d", tt.players)
		assert.Equal(t, 120, d.Points(), "players=%d", tt.players)
	}
}

func TestThreePlayerDeckDropsTwoOfCuori(t *testing.T) {
	t.Parallel()

	d := New(randutil.New(7), 3)
	twos := 0
	for _, c := range d.Cards() {
		assert.NotEqual(t, TrimmedCard, c)
		if c.Rank == 2 {
			twos++
		}
	}
	assert.Equal(t, 3, twos)
}

func TestDeckHasNoDuplicates(t *testing.T) {
	t.Parallel()

	d := New(randutil.New(1), 4)
	seen := make(map[card.Card]bool)
	for _, c := range d.Cards() {
		require.True(t, c.Valid(), "invalid card %v", c)
		require.False(t, seen[c], "duplicate card %v", c)
		seen[c] = true
	}
}

func TestShuffleIsSeeded(t *testing.T) {
	t.Parallel()

	a := New(randutil.New(99), 2).Cards()
	b := New(randutil.New(99), 2).Cards()
	c := New(randutil.New(100), 2).Cards()

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestDealAll(t *testing.T) {
	t.Parallel()

	d := New(randutil.New(42), 2)
	for i := range Size {
		_, ok := d.Deal()
		require.True(t, ok, "deal failed at card %d", i+1)
	}
	assert.True(t, d.IsEmpty())

	_, ok := d.Deal()
	assert.False(t, ok)
	_, ok = d.RevealTrump()
	assert.False(t, ok)
}

func TestDealN(t *testing.T) {
	t.Parallel()

	d := FromCards(card.MustParseCards("1c 2c 3c 4c"))
	assert.Equal(t, card.MustParseCards("1c 2c 3c"), d.DealN(3))
	assert.Equal(t, card.MustParseCards("4c"), d.DealN(3))
	assert.Empty(t, d.DealN(1))
}

func TestRevealTrumpMovesTopToBottom(t *testing.T) {
	t.Parallel()

	d := FromCards(card.MustParseCards("7f 1c 3q"))
	trump, ok := d.RevealTrump()
	require.True(t, ok)
	assert.Equal(t, card.New(7, card.Fiori), trump)

	bottom, ok := d.Bottom()
	require.True(t, ok)
	assert.Equal(t, trump, bottom)

	top, ok := d.Peek()
	require.True(t, ok)
	assert.Equal(t, card.New(1, card.Cuori), top)
	assert.Equal(t, 3, d.CardsRemaining())
}

func TestNewPanicsOnBadInput(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { New(nil, 2) })
	assert.Panics(t, func() { New(randutil.New(1), 5) })
}
