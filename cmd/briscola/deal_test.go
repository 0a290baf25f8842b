package main

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/lox/briscola/internal/config"
	"github.com/lox/briscola/internal/game"
	"github.com/lox/briscola/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinylib/msgp/msgp"
)

func TestOpeningDeal(t *testing.T) {
	t.Parallel()

	g, observations, err := openingDeal(42, []string{"A", "B", "C"})
	require.NoError(t, err)
	require.Len(t, observations, 3)
	assert.Equal(t, game.GameStart, observations[0].Event)
	assert.Equal(t, game.NewRound, observations[1].Event)
	assert.Equal(t, game.PlayTurn, observations[2].Event)
	assert.True(t, g.AwaitingAction())

	text := describeDeal(g)
	assert.Contains(t, text, "Seed 42")
	assert.Contains(t, text, "Briscola: "+g.Trump().Name())
	assert.Contains(t, text, "Leader: B")
	assert.Contains(t, text, "Deck: 30 cards")

	again, _, err := openingDeal(42, []string{"A", "B", "C"})
	require.NoError(t, err)
	assert.Equal(t, text, describeDeal(again))

	_, _, err = openingDeal(1, []string{"Solo"})
	assert.ErrorIs(t, err, game.ErrConfiguration)
}

func TestWriteObservations(t *testing.T) {
	t.Parallel()

	_, observations, err := openingDeal(7, []string{"A", "B"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeObservations(&buf, "json", observations))
	scanner := bufio.NewScanner(&buf)
	var decoded []game.Observation
	for scanner.Scan() {
		obs, err := protocol.DecodeObservation(scanner.Bytes())
		require.NoError(t, err)
		decoded = append(decoded, obs)
	}
	assert.Equal(t, observations, decoded)

	buf.Reset()
	require.NoError(t, writeObservations(&buf, "msgpack", observations))
	rest := buf.Bytes()
	decoded = decoded[:0]
	for len(rest) > 0 {
		next, err := msgp.Skip(rest)
		require.NoError(t, err)
		obs, err := protocol.UnmarshalObservation(rest[:len(rest)-len(next)])
		require.NoError(t, err)
		decoded = append(decoded, obs)
		rest = next
	}
	assert.Equal(t, observations, decoded)
}

func TestParseSeats(t *testing.T) {
	t.Parallel()

	players, err := parseSeats([]string{"Alice=scripted", " Bob = random "})
	require.NoError(t, err)
	assert.Equal(t, []config.PlayerConfig{
		{Name: "Alice", Agent: "scripted"},
		{Name: "Bob", Agent: "random"},
	}, players)

	for _, bad := range []string{"Alice", "=random", "Bob="} {
		_, err := parseSeats([]string{bad})
		assert.Error(t, err, bad)
	}
}
