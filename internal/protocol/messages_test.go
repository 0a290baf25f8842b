package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lox/briscola/internal/card"
	"github.com/lox/briscola/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinylib/msgp/msgp"
)

func playTurn() game.Observation {
	return game.Observation{
		Event:     game.PlayTurn,
		Broadcast: false,
		Data: game.PlayTurnData{
			PlayerName: "A",
			Hand:       []game.CardView{game.ViewOf(card.New(10, card.Fiori)), game.ViewOf(card.New(2, card.Picche))},
			Turn:       1,
			Trump:      game.ViewOf(card.New(7, card.Cuori)),
			Table:      []game.CardView{},
			State:      []game.Feature{{0, 7, 0, 0}, {2, 10, 4, 2}, {3, 2, 0, 2}},
		},
	}
}

func TestObservationJSONShape(t *testing.T) {
	t.Parallel()

	b, err := EncodeObservation(playTurn())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "PlayTurn", raw["event_name"])
	assert.Equal(t, false, raw["broadcast"])

	data := raw["data"].(map[string]any)
	assert.Equal(t, "A", data["playerName"])
	hand := data["hand"].([]any)
	require.Len(t, hand, 2)
	assert.Equal(t, map[string]any{"rank": 10.0, "suit": "Fiori", "point_value": 4.0}, hand[0])
	assert.Equal(t, []any{}, data["table"])
	assert.Len(t, data["derived_feature_state"], 3)
}

func TestActionJSON(t *testing.T) {
	t.Parallel()

	a, err := DecodeAction([]byte(`{"event_name":"PlayTurn_Action","data":{"playerName":"B","action":{"card":0}}}`))
	require.NoError(t, err)
	assert.Equal(t, game.NewPlayAction("B", 0), a)

	b, err := EncodeAction(game.NewPlayAction("A", 2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"event_name":"PlayTurn_Action","data":{"playerName":"A","action":{"card":2}}}`, string(b))

	_, err = DecodeAction([]byte(`{"event_name":"PlayTurn_Action","data":{"playerName":"B","action":{}}}`))
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = DecodeAction([]byte(`not json`))
	assert.Error(t, err)

	_, err = EncodeAction(nil)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestDecodeObservationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "unknown event", input: `{"event_name":"Showdown","broadcast":true,"data":{}}`, want: ErrUnknownEvent},
		{name: "halted has no data", input: `{"event_name":"Halted","broadcast":true,"data":{}}`, want: ErrUnknownEvent},
		{name: "missing data", input: `{"event_name":"GameStart","broadcast":true}`, want: ErrMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeObservation([]byte(tt.input))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	_, err := EncodeObservation(game.Observation{Event: game.Halted})
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestMsgpackAction(t *testing.T) {
	t.Parallel()

	b, err := MarshalAction(game.NewPlayAction("Carol", 1))
	require.NoError(t, err)

	a, err := UnmarshalAction(b)
	require.NoError(t, err)
	assert.Equal(t, game.NewPlayAction("Carol", 1), a)

	// The msgpack form carries the same layout as the JSON form.
	assert.JSONEq(t, `{"event_name":"PlayTurn_Action","data":{"playerName":"Carol","action":{"card":1}}}`, asJSON(t, b))

	missing := msgp.AppendMapHeader(nil, 1)
	missing = msgp.AppendString(missing, "event_name")
	missing = msgp.AppendString(missing, game.PlayTurnAction)
	_, err = UnmarshalAction(missing)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestMsgpackMatchesJSONLayout(t *testing.T) {
	t.Parallel()

	b, err := MarshalObservation(playTurn())
	require.NoError(t, err)

	fromJSON, err := EncodeObservation(playTurn())
	require.NoError(t, err)
	assert.JSONEq(t, string(fromJSON), asJSON(t, b))
}

func asJSON(t *testing.T, b []byte) string {
	t.Helper()
	var buf bytes.Buffer
	rest, err := msgp.UnmarshalAsJSON(&buf, b)
	require.NoError(t, err)
	require.Empty(t, rest)
	return buf.String()
}

func TestMsgpackSkipsUnknownKeys(t *testing.T) {
	t.Parallel()

	o := msgp.AppendMapHeader(nil, 4)
	o = msgp.AppendString(o, "version")
	o = msgp.AppendInt(o, 2)
	o = msgp.AppendString(o, "data")
	o = msgp.AppendMapHeader(o, 2)
	o = msgp.AppendString(o, "extra")
	o = msgp.AppendArrayHeader(o, 1)
	o = msgp.AppendBool(o, true)
	o = msgp.AppendString(o, "game_winner")
	o = msgp.AppendString(o, "B")
	o = msgp.AppendString(o, "broadcast")
	o = msgp.AppendBool(o, true)
	o = msgp.AppendString(o, "event_name")
	o = msgp.AppendString(o, "GameOver")

	obs, err := UnmarshalObservation(o)
	require.NoError(t, err)
	assert.Equal(t, game.GameOver, obs.Event)
	assert.Equal(t, game.GameOverData{GameWinner: "B"}, obs.Data)
}

// Every observation of a real game survives both encodings unchanged.
func TestCodecsPreserveGame(t *testing.T) {
	t.Parallel()

	g, err := game.New([]string{"A", "B", "C"}, game.WithSeed(12))
	require.NoError(t, err)

	obs := g.Reset()
	for steps := 0; ; steps++ {
		require.Less(t, steps, 10000)

		js, err := EncodeObservation(obs)
		require.NoError(t, err)
		back, err := DecodeObservation(js)
		require.NoError(t, err)
		require.Equal(t, obs, back, "json %s", obs.Event)

		mp, err := MarshalObservation(obs)
		require.NoError(t, err)
		back, err = UnmarshalObservation(mp)
		require.NoError(t, err)
		require.Equal(t, obs, back, "msgpack %s", obs.Event)

		var action *game.Action
		if data, ok := obs.Data.(game.PlayTurnData); ok {
			wire, err := EncodeAction(game.NewPlayAction(data.PlayerName, len(data.Hand)-1))
			require.NoError(t, err)
			action, err = DecodeAction(wire)
			require.NoError(t, err)
		}

		var done bool
		obs, _, done, err = g.Step(action)
		require.NoError(t, err)
		if done {
			return
		}
	}
}
