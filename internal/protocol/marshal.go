package protocol

import (
	"fmt"

	"github.com/lox/briscola/internal/game"
	"github.com/tinylib/msgp/msgp"
)

// MarshalObservation serializes an observation to msgpack using the same
// field names as the JSON envelope
func MarshalObservation(obs game.Observation) ([]byte, error) {
	if obs.Data == nil {
		return nil, fmt.Errorf("%w: data for %s", ErrMissingField, obs.Event)
	}

	o := make([]byte, 0, 256)
	o = msgp.AppendMapHeader(o, 3)
	o = msgp.AppendString(o, "event_name")
	o = msgp.AppendString(o, obs.Event.String())
	o = msgp.AppendString(o, "broadcast")
	o = msgp.AppendBool(o, obs.Broadcast)
	o = msgp.AppendString(o, "data")

	switch d := obs.Data.(type) {
	case game.GameStartData:
		o = msgp.AppendMapHeader(o, 1)
		o = appendSummaries(msgp.AppendString(o, "players"), d.Players)
	case game.NewRoundData:
		o = msgp.AppendMapHeader(o, 4)
		o = msgp.AppendInt(msgp.AppendString(o, "round"), d.Round)
		o = appendSummaries(msgp.AppendString(o, "players"), d.Players)
		o = appendCard(msgp.AppendString(o, "trump"), d.Trump)
		o = msgp.AppendString(msgp.AppendString(o, "leader"), d.Leader)
	case game.PlayTurnData:
		o = msgp.AppendMapHeader(o, 7)
		o = msgp.AppendString(msgp.AppendString(o, "playerName"), d.PlayerName)
		o = appendCards(msgp.AppendString(o, "hand"), d.Hand)
		o = msgp.AppendInt(msgp.AppendString(o, "turn"), d.Turn)
		o = msgp.AppendInt(msgp.AppendString(o, "position"), d.Position)
		o = appendCard(msgp.AppendString(o, "trump"), d.Trump)
		o = appendCards(msgp.AppendString(o, "table"), d.Table)
		o = appendFeatures(msgp.AppendString(o, "derived_feature_state"), d.State)
	case game.ShowTurnActionData:
		o = msgp.AppendMapHeader(o, 5)
		o = msgp.AppendString(msgp.AppendString(o, "playerName"), d.PlayerName)
		o = appendCard(msgp.AppendString(o, "card"), d.Card)
		o = msgp.AppendInt(msgp.AppendString(o, "turn"), d.Turn)
		o = appendCard(msgp.AppendString(o, "trump"), d.Trump)
		o = appendCards(msgp.AppendString(o, "table"), d.Table)
	case game.ShowTurnEndData:
		o = msgp.AppendMapHeader(o, 7)
		o = msgp.AppendInt(msgp.AppendString(o, "turn"), d.Turn)
		o = appendCard(msgp.AppendString(o, "trump"), d.Trump)
		o = appendCards(msgp.AppendString(o, "table"), d.Table)
		o = appendStrings(msgp.AppendString(o, "players"), d.Players)
		o = msgp.AppendString(msgp.AppendString(o, "winner"), d.Winner)
		o = msgp.AppendInt(msgp.AppendString(o, "points"), d.Points)
		o = appendFeatures(msgp.AppendString(o, "derived_feature_state"), d.State)
	case game.RoundEndData:
		o = msgp.AppendMapHeader(o, 3)
		o = msgp.AppendInt(msgp.AppendString(o, "round"), d.Round)
		o = appendSummaries(msgp.AppendString(o, "players"), d.Players)
		o = msgp.AppendString(msgp.AppendString(o, "round_winner"), d.RoundWinner)
	case game.GameOverData:
		o = msgp.AppendMapHeader(o, 3)
		o = msgp.AppendInt(msgp.AppendString(o, "round"), d.Round)
		o = appendSummaries(msgp.AppendString(o, "players"), d.Players)
		o = msgp.AppendString(msgp.AppendString(o, "game_winner"), d.GameWinner)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownEvent, obs.Data)
	}
	return o, nil
}

// UnmarshalObservation deserializes a msgpack observation. Unknown keys are
// skipped.
func UnmarshalObservation(b []byte) (game.Observation, error) {
	var (
		obs   game.Observation
		name  string
		data  []byte
		found bool
	)
	_, err := readMap(b, func(key string, b []byte) ([]byte, error) {
		var err error
		switch key {
		case "event_name":
			name, b, err = msgp.ReadStringBytes(b)
		case "broadcast":
			obs.Broadcast, b, err = msgp.ReadBoolBytes(b)
		case "data":
			// Decoded once the event name is known.
			var rest []byte
			rest, err = msgp.Skip(b)
			data, b, found = b[:len(b)-len(rest)], rest, true
		default:
			b, err = msgp.Skip(b)
		}
		return b, err
	})
	if err != nil {
		return game.Observation{}, fmt.Errorf("failed to decode envelope: %w", err)
	}

	event, ok := game.ParseState(name)
	if !ok {
		return game.Observation{}, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
	if !found {
		return game.Observation{}, fmt.Errorf("%w: data for %s", ErrMissingField, name)
	}
	obs.Event = event

	switch event {
	case game.GameStart:
		obs.Data, err = readGameStart(data)
	case game.NewRound:
		obs.Data, err = readNewRound(data)
	case game.PlayTurn:
		obs.Data, err = readPlayTurn(data)
	case game.ShowTurnAction:
		obs.Data, err = readShowTurnAction(data)
	case game.ShowTurnEnd:
		obs.Data, err = readShowTurnEnd(data)
	case game.RoundEnd:
		obs.Data, err = readRoundEnd(data)
	case game.GameOver:
		obs.Data, err = readGameOver(data)
	default:
		return game.Observation{}, fmt.Errorf("%w: %q carries no data", ErrUnknownEvent, name)
	}
	if err != nil {
		return game.Observation{}, fmt.Errorf("failed to decode %s data: %w", name, err)
	}
	return obs, nil
}

// MarshalAction serializes an action to msgpack
func MarshalAction(a *game.Action) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: action", ErrMissingField)
	}
	o := make([]byte, 0, 64)
	o = msgp.AppendMapHeader(o, 2)
	o = msgp.AppendString(msgp.AppendString(o, "event_name"), a.EventName)
	o = msgp.AppendMapHeader(msgp.AppendString(o, "data"), 2)
	o = msgp.AppendString(msgp.AppendString(o, "playerName"), a.PlayerName)
	o = msgp.AppendMapHeader(msgp.AppendString(o, "action"), 1)
	o = msgp.AppendInt(msgp.AppendString(o, "card"), a.Card)
	return o, nil
}

// UnmarshalAction deserializes a msgpack action
func UnmarshalAction(b []byte) (*game.Action, error) {
	var a game.Action
	hasCard := false
	_, err := readMap(b, func(key string, b []byte) ([]byte, error) {
		var err error
		switch key {
		case "event_name":
			a.EventName, b, err = msgp.ReadStringBytes(b)
		case "data":
			b, err = readMap(b, func(key string, b []byte) ([]byte, error) {
				var err error
				switch key {
				case "playerName":
					a.PlayerName, b, err = msgp.ReadStringBytes(b)
				case "action":
					b, err = readMap(b, func(key string, b []byte) ([]byte, error) {
						var err error
						if key == "card" {
							a.Card, b, err = msgp.ReadIntBytes(b)
							hasCard = err == nil
							return b, err
						}
						return msgp.Skip(b)
					})
				default:
					b, err = msgp.Skip(b)
				}
				return b, err
			})
		default:
			b, err = msgp.Skip(b)
		}
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode action: %w", err)
	}
	if !hasCard {
		return nil, fmt.Errorf("%w: data.action.card", ErrMissingField)
	}
	return &a, nil
}

// readMap calls field for every key of the map at the front of b and
// returns the bytes after the map
func readMap(b []byte, field func(key string, b []byte) ([]byte, error)) ([]byte, error) {
	sz, b, err := msgp.ReadMapHeaderBytes(b)
	if err != nil {
		return b, err
	}
	for range sz {
		var key []byte
		key, b, err = msgp.ReadMapKeyZC(b)
		if err != nil {
			return b, err
		}
		k := string(key)
		b, err = field(k, b)
		if err != nil {
			return b, msgp.WrapError(err, k)
		}
	}
	return b, nil
}

// readArray calls elem once per element of the array at the front of b.
// A nil array reports ok=false.
func readArray(b []byte, elem func(i int, b []byte) ([]byte, error)) (n int, ok bool, o []byte, err error) {
	if msgp.IsNil(b) {
		o, err = msgp.ReadNilBytes(b)
		return 0, false, o, err
	}
	sz, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return 0, false, b, err
	}
	for i := range int(sz) {
		b, err = elem(i, b)
		if err != nil {
			return i, true, b, msgp.WrapError(err, i)
		}
	}
	return int(sz), true, b, nil
}

func appendCard(o []byte, v game.CardView) []byte {
	o = msgp.AppendMapHeader(o, 3)
	o = msgp.AppendInt(msgp.AppendString(o, "rank"), v.Rank)
	o = msgp.AppendString(msgp.AppendString(o, "suit"), v.Suit)
	o = msgp.AppendInt(msgp.AppendString(o, "point_value"), v.Points)
	return o
}

func readCard(b []byte) (game.CardView, []byte, error) {
	var v game.CardView
	b, err := readMap(b, func(key string, b []byte) ([]byte, error) {
		var err error
		switch key {
		case "rank":
			v.Rank, b, err = msgp.ReadIntBytes(b)
		case "suit":
			v.Suit, b, err = msgp.ReadStringBytes(b)
		case "point_value":
			v.Points, b, err = msgp.ReadIntBytes(b)
		default:
			b, err = msgp.Skip(b)
		}
		return b, err
	})
	return v, b, err
}

func appendCards(o []byte, views []game.CardView) []byte {
	if views == nil {
		return msgp.AppendNil(o)
	}
	o = msgp.AppendArrayHeader(o, uint32(len(views)))
	for _, v := range views {
		o = appendCard(o, v)
	}
	return o
}

func readCards(b []byte) ([]game.CardView, []byte, error) {
	var views []game.CardView
	_, ok, b, err := readArray(b, func(_ int, b []byte) ([]byte, error) {
		v, b, err := readCard(b)
		views = append(views, v)
		return b, err
	})
	if ok && views == nil {
		views = []game.CardView{}
	}
	return views, b, err
}

func appendStrings(o []byte, ss []string) []byte {
	if ss == nil {
		return msgp.AppendNil(o)
	}
	o = msgp.AppendArrayHeader(o, uint32(len(ss)))
	for _, s := range ss {
		o = msgp.AppendString(o, s)
	}
	return o
}

func readStrings(b []byte) ([]string, []byte, error) {
	var ss []string
	_, ok, b, err := readArray(b, func(_ int, b []byte) ([]byte, error) {
		s, b, err := msgp.ReadStringBytes(b)
		ss = append(ss, s)
		return b, err
	})
	if ok && ss == nil {
		ss = []string{}
	}
	return ss, b, err
}

func appendSummaries(o []byte, players []game.PlayerSummary) []byte {
	if players == nil {
		return msgp.AppendNil(o)
	}
	o = msgp.AppendArrayHeader(o, uint32(len(players)))
	for _, p := range players {
		o = msgp.AppendMapHeader(o, 3)
		o = msgp.AppendString(msgp.AppendString(o, "name"), p.Name)
		o = msgp.AppendInt(msgp.AppendString(o, "round_points"), p.RoundPoints)
		o = msgp.AppendInt(msgp.AppendString(o, "round_wins"), p.RoundWins)
	}
	return o
}

func readSummaries(b []byte) ([]game.PlayerSummary, []byte, error) {
	var players []game.PlayerSummary
	_, ok, b, err := readArray(b, func(_ int, b []byte) ([]byte, error) {
		var p game.PlayerSummary
		b, err := readMap(b, func(key string, b []byte) ([]byte, error) {
			var err error
			switch key {
			case "name":
				p.Name, b, err = msgp.ReadStringBytes(b)
			case "round_points":
				p.RoundPoints, b, err = msgp.ReadIntBytes(b)
			case "round_wins":
				p.RoundWins, b, err = msgp.ReadIntBytes(b)
			default:
				b, err = msgp.Skip(b)
			}
			return b, err
		})
		players = append(players, p)
		return b, err
	})
	if ok && players == nil {
		players = []game.PlayerSummary{}
	}
	return players, b, err
}

func appendFeatures(o []byte, rows []game.Feature) []byte {
	if rows == nil {
		return msgp.AppendNil(o)
	}
	o = msgp.AppendArrayHeader(o, uint32(len(rows)))
	for _, row := range rows {
		o = msgp.AppendArrayHeader(o, uint32(len(row)))
		for _, x := range row {
			o = msgp.AppendInt(o, x)
		}
	}
	return o
}

func readFeatures(b []byte) ([]game.Feature, []byte, error) {
	var rows []game.Feature
	_, ok, b, err := readArray(b, func(_ int, b []byte) ([]byte, error) {
		var row game.Feature
		n, _, b, err := readArray(b, func(i int, b []byte) ([]byte, error) {
			if i >= len(row) {
				return b, fmt.Errorf("feature row longer than %d", len(row))
			}
			var err error
			row[i], b, err = msgp.ReadIntBytes(b)
			return b, err
		})
		if err == nil && n != len(row) {
			err = fmt.Errorf("feature row has %d columns, want %d", n, len(row))
		}
		rows = append(rows, row)
		return b, err
	})
	if ok && rows == nil {
		rows = []game.Feature{}
	}
	return rows, b, err
}

func readGameStart(b []byte) (game.GameStartData, error) {
	var d game.GameStartData
	_, err := readMap(b, func(key string, b []byte) ([]byte, error) {
		var err error
		switch key {
		case "players":
			d.Players, b, err = readSummaries(b)
		default:
			b, err = msgp.Skip(b)
		}
		return b, err
	})
	return d, err
}

func readNewRound(b []byte) (game.NewRoundData, error) {
	var d game.NewRoundData
	_, err := readMap(b, func(key string, b []byte) ([]byte, error) {
		var err error
		switch key {
		case "round":
			d.Round, b, err = msgp.ReadIntBytes(b)
		case "players":
			d.Players, b, err = readSummaries(b)
		case "trump":
			d.Trump, b, err = readCard(b)
		case "leader":
			d.Leader, b, err = msgp.ReadStringBytes(b)
		default:
			b, err = msgp.Skip(b)
		}
		return b, err
	})
	return d, err
}

func readPlayTurn(b []byte) (game.PlayTurnData, error) {
	var d game.PlayTurnData
	_, err := readMap(b, func(key string, b []byte) ([]byte, error) {
		var err error
		switch key {
		case "playerName":
			d.PlayerName, b, err = msgp.ReadStringBytes(b)
		case "hand":
			d.Hand, b, err = readCards(b)
		case "turn":
			d.Turn, b, err = msgp.ReadIntBytes(b)
		case "position":
			d.Position, b, err = msgp.ReadIntBytes(b)
		case "trump":
			d.Trump, b, err = readCard(b)
		case "table":
			d.Table, b, err = readCards(b)
		case "derived_feature_state":
			d.State, b, err = readFeatures(b)
		default:
			b, err = msgp.Skip(b)
		}
		return b, err
	})
	return d, err
}

func readShowTurnAction(b []byte) (game.ShowTurnActionData, error) {
	var d game.ShowTurnActionData
	_, err := readMap(b, func(key string, b []byte) ([]byte, error) {
		var err error
		switch key {
		case "playerName":
			d.PlayerName, b, err = msgp.ReadStringBytes(b)
		case "card":
			d.Card, b, err = readCard(b)
		case "turn":
			d.Turn, b, err = msgp.ReadIntBytes(b)
		case "trump":
			d.Trump, b, err = readCard(b)
		case "table":
			d.Table, b, err = readCards(b)
		default:
			b, err = msgp.Skip(b)
		}
		return b, err
	})
	return d, err
}

func readShowTurnEnd(b []byte) (game.ShowTurnEndData, error) {
	var d game.ShowTurnEndData
	_, err := readMap(b, func(key string, b []byte) ([]byte, error) {
		var err error
		switch key {
		case "turn":
			d.Turn, b, err = msgp.ReadIntBytes(b)
		case "trump":
			d.Trump, b, err = readCard(b)
		case "table":
			d.Table, b, err = readCards(b)
		case "players":
			d.Players, b, err = readStrings(b)
		case "winner":
			d.Winner, b, err = msgp.ReadStringBytes(b)
		case "points":
			d.Points, b, err = msgp.ReadIntBytes(b)
		case "derived_feature_state":
			d.State, b, err = readFeatures(b)
		default:
			b, err = msgp.Skip(b)
		}
		return b, err
	})
	return d, err
}

func readRoundEnd(b []byte) (game.RoundEndData, error) {
	var d game.RoundEndData
	_, err := readMap(b, func(key string, b []byte) ([]byte, error) {
		var err error
		switch key {
		case "round":
			d.Round, b, err = msgp.ReadIntBytes(b)
		case "players":
			d.Players, b, err = readSummaries(b)
		case "round_winner":
			d.RoundWinner, b, err = msgp.ReadStringBytes(b)
		default:
			b, err = msgp.Skip(b)
		}
		return b, err
	})
	return d, err
}

func readGameOver(b []byte) (game.GameOverData, error) {
	var d game.GameOverData
	_, err := readMap(b, func(key string, b []byte) ([]byte, error) {
		var err error
		switch key {
		case "round":
			d.Round, b, err = msgp.ReadIntBytes(b)
		case "players":
			d.Players, b, err = readSummaries(b)
		case "game_winner":
			d.GameWinner, b, err = msgp.ReadStringBytes(b)
		default:
			b, err = msgp.Skip(b)
		}
		return b, err
	})
	return d, err
}
