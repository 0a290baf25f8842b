// Package protocol encodes observations and actions for agents that live
// outside the process. Two encodings share one field layout: JSON for
// humans and scripts, msgpack for compact transport.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lox/briscola/internal/game"
)

var (
	// ErrUnknownEvent is returned when an envelope names no known event
	ErrUnknownEvent = errors.New("protocol: unknown event")

	// ErrMissingField is returned when a required field is absent
	ErrMissingField = errors.New("protocol: missing field")
)

// Envelope is the outer shape of every observation on the wire
type Envelope struct {
	EventName string          `json:"event_name"`
	Broadcast bool            `json:"broadcast"`
	Data      json.RawMessage `json:"data"`
}

// ActionMessage is the wire form of an action:
// {"event_name":"PlayTurn_Action","data":{"playerName":...,"action":{"card":i}}}
type ActionMessage struct {
	EventName string     `json:"event_name"`
	Data      ActionData `json:"data"`
}

// ActionData carries the acting player and the choice
type ActionData struct {
	PlayerName string       `json:"playerName"`
	Action     ActionChoice `json:"action"`
}

// ActionChoice holds the 0-based hand index. It is a pointer so that a
// missing index is distinguishable from index 0.
type ActionChoice struct {
	Card *int `json:"card"`
}

// EncodeObservation renders an observation as a JSON envelope
func EncodeObservation(obs game.Observation) ([]byte, error) {
	if obs.Data == nil {
		return nil, fmt.Errorf("%w: data for %s", ErrMissingField, obs.Event)
	}
	data, err := json.Marshal(obs.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s data: %w", obs.Event, err)
	}
	return json.Marshal(Envelope{
		EventName: obs.Event.String(),
		Broadcast: obs.Broadcast,
		Data:      data,
	})
}

// DecodeObservation parses a JSON envelope back into an observation
func DecodeObservation(b []byte) (game.Observation, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return game.Observation{}, fmt.Errorf("failed to decode envelope: %w", err)
	}

	event, ok := game.ParseState(env.EventName)
	if !ok {
		return game.Observation{}, fmt.Errorf("%w: %q", ErrUnknownEvent, env.EventName)
	}
	if len(env.Data) == 0 {
		return game.Observation{}, fmt.Errorf("%w: data for %s", ErrMissingField, env.EventName)
	}

	var payload game.Payload
	var err error
	switch event {
	case game.GameStart:
		payload, err = decodeJSON[game.GameStartData](env.Data)
	case game.NewRound:
		payload, err = decodeJSON[game.NewRoundData](env.Data)
	case game.PlayTurn:
		payload, err = decodeJSON[game.PlayTurnData](env.Data)
	case game.ShowTurnAction:
		payload, err = decodeJSON[game.ShowTurnActionData](env.Data)
	case game.ShowTurnEnd:
		payload, err = decodeJSON[game.ShowTurnEndData](env.Data)
	case game.RoundEnd:
		payload, err = decodeJSON[game.RoundEndData](env.Data)
	case game.GameOver:
		payload, err = decodeJSON[game.GameOverData](env.Data)
	default:
		return game.Observation{}, fmt.Errorf("%w: %q carries no data", ErrUnknownEvent, env.EventName)
	}
	if err != nil {
		return game.Observation{}, fmt.Errorf("failed to decode %s data: %w", env.EventName, err)
	}

	return game.Observation{Event: event, Broadcast: env.Broadcast, Data: payload}, nil
}

func decodeJSON[T game.Payload](b []byte) (game.Payload, error) {
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// EncodeAction renders an action in its JSON wire form
func EncodeAction(a *game.Action) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: action", ErrMissingField)
	}
	card := a.Card
	return json.Marshal(ActionMessage{
		EventName: a.EventName,
		Data: ActionData{
			PlayerName: a.PlayerName,
			Action:     ActionChoice{Card: &card},
		},
	})
}

// DecodeAction parses the JSON wire form of an action. The event name and
// card index are passed through unchecked; the game validates them.
func DecodeAction(b []byte) (*game.Action, error) {
	var msg ActionMessage
	if err := json.Unmarshal(b, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode action: %w", err)
	}
	if msg.Data.Action.Card == nil {
		return nil, fmt.Errorf("%w: data.action.card", ErrMissingField)
	}
	return &game.Action{
		EventName:  msg.EventName,
		PlayerName: msg.Data.PlayerName,
		Card:       *msg.Data.Action.Card,
	}, nil
}
