package game

import (
	"fmt"

	"github.com/lox/briscola/internal/card"
)

// Observation is what the engine emits on every transition
type Observation struct {
	Event     State
	Broadcast bool // false means only the player named in PlayTurnData should act
	Data      Payload
}

// Payload is implemented by the data of every observation
type Payload interface {
	event() State
}

// CardView is the external description of a card
type CardView struct {
	Rank   int    `json:"rank"`
	Suit   string `json:"suit"`
	Points int    `json:"point_value"`
}

// ViewOf describes a card
func ViewOf(c card.Card) CardView {
	return CardView{Rank: int(c.Rank), Suit: c.Suit.String(), Points: c.Points()}
}

// Card converts the view back into a card
func (v CardView) Card() (card.Card, error) {
	s, err := card.ParseSuit(v.Suit)
	if err != nil {
		return card.Card{}, err
	}
	c := card.New(card.Rank(v.Rank), s)
	if !c.Valid() {
		return card.Card{}, fmt.Errorf("invalid rank %d for %s", v.Rank, v.Suit)
	}
	return c, nil
}

func viewsOf(cards []card.Card) []CardView {
	views := make([]CardView, len(cards))
	for i, c := range cards {
		views[i] = ViewOf(c)
	}
	return views
}

// Zone tags where a card in the feature state sits
type Zone int

const (
	ZoneTrump Zone = iota
	ZoneTable
	ZoneHand
)

// Feature is one row of the derived feature state: [suit, rank, points, zone]
type Feature [4]int

func featureOf(c card.Card, z Zone) Feature {
	return Feature{int(c.Suit), int(c.Rank), c.Points(), int(z)}
}

// PlayerSummary is the public score line of a player
type PlayerSummary struct {
	Name        string `json:"name"`
	RoundPoints int    `json:"round_points"`
	RoundWins   int    `json:"round_wins"`
}

// GameStartData announces the seated players
type GameStartData struct {
	Players []PlayerSummary `json:"players"`
}

// NewRoundData announces a fresh deal
type NewRoundData struct {
	Round   int             `json:"round"`
	Players []PlayerSummary `json:"players"`
	Trump   CardView        `json:"trump"`
	Leader  string          `json:"leader"`
}

// PlayTurnData is sent privately to the player who must act
type PlayTurnData struct {
	PlayerName string     `json:"playerName"`
	Hand       []CardView `json:"hand"`
	Turn       int        `json:"turn"`     // Trick number within the round, starting at 1
	Position   int        `json:"position"` // Cards already on the table
	Trump      CardView   `json:"trump"`
	Table      []CardView `json:"table"`
	State      []Feature  `json:"derived_feature_state"`
}

// ShowTurnActionData reports a card just played
type ShowTurnActionData struct {
	PlayerName string     `json:"playerName"`
	Card       CardView   `json:"card"`
	Turn       int        `json:"turn"`
	Trump      CardView   `json:"trump"`
	Table      []CardView `json:"table"`
}

// ShowTurnEndData reports the resolution of a trick
type ShowTurnEndData struct {
	Turn    int        `json:"turn"`
	Trump   CardView   `json:"trump"`
	Table   []CardView `json:"table"`
	Players []string   `json:"players"` // Who played each card on the table
	Winner  string     `json:"winner"`
	Points  int        `json:"points"`
	State   []Feature  `json:"derived_feature_state"`
}

// RoundEndData reports the scores at the end of a round
type RoundEndData struct {
	Round       int             `json:"round"`
	Players     []PlayerSummary `json:"players"`
	RoundWinner string          `json:"round_winner"` // Empty when the round is tied
}

// GameOverData reports the final standings
type GameOverData struct {
	Round      int             `json:"round"`
	Players    []PlayerSummary `json:"players"`
	GameWinner string          `json:"game_winner"`
}

func (GameStartData) event() State      { return GameStart }
func (NewRoundData) event() State       { return NewRound }
func (PlayTurnData) event() State       { return PlayTurn }
func (ShowTurnActionData) event() State { return ShowTurnAction }
func (ShowTurnEndData) event() State    { return ShowTurnEnd }
func (RoundEndData) event() State       { return RoundEnd }
func (GameOverData) event() State       { return GameOver }

func newObservation(data Payload) Observation {
	ev := data.event()
	return Observation{Event: ev, Broadcast: ev.IsBroadcast(), Data: data}
}

// Action is submitted by the player on turn in response to PlayTurn
type Action struct {
	EventName  string
	PlayerName string
	Card       int // 0-based index into the player's current hand
}

// NewPlayAction builds the action that plays hand[index] for player
func NewPlayAction(player string, index int) *Action {
	return &Action{EventName: PlayTurnAction, PlayerName: player, Card: index}
}
