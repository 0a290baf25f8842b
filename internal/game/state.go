package game

// State identifies a node of the game state machine. Observations carry the
// state that produced them as their event.
type State int

const (
	GameStart State = iota
	NewRound
	PlayTurn
	ShowTurnAction
	ShowTurnEnd
	RoundEnd
	GameOver
	Halted
)

// PlayTurnAction is the event name carried by every action
const PlayTurnAction = "PlayTurn_Action"

// String returns the event name used on the wire
func (s State) String() string {
	switch s {
	case GameStart:
		return "GameStart"
	case NewRound:
		return "NewRound"
	case PlayTurn:
		return "PlayTurn"
	case ShowTurnAction:
		return "ShowTurnAction"
	case ShowTurnEnd:
		return "ShowTurnEnd"
	case RoundEnd:
		return "RoundEnd"
	case GameOver:
		return "GameOver"
	case Halted:
		return "Halted"
	default:
		return "Unknown"
	}
}

// ParseState converts an event name back into a State
func ParseState(name string) (State, bool) {
	for s := GameStart; s <= Halted; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// IsBroadcast reports whether observations for this state go to every agent
func (s State) IsBroadcast() bool {
	return s != PlayTurn
}
