package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/briscola/internal/card"
	"github.com/lox/briscola/internal/deck"
	"github.com/lox/briscola/internal/randutil"
	"github.com/lox/briscola/internal/trick"
)

// Game is a single Briscola game. It is not safe for concurrent use; callers
// serialise Step calls. Independent games share nothing and may run in parallel.
type Game struct {
	players []*Player // Fixed seating; turn order is derived from lead
	cfg     *gameConfig
	rng     *rand.Rand
	seed    int64
	logger  *log.Logger

	state    State
	awaiting bool // PlayTurn observation emitted, action pending

	round  int
	lead   int // Seat leading the current trick; after a round, the last trick winner
	played int // Cards on the table in the current trick
	turn   int // Completed tricks in the round
	turns  int // Tricks in the round
	dealt  int // Points dealt in the round

	deck  *deck.Deck
	trump card.Card
	table []trick.Play
}

// New creates a game for 2 to 4 uniquely named players. The game starts in
// GameStart; call Reset (or Step with no action) to begin.
func New(names []string, opts ...Option) (*Game, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if len(names) < 2 || len(names) > 4 {
		return nil, &ConfigurationError{Field: "players", Reason: fmt.Sprintf("need 2 to 4 players, got %d", len(names))}
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			return nil, &ConfigurationError{Field: "players", Reason: "player names must not be empty"}
		}
		if seen[name] {
			return nil, &ConfigurationError{Field: "players", Reason: fmt.Sprintf("duplicate player name %q", name)}
		}
		seen[name] = true
	}
	if cfg.roundsToWin < 1 {
		return nil, &ConfigurationError{Field: "rounds_to_win", Reason: "must be at least 1"}
	}
	if err := cfg.rewards.Validate(); err != nil {
		return nil, &ConfigurationError{Field: "reward", Reason: err.Error()}
	}
	if cfg.newDeck == nil {
		return nil, &ConfigurationError{Field: "deck", Reason: "deck factory must not be nil"}
	}

	g := &Game{
		cfg:    cfg,
		logger: cfg.logger,
		state:  GameStart,
	}
	if g.logger == nil {
		g.logger = discardLogger()
	}

	switch {
	case cfg.rng != nil:
		g.rng = cfg.rng
	case cfg.seeded:
		g.reseed(cfg.seed)
	default:
		g.reseed(randutil.SeedFromClock(quartz.NewReal()))
	}

	g.players = make([]*Player, len(names))
	for i, name := range names {
		g.players[i] = &Player{Seat: i, Name: name}
	}

	return g, nil
}

func (g *Game) reseed(seed int64) {
	g.seed = seed
	g.rng = randutil.New(seed)
}

// Reset starts a new game with the current random source and returns the
// GameStart observation.
func (g *Game) Reset() Observation {
	g.state = GameStart
	g.awaiting = false
	obs, _, _, err := g.Step(nil)
	if err != nil {
		violate("reset", "GameStart rejected: %v", err)
	}
	return obs
}

// ResetWithSeed reseeds the game's random source and starts a new game.
func (g *Game) ResetWithSeed(seed int64) Observation {
	g.reseed(seed)
	return g.Reset()
}

// Step advances the game by exactly one transition. action must be non-nil
// exactly when the game is waiting for the player on turn; otherwise the
// call fails with an *InvalidActionError and nothing changes. Rewards are
// non-nil only on ShowTurnEnd and RoundEnd transitions. done is true on the
// GameOver transition; any later call returns ErrGameOver.
//
// A valid action is resolved inline: the returned observation is the
// ShowTurnAction broadcast, and the machine has already moved on to the next
// PlayTurn or to ShowTurnEnd. State therefore never reports ShowTurnAction.
func (g *Game) Step(action *Action) (Observation, Rewards, bool, error) {
	if g.state == Halted {
		return Observation{}, nil, true, ErrGameOver
	}

	if g.awaiting {
		if action == nil {
			return Observation{}, nil, false, g.invalid(ReasonActionRequired, nil)
		}
		if err := g.validate(action); err != nil {
			return Observation{}, nil, false, err
		}
		return g.showTurnAction(action.Card), nil, false, nil
	}

	if action != nil {
		return Observation{}, nil, false, g.invalid(ReasonNotAwaiting, action)
	}

	switch g.state {
	case GameStart:
		return g.gameStart(), nil, false, nil
	case NewRound:
		return g.newRound(), nil, false, nil
	case PlayTurn:
		return g.playTurn(), nil, false, nil
	case ShowTurnAction:
		violate("state", "ShowTurnAction is only entered through an action")
	case ShowTurnEnd:
		obs, rewards := g.showTurnEnd()
		return obs, rewards, false, nil
	case RoundEnd:
		obs, rewards := g.roundEnd()
		return obs, rewards, false, nil
	case GameOver:
		return g.gameOver(), nil, true, nil
	}
	violate("state", "unknown state %d", int(g.state))
	return Observation{}, nil, false, nil
}

func (g *Game) invalid(reason InvalidReason, action *Action) *InvalidActionError {
	err := &InvalidActionError{Reason: reason, State: g.state}
	if action != nil {
		err.Player = action.PlayerName
		err.Card = action.Card
	}
	if g.awaiting {
		p := g.current()
		err.Expected = p.Name
		err.HandSize = len(p.Hand)
	}
	return err
}

func (g *Game) validate(action *Action) error {
	if action.EventName != PlayTurnAction {
		return g.invalid(ReasonWrongEvent, action)
	}
	p := g.current()
	if action.PlayerName != p.Name {
		return g.invalid(ReasonWrongPlayer, action)
	}
	if action.Card < 0 || action.Card >= len(p.Hand) {
		return g.invalid(ReasonCardOutOfRange, action)
	}
	return nil
}

// seatAt returns the seat playing at position i of the current trick
func (g *Game) seatAt(i int) int {
	return (g.lead + i) % len(g.players)
}

func (g *Game) current() *Player {
	return g.players[g.seatAt(g.played)]
}

func (g *Game) gameStart() Observation {
	for _, p := range g.players {
		p.RoundWins = 0
		p.RoundPoints = 0
		p.Hand = nil
	}
	g.round = 0
	g.lead = 0
	g.table = nil
	g.deck = nil

	g.logger.Debug("Game start", "players", len(g.players), "seed", g.seed)

	g.state = NewRound
	return newObservation(GameStartData{Players: g.summaries()})
}

func (g *Game) newRound() Observation {
	n := len(g.players)

	g.round++
	for _, p := range g.players {
		p.RoundPoints = 0
		p.Hand = p.Hand[:0]
	}

	g.deck = g.cfg.newDeck(g.rng, n)
	if g.deck.CardsRemaining()%n != 0 {
		violate("deck size", "%d cards cannot be split between %d players", g.deck.CardsRemaining(), n)
	}
	g.turns = g.deck.CardsRemaining() / n
	g.dealt = g.deck.Points()

	// The seat after the previous round's last trick winner leads.
	g.lead = (g.lead + 1) % n
	g.played = 0
	g.turn = 0
	g.table = make([]trick.Play, 0, n)

	for range MaxHandSize {
		g.dealRound()
	}

	trump, ok := g.deck.RevealTrump()
	if !ok {
		violate("deck size", "no card left to reveal as trump")
	}
	g.trump = trump

	g.logger.Debug("New round",
		"round", g.round,
		"trump", trump.Name(),
		"leader", g.players[g.lead].Name,
		"tricks", g.turns)

	g.state = PlayTurn
	return newObservation(NewRoundData{
		Round:   g.round,
		Players: g.summaries(),
		Trump:   ViewOf(trump),
		Leader:  g.players[g.lead].Name,
	})
}

// dealRound gives one card to every player in turn order
func (g *Game) dealRound() {
	if g.deck.CardsRemaining() < len(g.players) {
		violate("deck size", "%d cards left for %d players", g.deck.CardsRemaining(), len(g.players))
	}
	for i := range g.players {
		c, _ := g.deck.Deal()
		g.players[g.seatAt(i)].take(c)
	}
}

func (g *Game) playTurn() Observation {
	p := g.current()
	if len(p.Hand) == 0 || len(p.Hand) > MaxHandSize {
		violate("hand size", "%s must act holding %d cards", p.Name, len(p.Hand))
	}

	g.awaiting = true
	return newObservation(PlayTurnData{
		PlayerName: p.Name,
		Hand:       viewsOf(p.Hand),
		Turn:       g.turn + 1,
		Position:   g.played,
		Trump:      ViewOf(g.trump),
		Table:      g.tableViews(),
		State:      g.features(p.Hand),
	})
}

func (g *Game) showTurnAction(index int) Observation {
	p := g.current()
	c := p.play(index)
	g.table = append(g.table, trick.Play{Player: p.Name, Card: c})
	g.played++
	g.awaiting = false

	g.logger.Debug("Card played", "player", p.Name, "card", c.Name(), "turn", g.turn+1)

	if len(g.table) < len(g.players) {
		g.state = PlayTurn
	} else {
		g.state = ShowTurnEnd
	}

	return Observation{
		Event:     ShowTurnAction,
		Broadcast: true,
		Data: ShowTurnActionData{
			PlayerName: p.Name,
			Card:       ViewOf(c),
			Turn:       g.turn + 1,
			Trump:      ViewOf(g.trump),
			Table:      g.tableViews(),
		},
	}
}

func (g *Game) showTurnEnd() (Observation, Rewards) {
	n := len(g.players)
	if len(g.table) != n {
		violate("trick size", "evaluating %d cards with %d players", len(g.table), n)
	}

	result := trick.Evaluate(g.table, g.trump.Suit)
	winner := g.players[g.seatAt(result.Index)]
	winner.RoundPoints += result.Points
	rewards := g.cfg.rewards.TrickRewards(g.table, result)

	data := ShowTurnEndData{
		Turn:    g.turn + 1,
		Trump:   ViewOf(g.trump),
		Table:   g.tableViews(),
		Players: make([]string, n),
		Winner:  winner.Name,
		Points:  result.Points,
		State:   g.features(nil),
	}
	for i, play := range g.table {
		data.Players[i] = play.Player
	}

	g.logger.Debug("Trick won", "winner", winner.Name, "points", result.Points, "turn", g.turn+1)

	g.table = g.table[:0]
	g.lead = winner.Seat
	g.played = 0
	if !g.deck.IsEmpty() {
		g.dealRound()
	}
	g.turn++

	if g.turn < g.turns {
		g.state = PlayTurn
	} else {
		g.checkRoundExhausted()
		g.state = RoundEnd
	}

	return newObservation(data), rewards
}

func (g *Game) checkRoundExhausted() {
	if !g.deck.IsEmpty() {
		violate("round termination", "round over with %d cards in the deck", g.deck.CardsRemaining())
	}
	for _, p := range g.players {
		if len(p.Hand) != 0 {
			violate("round termination", "round over with %d cards in %s's hand", len(p.Hand), p.Name)
		}
	}
}

func (g *Game) roundEnd() (Observation, Rewards) {
	total := 0
	for _, p := range g.players {
		total += p.RoundPoints
	}
	if total != g.dealt {
		violate("point conservation", "players captured %d points of %d dealt", total, g.dealt)
	}

	winner := g.roundWinner()
	name := ""
	if winner != nil {
		winner.RoundWins++
		name = winner.Name
	}
	rewards := g.cfg.rewards.RoundRewards(g.players, name)

	g.logger.Info("Round over", "round", g.round, "winner", name, "scores", g.scoreLine())

	if winner != nil && winner.RoundWins >= g.cfg.roundsToWin {
		g.state = GameOver
	} else {
		g.state = NewRound
	}

	return newObservation(RoundEndData{
		Round:       g.round,
		Players:     g.summaries(),
		RoundWinner: name,
	}), rewards
}

// roundWinner returns the player with the most points, or nil on a tie for first
func (g *Game) roundWinner() *Player {
	var best *Player
	tied := false
	for _, p := range g.players {
		switch {
		case best == nil || p.RoundPoints > best.RoundPoints:
			best = p
			tied = false
		case p.RoundPoints == best.RoundPoints:
			tied = true
		}
	}
	if tied {
		return nil
	}
	return best
}

func (g *Game) gameOver() Observation {
	var winner *Player
	for _, p := range g.players {
		if p.RoundWins > g.cfg.roundsToWin {
			violate("game termination", "%s has %d round wins", p.Name, p.RoundWins)
		}
		if p.RoundWins == g.cfg.roundsToWin {
			winner = p
		}
	}
	if winner == nil {
		violate("game termination", "game over without a player on %d wins", g.cfg.roundsToWin)
	}

	g.logger.Info("Game over", "winner", winner.Name, "rounds", g.round)

	g.state = Halted
	return newObservation(GameOverData{
		Round:      g.round,
		Players:    g.summaries(),
		GameWinner: winner.Name,
	})
}

func (g *Game) tableViews() []CardView {
	views := make([]CardView, len(g.table))
	for i, play := range g.table {
		views[i] = ViewOf(play.Card)
	}
	return views
}

func (g *Game) features(hand []card.Card) []Feature {
	rows := make([]Feature, 0, 1+len(g.table)+len(hand))
	rows = append(rows, featureOf(g.trump, ZoneTrump))
	for _, play := range g.table {
		rows = append(rows, featureOf(play.Card, ZoneTable))
	}
	for _, c := range hand {
		rows = append(rows, featureOf(c, ZoneHand))
	}
	return rows
}

func (g *Game) summaries() []PlayerSummary {
	out := make([]PlayerSummary, len(g.players))
	for i, p := range g.players {
		out[i] = p.summary()
	}
	return out
}

func (g *Game) scoreLine() string {
	s := ""
	for i, p := range g.players {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%d", p.Name, p.RoundPoints)
	}
	return s
}

// State returns the state the next Step will execute
func (g *Game) State() State {
	return g.state
}

// AwaitingAction reports whether the next Step must carry an action
func (g *Game) AwaitingAction() bool {
	return g.awaiting
}

// CurrentPlayer returns the name of the player on turn while an action is pending
func (g *Game) CurrentPlayer() (string, bool) {
	if !g.awaiting {
		return "", false
	}
	return g.current().Name, true
}

// TurnOrder returns the player names in the order they act in the current trick
func (g *Game) TurnOrder() []string {
	order := make([]string, len(g.players))
	for i := range g.players {
		order[i] = g.players[g.seatAt(i)].Name
	}
	return order
}

// Players returns a snapshot of every player in seat order
func (g *Game) Players() []Player {
	out := make([]Player, len(g.players))
	for i, p := range g.players {
		out[i] = p.clone()
	}
	return out
}

// Trump returns the revealed trump card of the current round
func (g *Game) Trump() card.Card {
	return g.trump
}

// Round returns the current round number, starting at 1
func (g *Game) Round() int {
	return g.round
}

// Tricks returns the completed and total tricks of the current round
func (g *Game) Tricks() (completed, total int) {
	return g.turn, g.turns
}

// DeckRemaining returns the number of undealt cards
func (g *Game) DeckRemaining() int {
	if g.deck == nil {
		return 0
	}
	return g.deck.CardsRemaining()
}

// Seed returns the seed of the game's random source. It is zero when the
// source was supplied with WithRNG.
func (g *Game) Seed() int64 {
	return g.seed
}

// RoundsToWin returns the number of round wins that ends the game
func (g *Game) RoundsToWin() int {
	return g.cfg.roundsToWin
}
