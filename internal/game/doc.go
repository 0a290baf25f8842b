// Package game implements the Briscola rules engine as a step-driven state machine.
//
// The main type is Game, which owns the players, the deck and the trick on the
// table, and advances through the states GameStart, NewRound, PlayTurn,
// ShowTurnAction, ShowTurnEnd, RoundEnd and GameOver one transition per call.
//
// # Basic Usage
//
//	g, err := game.New([]string{"Alice", "Bob"}, game.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	obs := g.Reset()
//	for {
//	    var action *game.Action
//	    if data, ok := obs.Data.(game.PlayTurnData); ok {
//	        action = game.NewPlayAction(data.PlayerName, 0)
//	    }
//	    next, rewards, done, err := g.Step(action)
//	    ...
//	}
//
// Step returns an observation for every transition. Broadcast observations
// are meant for every agent; a PlayTurn observation is addressed to the player
// named in its data, and the next Step must carry that player's Action.
//
// # Deterministic Testing
//
// Every game owns its random source. Use WithSeed (or WithRNG) to replay the
// same shuffles, and WithDeckFactory to supply a fixed deck order:
//
//	g, _ := game.New(names, game.WithDeckFactory(func(_ *rand.Rand, _ int) *deck.Deck {
//	    return deck.FromCards(cards)
//	}))
//
// # Errors
//
// Illegal actions return an *InvalidActionError and leave the state untouched.
// Bad construction parameters return a *ConfigurationError from New. Broken
// engine invariants (for example a trick evaluated with the wrong number of
// cards) panic with an *InvariantViolation.
package game
