package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/briscola/internal/card"
	"github.com/lox/briscola/internal/game"
	"github.com/lox/briscola/internal/protocol"
)

// DealCmd prints the opening of a seeded game so it can be reproduced
type DealCmd struct {
	Seed    int64    `required:"" help:"Game seed"`
	Players []string `short:"p" default:"A,B" help:"Player names in seat order"`
	Format  string   `short:"f" enum:"text,json,msgpack" default:"text" help:"Output format (text, json, msgpack)"`
}

func (c *DealCmd) Run(_ *Globals) error {
	g, observations, err := openingDeal(c.Seed, c.Players)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)
	switch c.Format {
	case "json", "msgpack":
		err = writeObservations(w, c.Format, observations)
	default:
		_, err = io.WriteString(w, describeDeal(g))
	}
	if err != nil {
		return err
	}
	return w.Flush()
}

// openingDeal plays a game from reset up to the first decision
func openingDeal(seed int64, names []string) (*game.Game, []game.Observation, error) {
	g, err := game.New(names, game.WithSeed(seed))
	if err != nil {
		return nil, nil, err
	}

	observations := []game.Observation{g.Reset()}
	for !g.AwaitingAction() {
		obs, _, _, err := g.Step(nil)
		if err != nil {
			return nil, nil, err
		}
		observations = append(observations, obs)
	}
	return g, observations, nil
}

// writeObservations writes each observation in its wire form. JSON is
// newline delimited; msgpack messages are self-delimiting.
func writeObservations(w io.Writer, format string, observations []game.Observation) error {
	for _, obs := range observations {
		var (
			b   []byte
			err error
		)
		if format == "json" {
			b, err = protocol.EncodeObservation(obs)
			b = append(b, '\n')
		} else {
			b, err = protocol.MarshalObservation(obs)
		}
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", obs.Event, err)
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

func describeDeal(g *game.Game) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Seed %d\n", g.Seed())
	fmt.Fprintf(&b, "Briscola: %s\n", g.Trump().Name())
	if name, ok := g.CurrentPlayer(); ok {
		fmt.Fprintf(&b, "Leader: %s\n", name)
	}
	for _, p := range g.Players() {
		names := make([]string, len(p.Hand))
		for i, c := range p.Hand {
			names[i] = c.Name()
		}
		fmt.Fprintf(&b, "  %s: %s (%d points)\n", p.Name, strings.Join(names, ", "), card.TotalPoints(p.Hand))
	}
	fmt.Fprintf(&b, "Deck: %d cards\n", g.DeckRemaining())
	return b.String()
}
