package game

import "github.com/lox/briscola/internal/card"

// MaxHandSize is the number of cards a player holds after every refill
const MaxHandSize = 3

// Player represents a seat at the table
type Player struct {
	Seat        int
	Name        string
	Hand        []card.Card
	RoundPoints int // Points captured in the current round
	RoundWins   int // Rounds won in the current game
}

func (p *Player) take(c card.Card) {
	if len(p.Hand) >= MaxHandSize {
		violate("hand size", "%s already holds %d cards", p.Name, len(p.Hand))
	}
	p.Hand = append(p.Hand, c)
}

func (p *Player) play(index int) card.Card {
	c := p.Hand[index]
	p.Hand = append(p.Hand[:index:index], p.Hand[index+1:]...)
	return c
}

func (p *Player) summary() PlayerSummary {
	return PlayerSummary{
		Name:        p.Name,
		RoundPoints: p.RoundPoints,
		RoundWins:   p.RoundWins,
	}
}

func (p *Player) clone() Player {
	cp := *p
	cp.Hand = append([]card.Card(nil), p.Hand...)
	return cp
}
