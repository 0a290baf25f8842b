// Package gameid generates sortable identifiers for played games. An ID is a
// UUIDv7 rendered as 26 characters of Crockford base32, so IDs sort by the
// time the game started.
package gameid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand/v2"
	"strings"

	"github.com/coder/quartz"
)

// Length is the number of characters in an ID
const Length = 26

// Crockford's base32 alphabet
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Generator creates IDs from a clock and an optional random source
type Generator struct {
	clock quartz.Clock
	rng   *mrand.Rand
}

// NewGenerator creates a generator. A nil rng draws from crypto/rand; pass a
// seeded source to make IDs reproducible in tests.
func NewGenerator(clock quartz.Clock, rng *mrand.Rand) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, rng: rng}
}

// Generate returns an ID using the real clock and crypto/rand
func Generate() string {
	return NewGenerator(nil, nil).Generate()
}

// Generate returns a new ID
func (g *Generator) Generate() string {
	var id [16]byte

	ms := uint64(g.clock.Now().UnixMilli())
	binary.BigEndian.PutUint16(id[0:2], uint16(ms>>32))
	binary.BigEndian.PutUint32(id[2:6], uint32(ms))

	if g.rng != nil {
		binary.BigEndian.PutUint16(id[6:8], uint16(g.rng.Uint32()))
		binary.BigEndian.PutUint64(id[8:16], g.rng.Uint64())
	} else if _, err := rand.Read(id[6:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // variant 10

	return encode(id)
}

// encode renders 128 bits as 26 base32 characters. The first character
// carries the top 3 bits, so it is always in 0-7.
func encode(id [16]byte) string {
	hi := binary.BigEndian.Uint64(id[0:8])
	lo := binary.BigEndian.Uint64(id[8:16])

	out := make([]byte, Length)
	for i := Length - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out)
}

// Validate checks that id could have been produced by Generate
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}
