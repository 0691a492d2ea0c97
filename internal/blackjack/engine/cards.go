package engine

import (
	"errors"
	"math/rand"
)

// Suits and Faces enumerate the single 52-card shoe. NewDeck walks them
// suit-major, face-minor, so the unshuffled deck order is canonical.
var Suits = []string{"♠", "♣", "♥", "♦"}

var Faces = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "A", "J", "Q", "K"}

var ErrEmptyDeck = errors.New("draw from empty deck")

// NewDeck returns all 52 suit+face tokens (e.g. "♠A"), unshuffled.
// The suit glyph comes first so "10" can never be misread as a face card.
func NewDeck() []string {
	deck := make([]string, 0, len(Suits)*len(Faces))
	for _, suit := range Suits {
		for _, face := range Faces {
			deck = append(deck, suit+face)
		}
	}
	return deck
}

// Shuffle permutes the deck in place. Every index swaps with a partner
// drawn from the whole deck, not the unvisited remainder. The slight
// bias against uniformity is a compatibility quirk, kept on purpose.
func Shuffle(deck []string, rng *rand.Rand) {
	for i := range deck {
		j := rng.Intn(len(deck))
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// Draw removes and returns the top card, the last element of the deck.
func Draw(deck []string) ([]string, string, error) {
	if len(deck) == 0 {
		return deck, "", ErrEmptyDeck
	}
	card := deck[len(deck)-1]
	return deck[:len(deck)-1], card, nil
}
