package engine

import (
	"strconv"
	"strings"
)

// Score returns the blackjack value of a hand. Face cards count 10, pip
// cards their printed value. Aces are left out of the first pass, then
// each one adds 11 unless that would push the running total past 21, in
// which case it adds 1.
func Score(cards []string) int {
	score := 0
	hasAce := false
	for _, card := range cards {
		score += pips(card)
		if strings.Contains(card, "J") || strings.Contains(card, "Q") || strings.Contains(card, "K") {
			score += 10
			continue
		}
		if strings.Contains(card, "A") {
			hasAce = true
		}
	}
	if hasAce {
		for _, card := range cards {
			if strings.Contains(card, "A") {
				if score+11 > 21 {
					score += 1
				} else {
					score += 11
				}
			}
		}
	}
	return score
}

// pips parses the digits of a card token. Tokens without digits (aces,
// faces, anything malformed) contribute nothing.
func pips(card string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, card)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
