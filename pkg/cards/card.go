// Package cards implements card and hand text encoding and the 7-card
// hand ranker the solver treats as a black box.
package cards

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind classifies a parsing failure for callers that want to branch on it.
type ErrorKind int

const (
	// InvalidCardText covers a 2-char card or 4-char hand with an unknown
	// rank/suit, wrong length, or duplicate cards within a hand.
	InvalidCardText ErrorKind = iota
	// InvalidBoard covers a board without exactly five distinct cards.
	InvalidBoard
)

// Error is the typed error returned by this package's parsing functions.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newError(kind ErrorKind, msg string) error {
	return errors.WithStack(&Error{Kind: kind, Msg: msg})
}

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

// Card is an integer in [0,52): suit*13 + rank, rank in [0,13), suit in [0,4).
type Card int

// NewCard builds a Card from a rank index [0,13) and suit index [0,4).
func NewCard(rank, suit int) Card {
	return Card(suit*13 + rank)
}

// Rank returns the card's rank index in [0,13), where 0 is deuce and 12 is ace.
func (c Card) Rank() int { return int(c) % 13 }

// Suit returns the card's suit index in [0,4).
func (c Card) Suit() int { return int(c) / 13 }

// RankValue returns the natural poker rank number (2..14) used by Strength kickers.
func (c Card) RankValue() int { return c.Rank() + 2 }

// String renders the card as "<rank><suit>", e.g. "Ah".
func (c Card) String() string {
	return string(rankChars[c.Rank()]) + string(suitChars[c.Suit()])
}

// ParseCard parses a two-character card string such as "Ah" or "Td".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, newError(InvalidCardText, "card text must be 2 characters: "+s)
	}
	rank := strings.IndexByte(rankChars, upperRank(s[0]))
	if rank < 0 {
		return 0, newError(InvalidCardText, "unknown rank in card text: "+s)
	}
	suit := strings.IndexByte(suitChars, lowerSuit(s[1]))
	if suit < 0 {
		return 0, newError(InvalidCardText, "unknown suit in card text: "+s)
	}
	return NewCard(rank, suit), nil
}

func upperRank(b byte) byte {
	switch b {
	case 't':
		return 'T'
	case 'j':
		return 'J'
	case 'q':
		return 'Q'
	case 'k':
		return 'K'
	case 'a':
		return 'A'
	default:
		return b
	}
}

func lowerSuit(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// ParseBoard parses exactly five distinct board cards from a 10-character string.
func ParseBoard(s string) ([5]Card, error) {
	var board [5]Card
	if len(s)%2 != 0 || len(s)/2 != 5 {
		return board, newError(InvalidBoard, "board must have exactly 5 cards: "+s)
	}
	seen := map[Card]bool{}
	for i := 0; i < 5; i++ {
		c, err := ParseCard(s[i*2 : i*2+2])
		if err != nil {
			return board, errors.Wrapf(err, "parsing board card %d", i)
		}
		if seen[c] {
			return board, newError(InvalidBoard, "duplicate board card: "+c.String())
		}
		seen[c] = true
		board[i] = c
	}
	return board, nil
}

// ParseHand parses a four-character hand string such as "AhKd" into two distinct,
// canonically ordered cards (c1 < c2).
func ParseHand(s string) (Card, Card, error) {
	if len(s) != 4 {
		return 0, 0, newError(InvalidCardText, "hand text must be 4 characters: "+s)
	}
	c1, err := ParseCard(s[:2])
	if err != nil {
		return 0, 0, errors.Wrap(err, "parsing first hand card")
	}
	c2, err := ParseCard(s[2:])
	if err != nil {
		return 0, 0, errors.Wrap(err, "parsing second hand card")
	}
	if c1 == c2 {
		return 0, 0, newError(InvalidCardText, "duplicate card within hand: "+s)
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	return c1, c2, nil
}
