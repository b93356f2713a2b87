// Package pgn parses PGN text into tag pairs and a flat list of SAN moves.
// It covers the subset of the format Chess.com archives emit: tag pairs,
// movetext with comments, variations, NAGs and clock annotations. Move
// legality is not checked.
package pgn

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// ErrNoGame indicates the input contained neither tag pairs nor moves
var ErrNoGame = errors.New("pgn: no game in input")

// Game holds the tag pairs and flattened SAN movetext of one PGN game
type Game struct {
	Tags  map[string]string
	Moves []string
}

// Tag returns the value for a tag name, or "" when absent
func (g *Game) Tag(name string) string {
	return g.Tags[name]
}

var tagPairRE = regexp.MustCompile(`^\[(\w+)\s+"((?:[^"\\]|\\.)*)"\]`)

// Parse reads one PGN game from text
func Parse(text string) (*Game, error) {
	g := &Game{Tags: make(map[string]string)}

	lines := strings.Split(text, "\n")
	i := 0
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		m := tagPairRE.FindStringSubmatch(line)
		if m == nil {
			break
		}
		g.Tags[m[1]] = unescapeTagValue(m[2])
	}

	g.Moves = sanTokens(strings.Join(lines[i:], "\n"))

	if len(g.Tags) == 0 && len(g.Moves) == 0 {
		return nil, ErrNoGame
	}
	return g, nil
}

func unescapeTagValue(v string) string {
	v = strings.ReplaceAll(v, `\"`, `"`)
	return strings.ReplaceAll(v, `\\`, `\`)
}

// sanTokens extracts SAN move tokens from movetext, dropping brace and
// semicolon comments, parenthesized variations, NAGs, move numbers and the
// trailing result token.
func sanTokens(movetext string) []string {
	var moves []string
	var b strings.Builder
	depth := 0
	inComment := false
	lineComment := false

	flush := func() {
		if b.Len() == 0 {
			return
		}
		tok := b.String()
		b.Reset()
		if move, ok := sanitizeToken(tok); ok {
			moves = append(moves, move)
		}
	}

	for _, r := range movetext {
		switch {
		case lineComment:
			if r == '\n' {
				lineComment = false
			}
		case inComment:
			if r == '}' {
				inComment = false
			}
		case r == '{':
			flush()
			inComment = true
		case r == ';':
			flush()
			lineComment = true
		case r == '(':
			flush()
			depth++
		case r == ')':
			flush()
			if depth > 0 {
				depth--
			}
		case unicode.IsSpace(r):
			flush()
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	flush()

	return moves
}

// sanitizeToken filters out non-move tokens and strips a move number glued
// to its move ("1.e4" and "3...Nf6" both yield the bare SAN)
func sanitizeToken(tok string) (string, bool) {
	switch tok {
	case "1-0", "0-1", "1/2-1/2", "*":
		return "", false
	}
	if strings.HasPrefix(tok, "$") {
		return "", false
	}
	// Zero-style castling survives the digit check below
	if strings.HasPrefix(tok, "0-0") {
		return tok, true
	}

	digits := 0
	for digits < len(tok) && tok[digits] >= '0' && tok[digits] <= '9' {
		digits++
	}
	if digits == len(tok) {
		// Bare move number
		return "", false
	}
	if digits > 0 && tok[digits] == '.' {
		// Glued move number: strip digits and dots
		rest := strings.TrimLeft(tok[digits:], ".")
		if rest == "" {
			return "", false
		}
		return rest, true
	}
	if digits > 0 {
		// Starts with a digit but is not a move number (corrupt token)
		return "", false
	}
	if tok == "." || tok == "..." {
		return "", false
	}
	return tok, true
}
