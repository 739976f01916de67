// Package lex tokenizes raw character input using a configurable set of
// regex-recognized token classes.
//
// The scan is longest-match: at each position every registered pattern is fed
// characters until all of them have aborted, and the class whose last match
// reached furthest wins. Ties go to the class registered first. Ignored
// characters are consumed without being emitted; delimiter patterns force a
// token boundary.
package lex

import (
	"errors"
	"fmt"

	"github.com/dekarrin/minnow/regex"

	"github.com/dekarrin/minnow/internal/util"
)

// Token is one lexed token: the class it was recognized as and its content
// with ignored characters stripped.
type Token struct {
	Type    string
	Content string
}

func (t Token) String() string {
	return fmt.Sprintf("(%s, %q)", t.Type, t.Content)
}

// Lexer recognizes tokens in input strings. Configure it with AddToken,
// Ignore and AddDelimiter, then call Read. The zero value is not ready to
// use; create one with New.
type Lexer struct {
	tokenTypes map[string]*regex.Regex

	// registration order of token classes; breaks ties between equally long
	// matches so tokenization is deterministic
	order []string

	blacklist  util.KeySet[rune]
	delimiters []*regex.Regex

	lexErr error
}

// New creates an empty Lexer.
func New() *Lexer {
	return &Lexer{
		tokenTypes: map[string]*regex.Regex{},
		blacklist:  util.NewKeySet[rune](),
	}
}

// AddToken registers a token class recognized by the given pattern. Returns
// an error if the pattern does not compile. Re-registering a class replaces
// its pattern but keeps its original priority.
func (lx *Lexer) AddToken(tokenType string, pattern string) error {
	r, err := regex.Compile(pattern)
	if err != nil {
		return fmt.Errorf("token %q: %w", tokenType, err)
	}

	if _, ok := lx.tokenTypes[tokenType]; !ok {
		lx.order = append(lx.order, tokenType)
	}
	lx.tokenTypes[tokenType] = r
	return nil
}

// RemoveToken unregisters a token class. Removing a class that was never
// added is a no-op.
func (lx *Lexer) RemoveToken(tokenType string) {
	if _, ok := lx.tokenTypes[tokenType]; !ok {
		return
	}
	delete(lx.tokenTypes, tokenType)
	for i := range lx.order {
		if lx.order[i] == tokenType {
			lx.order = append(lx.order[:i], lx.order[i+1:]...)
			break
		}
	}
}

// Ignore adds a character to the blacklist. Blacklisted characters are
// consumed but never emitted, and are stripped from token content.
func (lx *Lexer) Ignore(c rune) {
	lx.blacklist.Add(c)
}

// AddDelimiter registers a pattern that forces a token boundary: while
// scanning a token, a character matching a delimiter ends the token before
// it. Returns an error if the pattern does not compile.
func (lx *Lexer) AddDelimiter(pattern string) error {
	r, err := regex.Compile(pattern)
	if err != nil {
		return fmt.Errorf("delimiter: %w", err)
	}
	lx.delimiters = append(lx.delimiters, r)
	return nil
}

// Accepts returns whether the last Read tokenized its entire input.
func (lx *Lexer) Accepts() bool {
	return lx.lexErr == nil
}

// Err returns the error from the last Read, or nil if it succeeded.
func (lx *Lexer) Err() error {
	return lx.lexErr
}

// Read tokenizes the input. On failure it returns the tokens recognized
// before the failure point; Accepts and Err expose the failure.
func (lx *Lexer) Read(input string) []Token {
	lx.lexErr = nil

	runes := []rune(input)
	tokens := []Token{}

	i := 0
	for i < len(runes) {
		next, tok, err := lx.readNext(i, runes)
		if err != nil {
			lx.lexErr = err
			return tokens
		}

		if tok.Type != "" {
			tokens = append(tokens, tok)
		}
		i = next
	}

	return tokens
}

// readNext scans one token starting at position start. It returns the
// position the next scan should start from and the recognized token; a token
// with an empty Type means only ignored characters remained.
func (lx *Lexer) readNext(start int, input []rune) (int, Token, error) {
	notAborted := util.NewStringSet()
	for _, tokenType := range lx.order {
		notAborted.Add(tokenType)
		lx.tokenTypes[tokenType].Reset()
	}

	// for each class, the input position of its furthest full match so far
	lastMatch := map[string]int{}

	foundRelevantSymbol := false

	i := start
	for i < len(input) {
		c := input[i]

		if foundRelevantSymbol {
			for _, delim := range lx.delimiters {
				delim.Reset()
				delim.Read(c)
				if delim.Matches() {
					return lx.pick(start, i, input, lastMatch, foundRelevantSymbol)
				}
			}
		}

		if lx.blacklist.Has(c) {
			if !foundRelevantSymbol {
				i++
				continue
			}
			return lx.pick(start, i, input, lastMatch, foundRelevantSymbol)
		}

		foundRelevantSymbol = true
		for _, tokenType := range lx.order {
			if !notAborted.Has(tokenType) {
				continue
			}
			recognizer := lx.tokenTypes[tokenType]
			recognizer.Read(c)
			if recognizer.Matches() {
				lastMatch[tokenType] = i
			}
			if recognizer.Aborted() {
				notAborted.Remove(tokenType)
			}
		}

		if notAborted.Len() == 0 {
			return lx.pick(start, i, input, lastMatch, foundRelevantSymbol)
		}
		i++
	}

	return lx.pick(start, len(input)-1, input, lastMatch, foundRelevantSymbol)
}

// pick selects the winning class: the one whose last full match reached the
// furthest input position, ties broken by registration order. The next scan
// resumes just past the winning match.
func (lx *Lexer) pick(start, current int, input []rune, lastMatch map[string]int, foundRelevantSymbol bool) (int, Token, error) {
	if !foundRelevantSymbol {
		// nothing but ignored characters; skip to end of input
		return len(input), Token{}, nil
	}

	matched := false
	var winner string
	var maxIndex int
	for _, tokenType := range lx.order {
		idx, ok := lastMatch[tokenType]
		if !ok {
			continue
		}
		if !matched || idx > maxIndex {
			matched = true
			winner = tokenType
			maxIndex = idx
		}
	}

	if !matched {
		return 0, Token{}, lx.unknownSymbolError(input, start, current)
	}

	content := ""
	for i := start; i <= maxIndex; i++ {
		if !lx.blacklist.Has(input[i]) {
			content += string(input[i])
		}
	}

	return maxIndex + 1, Token{Type: winner, Content: content}, nil
}

// unknownSymbolError builds the lex-failure error naming the offending text,
// with ignored characters stripped.
func (lx *Lexer) unknownSymbolError(input []rune, from, to int) error {
	buffer := ""
	for i := from; i <= to && i < len(input); i++ {
		if !lx.blacklist.Has(input[i]) {
			buffer += string(input[i])
		}
	}
	return errors.New("Unknown symbol '" + buffer + "'")
}
