// Package langdef reads language-definition files: TOML documents binding a
// lexer configuration (token classes, ignored characters, delimiters) to a
// grammar and a parsing method. A definition file is everything a host needs
// to assemble a working front end.
package langdef

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// CurrentFormat is the value the format key of every definition file must
// have.
const CurrentFormat = "MINNOW"

// Notation selects how grammar lines are written.
type Notation string

const (
	NotationBNF      Notation = "bnf"
	NotationDidactic Notation = "didactic"
)

// ParserMethod selects which parser generator judges the input.
type ParserMethod string

const (
	ParserLL1  ParserMethod = "ll1"
	ParserSLR1 ParserMethod = "slr1"
)

// TokenSpec declares one token class and the pattern that recognizes it.
// Declaration order is the lexer priority order.
type TokenSpec struct {
	Class   string `toml:"class"`
	Pattern string `toml:"pattern"`
}

// Language is a complete, validated language definition.
type Language struct {
	Notation   Notation
	Parser     ParserMethod
	Tokens     []TokenSpec
	Ignore     []rune
	Delimiters []string
	Grammar    []string
}

// topLevelLanguage is the raw TOML shape of a definition file.
type topLevelLanguage struct {
	Format     string      `toml:"format"`
	Notation   string      `toml:"notation"`
	Parser     string      `toml:"parser"`
	Tokens     []TokenSpec `toml:"token"`
	Ignore     []string    `toml:"ignore"`
	Delimiters []string    `toml:"delimiters"`
	Grammar    []string    `toml:"grammar"`
}

// LoadFile reads and validates a language definition from the file at the
// given path.
func LoadFile(path string) (Language, error) {
	fileData, err := os.ReadFile(path)
	if err != nil {
		return Language{}, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	lang, err := Decode(fileData)
	if err != nil {
		return Language{}, fmt.Errorf("%q: %w", path, err)
	}
	return lang, nil
}

// Decode parses and validates a language definition from raw TOML data.
func Decode(data []byte) (Language, error) {
	var raw topLevelLanguage
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Language{}, fmt.Errorf("parsing TOML: %w", err)
	}

	if strings.ToUpper(raw.Format) != CurrentFormat {
		return Language{}, fmt.Errorf("file does not have a 'format = %q' entry", CurrentFormat)
	}

	lang := Language{
		Tokens:     raw.Tokens,
		Delimiters: raw.Delimiters,
		Grammar:    raw.Grammar,
	}

	switch strings.ToLower(raw.Notation) {
	case "", string(NotationBNF):
		lang.Notation = NotationBNF
	case string(NotationDidactic):
		lang.Notation = NotationDidactic
	default:
		return Language{}, fmt.Errorf("unknown notation %q; must be %q or %q", raw.Notation, NotationBNF, NotationDidactic)
	}

	switch strings.ToLower(raw.Parser) {
	case "", string(ParserLL1):
		lang.Parser = ParserLL1
	case string(ParserSLR1):
		lang.Parser = ParserSLR1
	default:
		return Language{}, fmt.Errorf("unknown parser %q; must be %q or %q", raw.Parser, ParserLL1, ParserSLR1)
	}

	if len(lang.Tokens) == 0 {
		return Language{}, fmt.Errorf("no token classes defined")
	}
	seenClasses := map[string]bool{}
	for _, tok := range lang.Tokens {
		if tok.Class == "" {
			return Language{}, fmt.Errorf("token class with empty name")
		}
		if tok.Pattern == "" {
			return Language{}, fmt.Errorf("token class %q has no pattern", tok.Class)
		}
		if seenClasses[tok.Class] {
			return Language{}, fmt.Errorf("token class %q defined twice", tok.Class)
		}
		seenClasses[tok.Class] = true
	}

	for _, ig := range raw.Ignore {
		runes := []rune(ig)
		if len(runes) != 1 {
			return Language{}, fmt.Errorf("ignore entry %q is not a single character", ig)
		}
		lang.Ignore = append(lang.Ignore, runes[0])
	}

	if len(lang.Grammar) == 0 {
		return Language{}, fmt.Errorf("no grammar lines defined")
	}

	return lang, nil
}
