package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/minnow/grammar"
	"github.com/dekarrin/minnow/lex"
)

func buildExpressionGrammar(t *testing.T) *grammar.CFG {
	t.Helper()

	c := grammar.NewBNF()
	err := c.AddAll(
		"<E> ::= <T> <E1>",
		"<E1> ::= + <T> <E1> |",
		"<T> ::= <F> <T1>",
		"<T1> ::= * <F> <T1> |",
		"<F> ::= ( <E> ) | id",
	)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func tokens(types ...string) []lex.Token {
	toks := make([]lex.Token, len(types))
	for i, typ := range types {
		toks[i] = lex.Token{Type: typ, Content: typ}
	}
	return toks
}

func Test_LL1_CanParse(t *testing.T) {
	assert := assert.New(t)

	ll1 := NewLL1(buildExpressionGrammar(t))
	assert.True(ll1.CanParse())

	// a left-recursive grammar is not LL(1)
	leftRec := grammar.NewBNF()
	assert.NoError(leftRec.AddLine("<E> ::= <E> + id | id"))
	assert.False(NewLL1(leftRec).CanParse())

	// a factoring conflict is not LL(1) either
	unfactored := grammar.NewBNF()
	assert.NoError(unfactored.AddLine("<S> ::= a b | a c"))
	assert.False(NewLL1(unfactored).CanParse())
}

func Test_LL1_Parse(t *testing.T) {
	testCases := []struct {
		name        string
		input       []lex.Token
		expectOK    bool
		expectIndex int
	}{
		{
			name:     "simple expression",
			input:    tokens("id", "+", "id", "*", "id"),
			expectOK: true,
		},
		{
			name:     "single operand",
			input:    tokens("id"),
			expectOK: true,
		},
		{
			name:     "parenthesized",
			input:    tokens("(", "id", "+", "id", ")", "*", "id"),
			expectOK: true,
		},
		{
			name:        "doubled operator",
			input:       tokens("id", "+", "+", "id", "*", "id"),
			expectOK:    false,
			expectIndex: 2,
		},
		{
			name:        "missing operand",
			input:       tokens("id", "+"),
			expectOK:    false,
			expectIndex: 2,
		},
		{
			name:        "leading operator",
			input:       tokens("*", "id"),
			expectOK:    false,
			expectIndex: 0,
		},
		{
			name:        "unbalanced parens",
			input:       tokens("(", "id"),
			expectOK:    false,
			expectIndex: 2,
		},
		{
			name:        "empty input",
			input:       tokens(),
			expectOK:    false,
			expectIndex: 0,
		},
	}

	ll1 := NewLL1(buildExpressionGrammar(t))

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			result := ll1.Parse(tc.input)

			assert.Equal(tc.expectOK, result.Accepted)
			if !tc.expectOK {
				assert.Equal(tc.expectIndex, result.ErrorIndex)
				assert.NotEmpty(result.ErrorMessage)
			}
		})
	}
}

func Test_LL1_ErrorMessageHighlightsToken(t *testing.T) {
	assert := assert.New(t)

	ll1 := NewLL1(buildExpressionGrammar(t))
	result := ll1.Parse(tokens("id", "+", "+", "id"))

	assert.False(result.Accepted)
	assert.Contains(result.ErrorMessage, "id \033[1;31m+\033[0m id")
}

func Test_LL1_TableString(t *testing.T) {
	assert := assert.New(t)

	ll1 := NewLL1(buildExpressionGrammar(t))
	rendered := ll1.TableString()

	assert.Contains(rendered, "<E>")
	assert.Contains(rendered, "id")
	assert.Contains(rendered, EndOfSentence)
}

func Test_LL1_TableRoundTrip(t *testing.T) {
	assert := assert.New(t)

	cfg := buildExpressionGrammar(t)
	ll1 := NewLL1(cfg)

	data, err := ll1.MarshalBinary()
	assert.NoError(err)

	loaded, err := LoadLL1(cfg, data)
	assert.NoError(err)
	assert.True(loaded.CanParse())

	assert.True(loaded.Parse(tokens("id", "+", "id", "*", "id")).Accepted)
	result := loaded.Parse(tokens("id", "+", "+", "id"))
	assert.False(result.Accepted)
	assert.Equal(2, result.ErrorIndex)
}
