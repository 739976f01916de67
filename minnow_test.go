package minnow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/minnow/internal/langdef"
)

func buildArithmeticLanguage() langdef.Language {
	return langdef.Language{
		Notation: langdef.NotationBNF,
		Parser:   langdef.ParserLL1,
		Tokens: []langdef.TokenSpec{
			{Class: "id", Pattern: `[0-9]+\.?[0-9]*|\.[0-9]+`},
			{Class: "+", Pattern: `\+`},
			{Class: "*", Pattern: `\*`},
			{Class: "(", Pattern: `\(`},
			{Class: ")", Pattern: `\)`},
		},
		Ignore: []rune{' '},
		Grammar: []string{
			"<E> ::= <T> <E1>",
			"<E1> ::= + <T> <E1> |",
			"<T> ::= <F> <T1>",
			"<T1> ::= * <F> <T1> |",
			"<F> ::= ( <E> ) | id",
		},
	}
}

func Test_Frontend_Analyze(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expectOK bool
	}{
		{name: "simple sum", input: "1 + 2", expectOK: true},
		{name: "precedence mix", input: "22 + 3.14 * 7", expectOK: true},
		{name: "parenthesized", input: "(1 + 2) * 3", expectOK: true},
		{name: "doubled operator", input: "1 + + 2", expectOK: false},
		{name: "dangling operator", input: "1 +", expectOK: false},
		{name: "unknown symbol", input: "1 + $", expectOK: false},
		{name: "empty", input: "", expectOK: false},
	}

	fe, err := New(buildArithmeticLanguage())
	if err != nil {
		t.Fatal(err)
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			result := fe.Analyze(tc.input)
			assert.Equal(tc.expectOK, result.Accepted)
			if !tc.expectOK {
				assert.NotEmpty(result.ErrorMessage)
			}
		})
	}
}

func Test_Frontend_SLR1(t *testing.T) {
	assert := assert.New(t)

	lang := langdef.Language{
		Notation: langdef.NotationBNF,
		Parser:   langdef.ParserSLR1,
		Tokens: []langdef.TokenSpec{
			{Class: "a", Pattern: "a"},
			{Class: "b", Pattern: "b"},
		},
		Ignore:  []rune{' '},
		Grammar: []string{"<S> ::= 'a' <S> 'b' | 'a' 'b'"},
	}

	fe, err := New(lang)
	assert.NoError(err)

	assert.True(fe.Analyze("aaabbb").Accepted)
	assert.False(fe.Analyze("aabbb").Accepted)
}

func Test_Frontend_BadDefinitions(t *testing.T) {
	assert := assert.New(t)

	// malformed token pattern
	bad := buildArithmeticLanguage()
	bad.Tokens[0].Pattern = "(unclosed"
	_, err := New(bad)
	assert.Error(err)

	// inconsistent grammar
	bad = buildArithmeticLanguage()
	bad.Grammar = []string{"<E> ::= <MISSING> id"}
	_, err = New(bad)
	assert.Error(err)

	// not LL(1)
	bad = buildArithmeticLanguage()
	bad.Grammar = []string{"<E> ::= <E> + id | id"}
	_, err = New(bad)
	assert.Error(err)
}
