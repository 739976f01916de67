package langdef

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const validDef = `
format = "MINNOW"
notation = "bnf"
parser = "ll1"
ignore = [" "]
delimiters = ["[^A-Za-z0-9_.]"]
grammar = [
	"<E> ::= <T> <E1>",
	"<E1> ::= + <T> <E1> |",
	"<T> ::= id",
]

[[token]]
class = "id"
pattern = "[A-Za-z_][A-Za-z0-9_]*"

[[token]]
class = "+"
pattern = '\+'
`

func Test_Decode(t *testing.T) {
	assert := assert.New(t)

	lang, err := Decode([]byte(validDef))
	assert.NoError(err)

	assert.Equal(NotationBNF, lang.Notation)
	assert.Equal(ParserLL1, lang.Parser)
	assert.Len(lang.Tokens, 2)
	assert.Equal("id", lang.Tokens[0].Class)
	assert.Equal([]rune{' '}, lang.Ignore)
	assert.Equal([]string{"[^A-Za-z0-9_.]"}, lang.Delimiters)
	assert.Len(lang.Grammar, 3)
}

func Test_Decode_Defaults(t *testing.T) {
	assert := assert.New(t)

	lang, err := Decode([]byte(`
format = "MINNOW"
grammar = ["<S> ::= x"]

[[token]]
class = "x"
pattern = "x"
`))
	assert.NoError(err)
	assert.Equal(NotationBNF, lang.Notation)
	assert.Equal(ParserLL1, lang.Parser)
}

func Test_Decode_Errors(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{
			name: "missing format",
			data: `grammar = ["<S> ::= x"]` + "\n[[token]]\nclass = \"x\"\npattern = \"x\"",
		},
		{
			name: "bad notation",
			data: "format = \"MINNOW\"\nnotation = \"ebnf\"\ngrammar = [\"<S> ::= x\"]\n[[token]]\nclass = \"x\"\npattern = \"x\"",
		},
		{
			name: "bad parser",
			data: "format = \"MINNOW\"\nparser = \"lalr\"\ngrammar = [\"<S> ::= x\"]\n[[token]]\nclass = \"x\"\npattern = \"x\"",
		},
		{
			name: "no tokens",
			data: "format = \"MINNOW\"\ngrammar = [\"<S> ::= x\"]",
		},
		{
			name: "duplicate token class",
			data: "format = \"MINNOW\"\ngrammar = [\"<S> ::= x\"]\n[[token]]\nclass = \"x\"\npattern = \"x\"\n[[token]]\nclass = \"x\"\npattern = \"y\"",
		},
		{
			name: "token with no pattern",
			data: "format = \"MINNOW\"\ngrammar = [\"<S> ::= x\"]\n[[token]]\nclass = \"x\"",
		},
		{
			name: "multi-char ignore",
			data: "format = \"MINNOW\"\nignore = [\"ab\"]\ngrammar = [\"<S> ::= x\"]\n[[token]]\nclass = \"x\"\npattern = \"x\"",
		},
		{
			name: "no grammar",
			data: "format = \"MINNOW\"\n[[token]]\nclass = \"x\"\npattern = \"x\"",
		},
		{
			name: "not toml",
			data: "{!!!",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := Decode([]byte(tc.data))
			assert.Error(err)
		})
	}
}
