// Package csharp extracts type declarations from C# source. It understands
// using directives, namespaces, attributes, modifiers, type headers and base
// lists; member bodies are skipped token by token.
package csharp

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes C# source. Rule order matters: the first matching rule
// wins, so comments and string literals are recognized before punctuation.
// Raw string literals are recognized for delimiters of up to five quotes.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?s:.*?)\*/`},
	{Name: "Preprocessor", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `\$*"{5}(?s:.*?)"{5}|\$*"{4}(?s:.*?)"{4}|\$*"{3}(?s:.*?)"{3}|(?:\$@|@\$|@)"(?:[^"]|"")*"|\$?"(?:\\.|[^"\\\n])*"`},
	{Name: "Char", Pattern: `'(?:\\.|[^'\\\n])+'`},
	{Name: "Number", Pattern: `[0-9](?:[0-9a-zA-Z_]|\.[0-9])*`},
	{Name: "Ident", Pattern: `@?[\p{L}_][\p{L}\p{N}_]*`},
	{Name: "Operator", Pattern: `=>|::|\?\?=?|\?\.|&&|\|\||<<=?|\+\+|--|[-+*/%&|^!=<]=`},
	{Name: "Punct", Pattern: `[{}()\[\];,.:<>?=+\-*/%&|^!~]`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Other", Pattern: `.`},
})

var (
	symbols    = Lexer.Symbols()
	identType  = symbols["Ident"]
	stringType = symbols["String"]
	elided     = map[lexer.TokenType]bool{
		symbols["Comment"]:      true,
		symbols["Preprocessor"]: true,
		symbols["Whitespace"]:   true,
	}
)

// Tokenize returns the significant tokens of src: comments, whitespace and
// preprocessor lines are dropped. The last token is always EOF.
func Tokenize(filename, src string) ([]lexer.Token, error) {
	lex, err := Lexer.LexString(filename, src)
	if err != nil {
		return nil, err
	}
	all, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}
	out := make([]lexer.Token, 0, len(all))
	for _, t := range all {
		if !elided[t.Type] {
			out = append(out, t)
		}
	}
	return out, nil
}

func isIdent(t lexer.Token) bool {
	return t.Type == identType
}

// identName strips the verbatim prefix from identifiers such as @class.
func identName(t lexer.Token) string {
	return strings.TrimPrefix(t.Value, "@")
}
