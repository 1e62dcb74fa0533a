package csharp

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/visitgen/internal/errors"
	"github.com/toyz/visitgen/internal/models"
)

// attributeSection is one bracketed attribute list, e.g.
// [Serializable, Visitable("ShapeVisitor")] or [assembly: InternalsVisibleTo("x")].
type attributeSection struct {
	Target     string       `parser:"'[' ( @Ident ':' )?"`
	Attributes []*attribute `parser:"@@ ( ',' @@ )* ','? ']'"`
}

type attribute struct {
	Pos  lexer.Position
	Name *qualifiedName  `parser:"@@"`
	Args []*attributeArg `parser:"( '(' ( @@ ( ',' @@ )* )? ')' )?"`
}

type attributeArg struct {
	Name  string     `parser:"( @Ident ( '=' | ':' ) )?"`
	Terms []*argTerm `parser:"@@+"`
}

type argTerm struct {
	String *string   `parser:"  @String"`
	Group  *argGroup `parser:"| '(' @@ ')'"`
	Token  *string   `parser:"| @!( ',' | ')' | '(' )"`
}

type argGroup struct {
	Terms []*argTerm `parser:"@@*"`
}

// usingDirective covers `using N;`, `using static T;`, `using A = T;` and
// their `global` forms.
type usingDirective struct {
	Global bool           `parser:"@'global'? 'using'"`
	Static bool           `parser:"@'static'?"`
	Alias  string         `parser:"( @Ident '=' )?"`
	Target *qualifiedName `parser:"@@ ';'"`
}

type qualifiedName struct {
	Global bool         `parser:"( @'global' '::' )?"`
	Parts  []string     `parser:"@Ident ( ( '.' | '::' ) @Ident )*"`
	Args   *typeArgList `parser:"@@?"`
}

type typeArgList struct {
	Items []*typeArgItem `parser:"'<' @@* '>'"`
}

type typeArgItem struct {
	Nested *typeArgList `parser:"  @@"`
	Token  string       `parser:"| @!( '<' | '>' | ';' | ']' )"`
}

var (
	attributeParser = participle.MustBuild[attributeSection](
		participle.Lexer(Lexer),
		participle.UseLookahead(2),
	)
	usingParser = participle.MustBuild[usingDirective](
		participle.Lexer(Lexer),
		participle.UseLookahead(2),
	)
)

// tokenStream replays already lexed tokens so a participle grammar can run
// over a slice of the file without lexing it again.
type tokenStream struct {
	tokens []lexer.Token
	next   int
}

func (s *tokenStream) Next() (lexer.Token, error) {
	if s.next >= len(s.tokens) {
		var pos lexer.Position
		if len(s.tokens) > 0 {
			pos = s.tokens[len(s.tokens)-1].Pos
		}
		return lexer.EOFToken(pos), nil
	}
	t := s.tokens[s.next]
	s.next++
	return t, nil
}

func parseTokens[G any](p *participle.Parser[G], tokens []lexer.Token) (*G, error) {
	peek, err := lexer.Upgrade(&tokenStream{tokens: tokens})
	if err != nil {
		return nil, err
	}
	return p.ParseFromLexer(peek)
}

func (q *qualifiedName) dotted() string {
	return strings.Join(trimVerbatim(q.Parts), ".")
}

func (d *usingDirective) model() models.Using {
	return models.Using{
		Alias:  strings.TrimPrefix(d.Alias, "@"),
		Target: d.Target.dotted(),
		Static: d.Static,
		Global: d.Global,
	}
}

func (a *attribute) model() models.Attribute {
	out := models.Attribute{
		Name: a.Name.dotted(),
		Location: errors.SourceLocation{
			File:   a.Pos.Filename,
			Line:   a.Pos.Line,
			Column: a.Pos.Column,
		},
	}
	for _, arg := range a.Args {
		out.Args = append(out.Args, arg.model())
	}
	return out
}

func (a *attributeArg) model() models.AttributeArg {
	out := models.AttributeArg{Name: strings.TrimPrefix(a.Name, "@")}
	if len(a.Terms) == 1 && a.Terms[0].String != nil {
		if v, ok := unquote(*a.Terms[0].String); ok {
			out.Value = v
			out.IsString = true
			return out
		}
	}
	out.Value = termsText(a.Terms)
	return out
}

func termsText(terms []*argTerm) string {
	var b strings.Builder
	for _, t := range terms {
		switch {
		case t.String != nil:
			b.WriteString(*t.String)
		case t.Group != nil:
			b.WriteString("(")
			b.WriteString(termsText(t.Group.Terms))
			b.WriteString(")")
		case t.Token != nil:
			b.WriteString(*t.Token)
		}
	}
	return b.String()
}

// unquote decodes a regular, verbatim or raw C# string literal.
// Interpolated strings are not constant and are rejected.
func unquote(lit string) (string, bool) {
	switch {
	case strings.HasPrefix(lit, `"""`):
		return unquoteRaw(lit), true
	case strings.HasPrefix(lit, `@"`) && len(lit) >= 3:
		return strings.ReplaceAll(lit[2:len(lit)-1], `""`, `"`), true
	case strings.HasPrefix(lit, `"`) && len(lit) >= 2:
		if v, err := strconv.Unquote(strings.ReplaceAll(lit, `\'`, `'`)); err == nil {
			return v, true
		}
		return lit[1 : len(lit)-1], true
	default:
		return "", false
	}
}

// unquoteRaw returns the content of a raw string literal. Multi-line
// literals drop the delimiter lines and the indentation of the closing
// delimiter.
func unquoteRaw(lit string) string {
	n := len(lit) - len(strings.TrimLeft(lit, `"`))
	if len(lit) < 2*n {
		return ""
	}
	content := lit[n : len(lit)-n]
	if !strings.Contains(content, "\n") {
		return content
	}

	lines := strings.Split(content, "\n")
	last := lines[len(lines)-1]
	lines = lines[1 : len(lines)-1]
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(strings.TrimSuffix(line, "\r"), last)
	}
	return strings.Join(lines, "\n")
}

func trimVerbatim(parts []string) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimPrefix(p, "@")
	}
	return out
}
