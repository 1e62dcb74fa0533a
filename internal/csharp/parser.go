package csharp

import (
	"slices"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/visitgen/internal/errors"
	"github.com/toyz/visitgen/internal/models"
	"github.com/toyz/visitgen/pkg/codegen"
)

var modifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true, "file": true,
	"static": true, "abstract": true, "sealed": true, "partial": true, "readonly": true,
	"unsafe": true, "new": true, "virtual": true, "override": true, "extern": true,
	"async": true, "volatile": true, "required": true, "ref": true, "const": true,
	"fixed": true, "scoped": true,
}

var typeKeywords = map[string]models.TypeKind{
	"class":     models.KindClass,
	"interface": models.KindInterface,
	"struct":    models.KindStruct,
	"enum":      models.KindEnum,
	"record":    models.KindRecord,
}

// Parser extracts declarations from C# source files
type Parser struct{}

// NewParser creates a new C# declaration parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseSource parses src as the contents of path. Files produced by the
// generator itself yield no declarations.
func (p *Parser) ParseSource(path, src string) (*models.SourceFile, error) {
	file := &models.SourceFile{Path: path}
	if IsGenerated(src) {
		return file, nil
	}

	tokens, err := Tokenize(path, src)
	if err != nil {
		return nil, errors.WrapSyntaxError(path, errors.SourceLocation{File: path}, err)
	}

	s := &state{tokens: tokens, file: file}
	if err := s.parseDeclarations(&scope{}, false); err != nil {
		return nil, err
	}
	return file, nil
}

// IsGenerated reports whether src starts with the generated-code header
func IsGenerated(src string) bool {
	return strings.HasPrefix(strings.TrimPrefix(src, "\uFEFF"), codegen.Header)
}

type scope struct {
	namespace models.Namespace
	usings    []models.Using
}

type state struct {
	tokens []lexer.Token
	pos    int
	file   *models.SourceFile
}

func (s *state) peek() lexer.Token {
	return s.peekAt(0)
}

func (s *state) peekAt(n int) lexer.Token {
	if i := s.pos + n; i < len(s.tokens) {
		return s.tokens[i]
	}
	return s.tokens[len(s.tokens)-1]
}

func (s *state) next() lexer.Token {
	t := s.peek()
	if !t.EOF() {
		s.pos++
	}
	return t
}

func (s *state) is(value string) bool {
	t := s.peek()
	return !t.EOF() && t.Value == value
}

func (s *state) errorf(t lexer.Token, format string, args ...interface{}) error {
	return errors.Newf(errors.SyntaxErrorCode, format, args...).WithLocation(location(t))
}

func location(t lexer.Token) errors.SourceLocation {
	return errors.SourceLocation{File: t.Pos.Filename, Line: t.Pos.Line, Column: t.Pos.Column}
}

// parseDeclarations parses namespace members until EOF, or until the closing
// brace of the namespace body when braced is set.
func (s *state) parseDeclarations(sc *scope, braced bool) error {
	for {
		t := s.peek()
		switch {
		case t.EOF():
			if braced {
				return s.errorf(t, "unexpected end of file, expected '}'")
			}
			return nil
		case s.is("}"):
			if !braced {
				return s.errorf(t, "unexpected '}'")
			}
			s.next()
			return nil
		case s.is(";"):
			s.next()
		case s.is("extern") && s.peekAt(1).Value == "alias":
			s.skipPast(";")
		case s.is("using"), s.is("global") && s.peekAt(1).Value == "using":
			if err := s.parseUsing(sc); err != nil {
				return err
			}
		case s.is("namespace"):
			if err := s.parseNamespace(sc); err != nil {
				return err
			}
		default:
			if err := s.parseMember(sc, nil); err != nil {
				return err
			}
		}
	}
}

func (s *state) parseUsing(sc *scope) error {
	start := s.pos
	end := s.find(";")
	if end < 0 {
		return s.errorf(s.tokens[start], "unterminated using directive")
	}
	s.pos = end + 1

	d, err := parseTokens(usingParser, s.tokens[start:end+1])
	if err != nil {
		// Forms the grammar does not cover, such as aliases to tuple types,
		// cannot influence base-list resolution.
		return nil
	}
	u := d.model()
	if u.Global {
		s.file.GlobalUsings = append(s.file.GlobalUsings, u)
	} else {
		sc.usings = append(sc.usings, u)
	}
	return nil
}

func (s *state) parseNamespace(sc *scope) error {
	s.next()
	name, err := s.parseDottedName()
	if err != nil {
		return err
	}
	ns := models.Namespace(sc.namespace.Qualify(name))

	switch {
	case s.is(";"):
		// file-scoped: the rest of the file belongs to the namespace
		s.next()
		sc.namespace = ns
		return nil
	case s.is("{"):
		s.next()
		child := &scope{namespace: ns, usings: slices.Clone(sc.usings)}
		return s.parseDeclarations(child, true)
	default:
		return s.errorf(s.peek(), "expected '{' or ';' after namespace %s", name)
	}
}

func (s *state) parseDottedName() (string, error) {
	var parts []string
	for {
		t := s.peek()
		if !isIdent(t) {
			return "", s.errorf(t, "expected identifier, found %q", t.Value)
		}
		s.next()
		parts = append(parts, identName(t))
		if !s.is(".") {
			return strings.Join(parts, "."), nil
		}
		s.next()
	}
}

// parseMember parses one member of a namespace or type body. Type
// declarations are recorded; every other member is skipped.
func (s *state) parseMember(sc *scope, containing []string) error {
	var attrs []models.Attribute
	for s.is("[") {
		target, section := s.parseAttributeSection()
		if target == "assembly" || target == "module" {
			return nil
		}
		attrs = append(attrs, section...)
	}

	var mods []string
	for t := s.peek(); isIdent(t) && modifiers[t.Value]; t = s.peek() {
		mods = append(mods, s.next().Value)
	}

	kind, ok := s.typeKeyword()
	if !ok {
		s.skipMember()
		return nil
	}
	return s.parseTypeDecl(sc, containing, attrs, mods, kind)
}

func (s *state) parseAttributeSection() (string, []models.Attribute) {
	start := s.pos
	end := s.matching(start, "[", "]")
	if end < 0 {
		s.pos = len(s.tokens) - 1
		return "", nil
	}
	s.pos = end + 1

	section, err := parseTokens(attributeParser, s.tokens[start:end+1])
	if err != nil {
		// An attribute we cannot read carries no visitable marker.
		return "", nil
	}
	attrs := make([]models.Attribute, 0, len(section.Attributes))
	for _, a := range section.Attributes {
		attrs = append(attrs, a.model())
	}
	return section.Target, attrs
}

// typeKeyword consumes a type declaration keyword followed by a name.
func (s *state) typeKeyword() (models.TypeKind, bool) {
	t := s.peek()
	kind, ok := typeKeywords[t.Value]
	if !ok || !isIdent(t) {
		return 0, false
	}
	if kind == models.KindRecord {
		switch s.peekAt(1).Value {
		case "class":
			s.next()
		case "struct":
			s.next()
			kind = models.KindRecordStruct
		}
	}
	if !isIdent(s.peekAt(1)) {
		return 0, false
	}
	s.next()
	return kind, true
}

func (s *state) parseTypeDecl(sc *scope, containing []string, attrs []models.Attribute, mods []string, kind models.TypeKind) error {
	nameTok := s.next()
	decl := models.TypeDecl{
		Name:       identName(nameTok),
		Kind:       kind,
		Modifiers:  mods,
		Attributes: attrs,
		Namespace:  sc.namespace,
		Usings:     slices.Clone(sc.usings),
		Containing: slices.Clone(containing),
		Location:   location(nameTok),
	}

	if s.is("<") {
		decl.Arity = s.skipTypeArguments()
	}
	if s.is("(") {
		s.skipBalanced("(", ")")
	}
	if s.is(":") {
		s.next()
		bases, err := s.parseBaseList()
		if err != nil {
			return err
		}
		decl.Bases = bases
	}
	for s.is("where") {
		s.skipConstraint()
	}

	s.file.Types = append(s.file.Types, decl)

	switch {
	case s.is("{"):
		if kind == models.KindEnum {
			s.skipBalanced("{", "}")
		} else if err := s.parseTypeBody(sc, append(slices.Clone(containing), decl.Name)); err != nil {
			return err
		}
		if s.is(";") {
			s.next()
		}
		return nil
	case s.is(";"):
		s.next()
		return nil
	default:
		return s.errorf(s.peek(), "expected '{' or ';' after declaration of %s", decl.Name)
	}
}

func (s *state) parseTypeBody(sc *scope, containing []string) error {
	open := s.next()
	for {
		switch {
		case s.peek().EOF():
			return s.errorf(open, "unterminated body of %s", strings.Join(containing, "."))
		case s.is("}"):
			s.next()
			return nil
		case s.is(";"):
			s.next()
		default:
			if err := s.parseMember(sc, containing); err != nil {
				return err
			}
		}
	}
}

func (s *state) parseBaseList() ([]models.TypeRef, error) {
	var bases []models.TypeRef
	for {
		ref, err := s.parseTypeRef()
		if err != nil {
			return nil, err
		}
		bases = append(bases, ref)
		if s.is("(") {
			// record base constructor arguments
			s.skipBalanced("(", ")")
		}
		if !s.is(",") {
			return bases, nil
		}
		s.next()
	}
}

func (s *state) parseTypeRef() (models.TypeRef, error) {
	ref := models.TypeRef{Location: location(s.peek())}
	if s.is("global") && s.peekAt(1).Value == "::" {
		s.next()
		s.next()
		ref.Global = true
	}

	var parts []string
	for {
		t := s.peek()
		if !isIdent(t) {
			return ref, s.errorf(t, "expected type name, found %q", t.Value)
		}
		s.next()
		parts = append(parts, identName(t))
		ref.Arity = 0
		if s.is("<") {
			ref.Arity = s.skipTypeArguments()
		}
		if !s.is(".") && !s.is("::") {
			break
		}
		s.next()
	}
	for s.is("?") || s.is("[") {
		if s.is("[") {
			s.skipBalanced("[", "]")
		} else {
			s.next()
		}
	}

	ref.Name = strings.Join(parts, ".")
	return ref, nil
}

// skipTypeArguments consumes a <...> list and returns how many arguments it
// holds.
func (s *state) skipTypeArguments() int {
	angle, paren, commas := 0, 0, 0
	for {
		t := s.peek()
		if t.EOF() {
			return commas + 1
		}
		switch t.Value {
		case "<":
			angle++
		case ">":
			angle--
			if angle == 0 {
				s.next()
				return commas + 1
			}
		case "(", "[":
			paren++
		case ")", "]":
			paren--
		case ",":
			if angle == 1 && paren == 0 {
				commas++
			}
		case "{", ";":
			// unterminated list; leave the body to the caller
			return commas + 1
		}
		s.next()
	}
}

func (s *state) skipConstraint() {
	s.next()
	depth := 0
	for {
		t := s.peek()
		if t.EOF() {
			return
		}
		switch t.Value {
		case "(":
			depth++
		case ")":
			depth--
		case "{", ";", "where", "=>":
			if depth == 0 {
				return
			}
		}
		s.next()
	}
}

// skipMember advances past one member that is not a type declaration. A
// member ends at a top-level semicolon, or after a top-level block that is
// not followed by an initializer or a continuation of an expression.
func (s *state) skipMember() {
	depth := 0
	for {
		t := s.peek()
		if t.EOF() {
			return
		}
		switch t.Value {
		case "(", "[":
			depth++
		case ")", "]":
			if depth > 0 {
				depth--
			}
		case ";":
			if depth == 0 {
				s.next()
				return
			}
		case "}":
			if depth == 0 {
				return
			}
		case "{":
			s.skipBalanced("{", "}")
			if depth == 0 && s.endsAfterBlock() {
				return
			}
			continue
		}
		s.next()
	}
}

func (s *state) endsAfterBlock() bool {
	t := s.peek()
	switch {
	case t.EOF(), t.Value == "}", t.Value == "[", isIdent(t):
		return true
	case t.Value == ";":
		s.next()
		return true
	}
	return false
}

// skipBalanced consumes tokens from the current open token through its
// matching close token.
func (s *state) skipBalanced(open, close string) {
	depth := 0
	for {
		t := s.next()
		if t.EOF() {
			return
		}
		switch t.Value {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func (s *state) skipPast(value string) {
	for t := s.next(); !t.EOF() && t.Value != value; t = s.next() {
	}
}

// find returns the index of the next value token at bracket depth zero, or
// -1 if a brace or EOF comes first.
func (s *state) find(value string) int {
	depth := 0
	for i := s.pos; i < len(s.tokens); i++ {
		t := s.tokens[i]
		switch {
		case t.EOF(), t.Value == "{", t.Value == "}":
			return -1
		case t.Value == value && depth == 0:
			return i
		case t.Value == "(" || t.Value == "[":
			depth++
		case t.Value == ")" || t.Value == "]":
			depth--
		}
	}
	return -1
}

// matching returns the index of the token closing the open token at start.
func (s *state) matching(start int, open, close string) int {
	depth := 0
	for i := start; i < len(s.tokens); i++ {
		switch s.tokens[i].Value {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
		if s.tokens[i].EOF() {
			return -1
		}
	}
	return -1
}
