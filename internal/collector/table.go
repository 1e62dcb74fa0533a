package collector

import (
	"slices"
	"strings"

	"github.com/toyz/visitgen/internal/errors"
	"github.com/toyz/visitgen/internal/models"
)

// typeEntry is one type of the compilation with its partial declarations
// merged.
type typeEntry struct {
	key   string
	name  string
	qn    string
	arity int
	kind  models.TypeKind
	parts []*models.TypeDecl

	visitable   bool
	visitorName string
	bases       []*typeEntry
}

func (e *typeEntry) first() *models.TypeDecl {
	return e.parts[0]
}

func (e *typeEntry) location() errors.SourceLocation {
	return e.first().Location
}

func (e *typeEntry) isInterface() bool {
	return e.kind == models.KindInterface
}

func (e *typeEntry) isClass() bool {
	return e.kind == models.KindClass || e.kind == models.KindRecord
}

func (e *typeEntry) modifiers() []string {
	var mods []string
	for _, p := range e.parts {
		for _, m := range p.Modifiers {
			if !slices.Contains(mods, m) {
				mods = append(mods, m)
			}
		}
	}
	return mods
}

func (e *typeEntry) attributes() []models.Attribute {
	var attrs []models.Attribute
	for _, p := range e.parts {
		attrs = append(attrs, p.Attributes...)
	}
	return attrs
}

// symbolTable indexes every declared type by qualified name and arity.
type symbolTable struct {
	entries      map[string]*typeEntry
	order        []*typeEntry
	globalUsings []models.Using
}

func newSymbolTable(files []*models.SourceFile) *symbolTable {
	t := &symbolTable{entries: make(map[string]*typeEntry)}
	for _, f := range files {
		if f == nil {
			continue
		}
		t.globalUsings = append(t.globalUsings, f.GlobalUsings...)
		for i := range f.Types {
			t.add(&f.Types[i])
		}
	}
	for _, e := range t.order {
		t.resolveBases(e)
	}
	return t
}

func (t *symbolTable) add(decl *models.TypeDecl) {
	if decl.Name == "" {
		return
	}
	key := decl.Key()
	if e, ok := t.entries[key]; ok {
		// A later part with a different keyword is not a partial of this type.
		if e.kind == decl.Kind {
			e.parts = append(e.parts, decl)
		}
		return
	}
	e := &typeEntry{
		key:   key,
		name:  decl.Name,
		qn:    decl.QualifiedName(),
		arity: decl.Arity,
		kind:  decl.Kind,
		parts: []*models.TypeDecl{decl},
	}
	t.entries[key] = e
	t.order = append(t.order, e)
}

func (t *symbolTable) lookup(qn string, arity int) *typeEntry {
	return t.entries[models.TypeKey(qn, arity)]
}

func (t *symbolTable) resolveBases(e *typeEntry) {
	for _, part := range e.parts {
		for _, ref := range part.Bases {
			base := t.resolve(ref, part)
			if base == nil || base == e || slices.Contains(e.bases, base) {
				continue
			}
			e.bases = append(e.bases, base)
		}
	}
}

// resolve finds the type a base-list reference names from the point of view
// of decl. Unresolved references name types outside the scanned sources.
func (t *symbolTable) resolve(ref models.TypeRef, decl *models.TypeDecl) *typeEntry {
	if ref.Name == "" {
		return nil
	}
	if ref.Global {
		return t.lookup(ref.Name, ref.Arity)
	}

	chain := append(slices.Clone(decl.Containing), decl.Name)
	for i := len(chain); i > 0; i-- {
		scope := strings.Join(chain[:i], ".")
		if e := t.lookup(decl.Namespace.Qualify(scope+"."+ref.Name), ref.Arity); e != nil {
			return e
		}
	}

	for ns := decl.Namespace; ; ns = parentNamespace(ns) {
		if e := t.lookup(ns.Qualify(ref.Name), ref.Arity); e != nil {
			return e
		}
		if ns.IsGlobal() {
			break
		}
	}

	usings := append(slices.Clone(decl.Usings), t.globalUsings...)

	head, rest, dotted := strings.Cut(ref.Name, ".")
	for _, u := range usings {
		if u.Alias != head {
			continue
		}
		if !dotted {
			if e := t.lookup(u.Target, ref.Arity); e != nil {
				return e
			}
			return t.lookup(u.Target, 0)
		}
		return t.lookup(u.Target+"."+rest, ref.Arity)
	}

	for _, u := range usings {
		if u.Alias != "" {
			continue
		}
		if e := t.lookup(u.Target+"."+ref.Name, ref.Arity); e != nil {
			return e
		}
	}
	return nil
}

func parentNamespace(ns models.Namespace) models.Namespace {
	if i := strings.LastIndex(string(ns), "."); i >= 0 {
		return ns[:i]
	}
	return ""
}
