// Package collector resolves parsed declarations into the visitable symbol
// map: every interface marked [Visitable] and every class that must accept
// a visitor for it.
package collector

import (
	"regexp"
	"slices"
	"sort"

	"github.com/toyz/visitgen/internal/errors"
	"github.com/toyz/visitgen/internal/models"
	"github.com/toyz/visitgen/pkg/codegen"
)

// Attribute names that mark an interface as visitable, compared against the
// last segment of the attribute name.
const (
	VisitableAttribute     = "Visitable"
	VisitableAttributeLong = "VisitableAttribute"
)

// VisitorSuffix is appended to an interface name to name its visitor.
const VisitorSuffix = "Visitor"

var identifierPattern = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*$`)

// Reason explains why a declaration produced no artifacts
type Reason string

const (
	ReasonNoVisitable    Reason = "implements no visitable interface"
	ReasonCoveredByBase  Reason = "every visitable interface is already implemented by the base class"
	ReasonNested         Reason = "nested types are not supported"
	ReasonGeneric        Reason = "generic types are not supported"
	ReasonFileLocal      Reason = "file-local types are not visible to generated files"
	ReasonValueType      Reason = "structs cannot accept visitors by reference"
	ReasonInvalidVisitor Reason = "custom visitor name is not a valid identifier, using the default"
)

// Skipped records a declaration, or an attribute argument of one, that the
// collector ignored. It is informational, not an error.
type Skipped struct {
	Name     string
	Kind     models.TypeKind
	Reason   Reason
	Location errors.SourceLocation
}

// Result is the outcome of a collection pass
type Result struct {
	Symbols *models.SymbolMap
	Skipped []Skipped
}

// Collect builds the symbol map for a compilation made of files. Collection
// never fails: declarations that cannot be resolved are skipped.
func Collect(files []*models.SourceFile) *Result {
	c := &collector{
		table:   newSymbolTable(files),
		result:  &Result{Symbols: models.NewSymbolMap()},
		memo:    make(map[*typeEntry][]*typeEntry),
		pending: make(map[*typeEntry]bool),
	}
	c.markVisitable()
	c.registerInterfaces()
	c.registerClasses()
	return c.result
}

type collector struct {
	table   *symbolTable
	result  *Result
	memo    map[*typeEntry][]*typeEntry
	pending map[*typeEntry]bool
}

func (c *collector) skip(e *typeEntry, reason Reason) {
	c.result.Skipped = append(c.result.Skipped, Skipped{
		Name:     e.qn,
		Kind:     e.kind,
		Reason:   reason,
		Location: e.location(),
	})
}

// sorted returns the entries matching keep ordered by qualified name, then
// by arity.
func (c *collector) sorted(keep func(*typeEntry) bool) []*typeEntry {
	var out []*typeEntry
	for _, e := range c.table.order {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].qn != out[j].qn {
			return out[i].qn < out[j].qn
		}
		return out[i].arity < out[j].arity
	})
	return out
}

// markVisitable resolves the visitable capability of every interface once.
// Later stages only read the flag.
func (c *collector) markVisitable() {
	for _, e := range c.table.order {
		if !e.isInterface() {
			continue
		}
		for _, attr := range e.attributes() {
			if !isVisitableAttribute(attr) {
				continue
			}
			e.visitable = true
			e.visitorName = e.name + VisitorSuffix
			if name, ok := customVisitorName(attr); ok {
				if identifierPattern.MatchString(name) {
					e.visitorName = name
				} else {
					c.skip(e, ReasonInvalidVisitor)
				}
			}
			break
		}
	}
}

func isVisitableAttribute(attr models.Attribute) bool {
	switch attr.SimpleName() {
	case VisitableAttribute, VisitableAttributeLong:
		return true
	}
	return false
}

// customVisitorName reads [Visitable("Name")] or [Visitable(Name = "Name")].
func customVisitorName(attr models.Attribute) (string, bool) {
	for i, arg := range attr.Args {
		positional := i == 0 && arg.Name == ""
		if (positional || arg.Name == "Name") && arg.IsString && arg.Value != "" {
			return arg.Value, true
		}
	}
	return "", false
}

func (c *collector) registerInterfaces() {
	for _, e := range c.sorted(func(e *typeEntry) bool { return e.visitable }) {
		if reason, ok := unsupported(e); !ok {
			c.skip(e, reason)
			e.visitable = false
			continue
		}
		c.result.Symbols.AddInterface(models.VisitableInterface{
			Symbol:      c.symbol(e),
			VisitorName: e.visitorName,
		})
	}
}

func (c *collector) registerClasses() {
	candidates := c.sorted(func(e *typeEntry) bool {
		return e.isClass() || e.kind == models.KindStruct || e.kind == models.KindRecordStruct
	})
	for _, e := range candidates {
		own := c.visitableInterfaces(e)
		if len(own) == 0 {
			if e.isClass() {
				c.skip(e, ReasonNoVisitable)
			}
			continue
		}
		if !e.isClass() {
			c.skip(e, ReasonValueType)
			continue
		}
		if reason, ok := unsupported(e); !ok {
			c.skip(e, reason)
			continue
		}

		remaining := own
		if base := c.baseClass(e); base != nil {
			inherited := c.visitableInterfaces(base)
			remaining = slices.DeleteFunc(slices.Clone(own), func(qn string) bool {
				return slices.Contains(inherited, qn)
			})
		}
		if len(remaining) == 0 {
			c.skip(e, ReasonCoveredByBase)
			continue
		}
		c.result.Symbols.Register(c.symbol(e), remaining)
	}
}

func unsupported(e *typeEntry) (Reason, bool) {
	switch {
	case e.first().IsNested():
		return ReasonNested, false
	case e.arity > 0:
		return ReasonGeneric, false
	case slices.Contains(e.modifiers(), "file"):
		return ReasonFileLocal, false
	}
	return "", true
}

// baseClass returns the first base that resolves to a class.
func (c *collector) baseClass(e *typeEntry) *typeEntry {
	for _, b := range e.bases {
		if b.isClass() {
			return b
		}
	}
	return nil
}

// visitableInterfaces returns the qualified names of the registered
// visitable interfaces e implements, directly or through inheritance,
// sorted.
func (c *collector) visitableInterfaces(e *typeEntry) []string {
	var out []string
	for _, iface := range c.allInterfaces(e) {
		if iface.visitable && !slices.Contains(out, iface.qn) {
			out = append(out, iface.qn)
		}
	}
	sort.Strings(out)
	return out
}

// allInterfaces returns the transitive interface set of e. Cyclic base
// lists contribute each type once.
func (c *collector) allInterfaces(e *typeEntry) []*typeEntry {
	if set, ok := c.memo[e]; ok {
		return set
	}
	if c.pending[e] {
		return nil
	}
	c.pending[e] = true
	defer delete(c.pending, e)

	var set []*typeEntry
	add := func(t *typeEntry) {
		if !slices.Contains(set, t) {
			set = append(set, t)
		}
	}
	for _, b := range e.bases {
		if b.isInterface() {
			add(b)
		}
		for _, t := range c.allInterfaces(b) {
			add(t)
		}
	}
	c.memo[e] = set
	return set
}

func (c *collector) symbol(e *typeEntry) models.Symbol {
	return models.Symbol{
		Name:          e.name,
		QualifiedName: e.qn,
		Kind:          e.kind,
		Access:        accessOf(e.modifiers(), e.first().IsNested()),
		Namespace:     e.first().Namespace,
		Location:      e.location(),
	}
}

// accessOf maps declared modifiers to an accessibility. protected internal
// counts as Protected and private protected as Private.
func accessOf(mods []string, nested bool) codegen.AccessModifier {
	has := func(m string) bool { return slices.Contains(mods, m) }
	switch {
	case has("public"):
		return codegen.Public
	case has("protected") && has("private"):
		return codegen.Private
	case has("protected"):
		return codegen.Protected
	case has("internal"):
		return codegen.Internal
	case has("private"), has("file"):
		return codegen.Private
	case nested:
		return codegen.Private
	default:
		return codegen.Internal
	}
}
