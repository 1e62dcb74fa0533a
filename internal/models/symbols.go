package models

import (
	"slices"
	"sort"

	"github.com/toyz/visitgen/internal/errors"
	"github.com/toyz/visitgen/pkg/codegen"
)

// Namespace is a dotted namespace name. The empty namespace is the global one.
type Namespace string

// DisplayName implements codegen.NamespaceSymbol
func (n Namespace) DisplayName() string {
	return string(n)
}

// IsGlobal reports whether n is the global namespace
func (n Namespace) IsGlobal() bool {
	return n == ""
}

// Qualify prefixes name with the namespace
func (n Namespace) Qualify(name string) string {
	if n == "" {
		return name
	}
	return string(n) + "." + name
}

// Symbol is the resolved identity of an interface or class
type Symbol struct {
	Name          string                 // simple name
	QualifiedName string                 // namespace-qualified name
	Kind          TypeKind               // declaration keyword, class or record for implementers
	Access        codegen.AccessModifier // declared accessibility
	Namespace     Namespace              // containing namespace
	Location      errors.SourceLocation  // first declaring part
}

// VisitableInterface describes an interface marked [Visitable]
type VisitableInterface struct {
	Symbol
	VisitorName     string   // simple name of the generated visitor interface
	Implementations []Symbol // implementing classes ordered by qualified name
}

// VisitorQualifiedName returns the visitor interface name qualified by the
// interface's namespace
func (i VisitableInterface) VisitorQualifiedName() string {
	return i.Namespace.Qualify(i.VisitorName)
}

// VisitableClass describes a class that needs Accept overloads
type VisitableClass struct {
	Symbol
	Interfaces []string // qualified names of the visitable interfaces it must accept, ordered
}

// SymbolMap holds the two indices produced by collection: visitable
// interfaces with their implementing classes, and classes with the
// interfaces they accept. Accessors return copies ordered by qualified name.
type SymbolMap struct {
	interfaces map[string]*VisitableInterface
	classes    map[string]*VisitableClass
}

// NewSymbolMap creates an empty map
func NewSymbolMap() *SymbolMap {
	return &SymbolMap{
		interfaces: make(map[string]*VisitableInterface),
		classes:    make(map[string]*VisitableClass),
	}
}

// AddInterface registers a visitable interface. Registering the same
// qualified name twice keeps the first registration.
func (m *SymbolMap) AddInterface(iface VisitableInterface) {
	if _, ok := m.interfaces[iface.QualifiedName]; ok {
		return
	}
	iface.Implementations = nil
	m.interfaces[iface.QualifiedName] = &iface
}

// Register records class as implementing each of the given visitable
// interfaces in both indices. Interfaces that were never added are ignored.
// It returns false when none of the interfaces is known.
func (m *SymbolMap) Register(class Symbol, interfaces []string) bool {
	var known []string
	for _, qn := range interfaces {
		if _, ok := m.interfaces[qn]; ok && !slices.Contains(known, qn) {
			known = append(known, qn)
		}
	}
	if len(known) == 0 {
		return false
	}

	entry, ok := m.classes[class.QualifiedName]
	if !ok {
		entry = &VisitableClass{Symbol: class}
		m.classes[class.QualifiedName] = entry
	}
	for _, qn := range known {
		if !slices.Contains(entry.Interfaces, qn) {
			entry.Interfaces = append(entry.Interfaces, qn)
		}
		iface := m.interfaces[qn]
		if !slices.ContainsFunc(iface.Implementations, func(s Symbol) bool { return s.QualifiedName == class.QualifiedName }) {
			iface.Implementations = append(iface.Implementations, class)
			sort.SliceStable(iface.Implementations, func(i, j int) bool {
				return iface.Implementations[i].QualifiedName < iface.Implementations[j].QualifiedName
			})
		}
	}
	sort.Strings(entry.Interfaces)
	return true
}

// Interfaces returns every visitable interface ordered by qualified name
func (m *SymbolMap) Interfaces() []VisitableInterface {
	out := make([]VisitableInterface, 0, len(m.interfaces))
	for _, key := range sortedKeys(m.interfaces) {
		out = append(out, m.interfaces[key].clone())
	}
	return out
}

// Classes returns every visitable class ordered by qualified name
func (m *SymbolMap) Classes() []VisitableClass {
	out := make([]VisitableClass, 0, len(m.classes))
	for _, key := range sortedKeys(m.classes) {
		out = append(out, m.classes[key].clone())
	}
	return out
}

// Interface looks up a visitable interface by qualified name
func (m *SymbolMap) Interface(qualifiedName string) (VisitableInterface, bool) {
	iface, ok := m.interfaces[qualifiedName]
	if !ok {
		return VisitableInterface{}, false
	}
	return iface.clone(), true
}

// Class looks up a visitable class by qualified name
func (m *SymbolMap) Class(qualifiedName string) (VisitableClass, bool) {
	class, ok := m.classes[qualifiedName]
	if !ok {
		return VisitableClass{}, false
	}
	return class.clone(), true
}

// InterfaceCount returns the number of visitable interfaces
func (m *SymbolMap) InterfaceCount() int {
	return len(m.interfaces)
}

// ClassCount returns the number of visitable classes
func (m *SymbolMap) ClassCount() int {
	return len(m.classes)
}

func (i *VisitableInterface) clone() VisitableInterface {
	c := *i
	c.Implementations = slices.Clone(i.Implementations)
	return c
}

func (c *VisitableClass) clone() VisitableClass {
	out := *c
	out.Interfaces = slices.Clone(c.Interfaces)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
