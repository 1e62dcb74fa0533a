package codegen

import (
	"fmt"
	"slices"
)

// Header is the first line of every compiled source unit.
const Header = "// Auto-generated code"

// SourceElement is anything that renders to a sequence of source lines.
type SourceElement interface {
	Compile() ([]string, error)
}

// NamespaceSymbol identifies a namespace by its display name.
type NamespaceSymbol interface {
	DisplayName() string
}

// Lines is a SourceElement holding literal, already formatted lines.
type Lines []string

// Compile returns a copy of the lines.
func (l Lines) Compile() ([]string, error) {
	return slices.Clone([]string(l)), nil
}

// SourceBuilder assembles a compilation unit: the generated-code header,
// using directives, an optional namespace and nested elements.
//
// Like DocBuilder it is an immutable value with a sticky error.
type SourceBuilder struct {
	usings    []string
	namespace string
	elements  []SourceElement
	err       error
}

// NewSourceBuilder returns an empty builder.
func NewSourceBuilder() SourceBuilder {
	return SourceBuilder{}
}

// Err returns the first invalid argument recorded by the builder.
func (b SourceBuilder) Err() error {
	return b.err
}

// WithUsing appends a using directive. Directives already present are not
// repeated.
func (b SourceBuilder) WithUsing(name string) SourceBuilder {
	return b.WithUsings(name)
}

// WithUsings appends using directives in order.
func (b SourceBuilder) WithUsings(names ...string) SourceBuilder {
	if b.err != nil {
		return b
	}
	for i, n := range names {
		if n == "" {
			return b.fail(invalidArgument("SourceBuilder.WithUsings", fmt.Sprintf("names[%d]", i), "must not be empty"))
		}
	}
	usings := slices.Clone(b.usings)
	for _, n := range names {
		if !slices.Contains(usings, n) {
			usings = append(usings, n)
		}
	}
	b.usings = usings
	return b
}

// WithUsingNamespace appends a using directive for ns.
func (b SourceBuilder) WithUsingNamespace(ns NamespaceSymbol) SourceBuilder {
	if b.err != nil {
		return b
	}
	name, err := namespaceName("SourceBuilder.WithUsingNamespace", ns)
	if err != nil {
		return b.fail(err)
	}
	return b.WithUsing(name)
}

// WithNamespace sets the namespace the elements are wrapped in.
func (b SourceBuilder) WithNamespace(name string) SourceBuilder {
	if b.err != nil {
		return b
	}
	if name == "" {
		return b.fail(invalidArgument("SourceBuilder.WithNamespace", "name", "must not be empty"))
	}
	b.namespace = name
	return b
}

// WithNamespaceSymbol sets the namespace from a namespace symbol.
func (b SourceBuilder) WithNamespaceSymbol(ns NamespaceSymbol) SourceBuilder {
	if b.err != nil {
		return b
	}
	name, err := namespaceName("SourceBuilder.WithNamespaceSymbol", ns)
	if err != nil {
		return b.fail(err)
	}
	return b.WithNamespace(name)
}

// WithSourceElement appends a nested element.
func (b SourceBuilder) WithSourceElement(e SourceElement) SourceBuilder {
	return b.WithSourceElements(e)
}

// WithSourceElements appends nested elements in order.
func (b SourceBuilder) WithSourceElements(elements ...SourceElement) SourceBuilder {
	if b.err != nil {
		return b
	}
	for i, e := range elements {
		if e == nil {
			return b.fail(invalidArgument("SourceBuilder.WithSourceElements", fmt.Sprintf("elements[%d]", i), "must not be nil"))
		}
	}
	b.elements = appendCopy(b.elements, elements...)
	return b
}

// Compile renders the unit. Without a namespace the elements follow the
// usings directly; with one they are indented inside a namespace block.
func (b SourceBuilder) Compile() ([]string, error) {
	if b.err != nil {
		return nil, b.err
	}

	out := []string{Header}
	for _, u := range b.usings {
		out = append(out, "using "+u+";")
	}

	var body []string
	for _, e := range b.elements {
		lines, err := e.Compile()
		if err != nil {
			return nil, err
		}
		body = append(body, lines...)
	}

	if b.namespace == "" {
		return append(out, body...), nil
	}
	out = append(out, "namespace "+b.namespace)
	return append(out, WithScope(body)...), nil
}

func (b SourceBuilder) fail(err error) SourceBuilder {
	b.err = err
	return b
}

func namespaceName(op string, ns NamespaceSymbol) (string, error) {
	if ns == nil {
		return "", invalidArgument(op, "namespace", "must not be nil")
	}
	name := ns.DisplayName()
	if name == "" {
		return "", invalidArgument(op, "namespace", "display name must not be empty")
	}
	return name, nil
}
