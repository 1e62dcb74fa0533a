package models

import (
	"fmt"
	"strings"

	"github.com/toyz/visitgen/internal/errors"
)

// TypeKind is the declaration keyword of a C# type
type TypeKind int

const (
	KindClass TypeKind = iota
	KindInterface
	KindStruct
	KindRecord
	KindRecordStruct
	KindEnum
)

func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindStruct:
		return "struct"
	case KindRecord:
		return "record"
	case KindRecordStruct:
		return "record struct"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("TypeKind(%d)", int(k))
	}
}

// SourceFile is the declaration-level view of one .cs file
type SourceFile struct {
	Path         string     // file system path
	Types        []TypeDecl // type declarations in source order, nested types included
	GlobalUsings []Using    // `global using` directives, visible to every file
}

// TypeDecl is one declaration of a type. Partial types produce one TypeDecl
// per declaring part.
type TypeDecl struct {
	Name       string                // simple name without type parameters
	Arity      int                   // number of generic type parameters
	Kind       TypeKind              // declaration keyword
	Modifiers  []string              // modifiers in source order
	Attributes []Attribute           // attributes applied to the type
	Bases      []TypeRef             // base class and interfaces as written
	Namespace  Namespace             // enclosing namespace
	Usings     []Using               // using directives in scope, outermost first
	Containing []string              // enclosing type names, outermost first
	Location   errors.SourceLocation // position of the type name
}

// IsNested reports whether the type is declared inside another type
func (d *TypeDecl) IsNested() bool {
	return len(d.Containing) > 0
}

// QualifiedName returns the dotted name including namespace and enclosing
// types, e.g. App.Model.Outer.Inner
func (d *TypeDecl) QualifiedName() string {
	parts := append(append([]string(nil), d.Containing...), d.Name)
	return d.Namespace.Qualify(strings.Join(parts, "."))
}

// Key identifies the type across partial declarations
func (d *TypeDecl) Key() string {
	return TypeKey(d.QualifiedName(), d.Arity)
}

// TypeKey combines a qualified name and a generic arity the way metadata
// names do: List`1.
func TypeKey(qualifiedName string, arity int) string {
	if arity == 0 {
		return qualifiedName
	}
	return fmt.Sprintf("%s`%d", qualifiedName, arity)
}

// TypeRef is a type name as written in a base list
type TypeRef struct {
	Name     string // dotted name without type arguments, alias qualifiers folded to "."
	Arity    int    // number of type arguments on the last segment
	Global   bool   // written with the global:: prefix
	Location errors.SourceLocation
}

// Attribute is one attribute applied to a declaration
type Attribute struct {
	Name     string         // dotted name as written, e.g. Visitable or Generators.VisitableAttribute
	Args     []AttributeArg // arguments in source order
	Location errors.SourceLocation
}

// SimpleName returns the last segment of the attribute name
func (a Attribute) SimpleName() string {
	if i := strings.LastIndex(a.Name, "."); i >= 0 {
		return a.Name[i+1:]
	}
	return a.Name
}

// AttributeArg is a positional or named attribute argument
type AttributeArg struct {
	Name     string // empty for positional arguments
	Value    string // literal text, unquoted when IsString
	IsString bool   // value was a single string literal
}

// Using is a using directive
type Using struct {
	Alias  string // alias name for `using A = B;`
	Target string // namespace or type the directive refers to
	Static bool   // `using static`
	Global bool   // `global using`
}
