package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/visitgen/pkg/codegen"
)

func symbol(ns Namespace, name string) Symbol {
	return Symbol{Name: name, QualifiedName: ns.Qualify(name), Access: codegen.Public, Namespace: ns}
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "A.B.IElement", Namespace("A.B").Qualify("IElement"))
	assert.Equal(t, "IElement", Namespace("").Qualify("IElement"))
	assert.True(t, Namespace("").IsGlobal())
	assert.Equal(t, "A.B", Namespace("A.B").DisplayName())
}

func TestSymbolMap_Register(t *testing.T) {
	m := NewSymbolMap()
	m.AddInterface(VisitableInterface{Symbol: symbol("N", "IShape"), VisitorName: "IShapeVisitor"})
	m.AddInterface(VisitableInterface{Symbol: symbol("N", "IElement"), VisitorName: "IElementVisitor"})

	assert.True(t, m.Register(symbol("N", "Square"), []string{"N.IShape", "N.IElement", "N.IShape"}))
	assert.True(t, m.Register(symbol("N", "Circle"), []string{"N.IShape"}))
	assert.False(t, m.Register(symbol("N", "Orphan"), []string{"N.IUnknown"}))

	ifaces := m.Interfaces()
	require.Len(t, ifaces, 2)
	assert.Equal(t, "N.IElement", ifaces[0].QualifiedName)
	assert.Equal(t, "N.IShape", ifaces[1].QualifiedName)
	assert.Equal(t, "N.IShapeVisitor", ifaces[1].VisitorQualifiedName())

	shape, ok := m.Interface("N.IShape")
	require.True(t, ok)
	require.Len(t, shape.Implementations, 2)
	assert.Equal(t, "N.Circle", shape.Implementations[0].QualifiedName)
	assert.Equal(t, "N.Square", shape.Implementations[1].QualifiedName)

	square, ok := m.Class("N.Square")
	require.True(t, ok)
	assert.Equal(t, []string{"N.IElement", "N.IShape"}, square.Interfaces)

	_, ok = m.Class("N.Orphan")
	assert.False(t, ok)
	assert.Equal(t, 2, m.ClassCount())
	assert.Equal(t, 2, m.InterfaceCount())
}

func TestSymbolMap_AccessorsReturnCopies(t *testing.T) {
	m := NewSymbolMap()
	m.AddInterface(VisitableInterface{Symbol: symbol("", "IElement"), VisitorName: "IElementVisitor"})
	m.Register(symbol("", "A"), []string{"IElement"})

	ifaces := m.Interfaces()
	ifaces[0].Implementations[0].Name = "mutated"
	classes := m.Classes()
	classes[0].Interfaces[0] = "mutated"

	iface, _ := m.Interface("IElement")
	assert.Equal(t, "A", iface.Implementations[0].Name)
	class, _ := m.Class("A")
	assert.Equal(t, []string{"IElement"}, class.Interfaces)
}

func TestSymbolMap_AddInterfaceKeepsFirst(t *testing.T) {
	m := NewSymbolMap()
	m.AddInterface(VisitableInterface{Symbol: symbol("N", "I"), VisitorName: "First"})
	m.AddInterface(VisitableInterface{Symbol: symbol("N", "I"), VisitorName: "Second"})

	iface, ok := m.Interface("N.I")
	require.True(t, ok)
	assert.Equal(t, "First", iface.VisitorName)
}
