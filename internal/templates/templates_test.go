package templates

import (
	"strings"
	"testing"

	crdb "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/visitgen/internal/errors"
	"github.com/toyz/visitgen/pkg/codegen"
)

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

func TestVisitorInterface(t *testing.T) {
	got, err := VisitorInterface(codegen.Internal, "IElementVisitor", "IElement", "Samples",
		[]string{"ElementA", "ElementB", "ElementC"})
	require.NoError(t, err)

	receive := func(class string) []string {
		return []string{
			`        /// <summary>`,
			`        /// Receive the specified <paramref name="element"/>.`,
			`        /// </summary>`,
			`        /// <param name="element">The element to act upon.</param>`,
			`        void Receive(` + class + ` element);`,
		}
	}
	var want []string
	want = append(want,
		`// Auto-generated code`,
		`namespace Samples`,
		`{`,
		`    /// <summary>`,
		`    /// <see cref="IElementVisitor"/> defines the visitor interface to visit the`,
		`    /// implementations of the <see cref="IElement"/>.`,
		`    /// </summary>`,
		`    internal interface IElementVisitor`,
		`    {`,
	)
	want = append(want, receive("ElementA")...)
	want = append(want, "")
	want = append(want, receive("ElementB")...)
	want = append(want, "")
	want = append(want, receive("ElementC")...)
	want = append(want, `    }`, `}`)

	assert.Equal(t, lines(want...), got)
}

func TestVisitorInterface_Deterministic(t *testing.T) {
	classes := []string{"N.C", "N.A", "N.B"}
	first, err := VisitorInterface(codegen.Public, "IVisitor", "IThing", "N", classes)
	require.NoError(t, err)
	second, err := VisitorInterface(codegen.Public, "IVisitor", "IThing", "N", classes)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, 3, strings.Count(first, "void Receive("))
	a := strings.Index(first, "Receive(N.A element)")
	b := strings.Index(first, "Receive(N.B element)")
	c := strings.Index(first, "Receive(N.C element)")
	assert.True(t, c < a && a < b, "overloads keep the input order")
}

func TestVisitorInterface_NoClasses(t *testing.T) {
	got, err := VisitorInterface(codegen.Public, "IEmptyVisitor", "IEmpty", "", nil)
	require.NoError(t, err)

	assert.Equal(t, lines(
		`// Auto-generated code`,
		`/// <summary>`,
		`/// <see cref="IEmptyVisitor"/> defines the visitor interface to visit the`,
		`/// implementations of the <see cref="IEmpty"/>.`,
		`/// </summary>`,
		`public interface IEmptyVisitor`,
		`{`,
		`}`,
	), got)
	assert.NotContains(t, got, "Receive")
}

func TestVisitableInterfaceExtension(t *testing.T) {
	got, err := VisitableInterfaceExtension(codegen.Public, "IElement", "Samples.Visitor", "Samples.Visitor.IElementVisitor")
	require.NoError(t, err)

	assert.Equal(t, lines(
		`// Auto-generated code`,
		`namespace Samples.Visitor`,
		`{`,
		`    public partial interface IElement`,
		`    {`,
		`        /// <summary>`,
		`        /// Accept the specified <paramref name="visitor"/>.`,
		`        /// </summary>`,
		`        /// <param name="visitor">The visitor which visits this <see cref="IElement"/>.</param>`,
		`        void Accept(Samples.Visitor.IElementVisitor visitor);`,
		`    }`,
		`}`,
	), got)
}

func TestVisitableClassExtension(t *testing.T) {
	visitors := []Visitor{
		{Access: codegen.Public, Name: "IElementVisitorA"},
		{Access: codegen.Public, Name: "IElementVisitorB", Abstract: true},
		{Access: codegen.Internal, Name: "IElementVisitorC"},
	}

	got, err := VisitableClassExtension(codegen.Public, "Element", "Samples", visitors)
	require.NoError(t, err)

	assert.Equal(t, lines(
		`// Auto-generated code`,
		`namespace Samples`,
		`{`,
		`    public partial class Element`,
		`    {`,
		`        public void Accept(IElementVisitorA visitor) =>`,
		`            visitor.Receive(this);`,
		``,
		`        public abstract void Accept(IElementVisitorB visitor);`,
		``,
		`        internal void Accept(IElementVisitorC visitor) =>`,
		`            visitor.Receive(this);`,
		`    }`,
		`}`,
	), got)
}

func TestVisitableClassExtension_NoVisitors(t *testing.T) {
	got, err := VisitableClassExtension(codegen.Internal, "Element", "Samples", nil)
	require.NoError(t, err)

	assert.Equal(t, lines(
		`// Auto-generated code`,
		`namespace Samples`,
		`{`,
		`    internal partial class Element`,
		`    {`,
		`    }`,
		`}`,
	), got)
}

func TestVisitableRecordExtension(t *testing.T) {
	got, err := VisitableRecordExtension(codegen.Public, "Entry", "Store", []Visitor{
		{Access: codegen.Public, Name: "Store.IItemVisitor"},
	})
	require.NoError(t, err)

	assert.Equal(t, lines(
		`// Auto-generated code`,
		`namespace Store`,
		`{`,
		`    public partial record Entry`,
		`    {`,
		`        public void Accept(Store.IItemVisitor visitor) =>`,
		`            visitor.Receive(this);`,
		`    }`,
		`}`,
	), got)
}

func TestTemplates_InvalidArguments(t *testing.T) {
	invalid := codegen.AccessModifier(4)

	tests := []struct {
		name string
		run  func() (string, error)
	}{
		{"visitor interface access", func() (string, error) {
			return VisitorInterface(invalid, "IV", "I", "N", nil)
		}},
		{"visitor interface empty class", func() (string, error) {
			return VisitorInterface(codegen.Public, "IV", "I", "N", []string{"A", ""})
		}},
		{"visitor interface empty name", func() (string, error) {
			return VisitorInterface(codegen.Public, "", "I", "N", nil)
		}},
		{"interface extension access", func() (string, error) {
			return VisitableInterfaceExtension(invalid, "I", "N", "IV")
		}},
		{"interface extension empty visitor", func() (string, error) {
			return VisitableInterfaceExtension(codegen.Public, "I", "N", "")
		}},
		{"class extension access", func() (string, error) {
			return VisitableClassExtension(invalid, "C", "N", nil)
		}},
		{"class extension visitor access", func() (string, error) {
			return VisitableClassExtension(codegen.Public, "C", "N", []Visitor{{Access: invalid, Name: "IV"}})
		}},
		{"class extension empty visitor", func() (string, error) {
			return VisitableClassExtension(codegen.Public, "C", "N", []Visitor{{Access: codegen.Public}})
		}},
		{"record extension empty name", func() (string, error) {
			return VisitableRecordExtension(codegen.Public, "", "N", nil)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run()
			require.Error(t, err)
			assert.Empty(t, got)
			assert.True(t, crdb.Is(err, codegen.ErrInvalidArgument))
		})
	}
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "IElement.Visitable.cs", VisitableExtensionFileName("IElement"))
	assert.Equal(t, "IElementVisitor.cs", VisitorInterfaceFileName("IElementVisitor"))
}

func TestTemplateRegistry(t *testing.T) {
	r := NewTemplateRegistry()
	for _, name := range []string{VisitorInterfaceTemplate, InterfaceExtensionTemplate, ClassExtensionTemplate} {
		assert.NotEmpty(t, r.MustGet(name), name)
	}
	assert.Panics(t, func() { r.MustGet("missing") })
}

func TestExecuteTemplate_Errors(t *testing.T) {
	_, err := executeTemplate("broken", "{{.Missing", nil)
	require.Error(t, err)
	assert.Equal(t, errors.TemplateErrorCode, errors.CodeOf(err))

	_, err = executeTemplate("field", "{{.Missing}}", struct{}{})
	require.Error(t, err)
	assert.Equal(t, errors.TemplateErrorCode, errors.CodeOf(err))
}
