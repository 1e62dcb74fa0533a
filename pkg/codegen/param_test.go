package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParam(t *testing.T) {
	p, err := NewParam("visitor", "IElementVisitor")
	require.NoError(t, err)

	assert.Equal(t, "visitor", p.Name())
	assert.Equal(t, "IElementVisitor", p.TypeName())
	assert.Equal(t, "IElementVisitor visitor", p.ParamString())

	_, ok := p.Doc()
	assert.False(t, ok)
	_, ok = p.DocString()
	assert.False(t, ok)

	documented := p.WithDoc("The visitor.")
	doc, ok := documented.DocString()
	require.True(t, ok)
	assert.Equal(t, `<param name="visitor">The visitor.</param>`, doc)

	// the original value is unchanged
	_, ok = p.Doc()
	assert.False(t, ok)
}

func TestParam_StripsParamWrapper(t *testing.T) {
	p, err := NewParam("x", "int")
	require.NoError(t, err)

	doc, ok := p.WithDoc(`<param name="x">The value of x.</param>`).Doc()
	require.True(t, ok)
	assert.Equal(t, "The value of x.", doc)

	assert.Equal(t, "plain", ExtractParamDoc("plain"))
	assert.Equal(t, "multi\nline", ExtractParamDoc("<param name=\"y\">multi\nline</param>"))
}

func TestNewParam_InvalidArguments(t *testing.T) {
	_, err := NewParam("", "int")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewParam("x", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
