package codegen

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessModifier_Keyword(t *testing.T) {
	tests := []struct {
		modifier AccessModifier
		expected string
	}{
		{Public, "public"},
		{Internal, "internal"},
		{Protected, "protected"},
		{Private, "private"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			kw, err := tt.modifier.Keyword()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kw)
			assert.Equal(t, tt.expected, tt.modifier.String())

			parsed, err := ParseAccessModifier(kw)
			require.NoError(t, err)
			assert.Equal(t, tt.modifier, parsed)
		})
	}
}

func TestAccessModifier_RejectsUnknownValues(t *testing.T) {
	for _, m := range []AccessModifier{AccessModifier(4), AccessModifier(-1), AccessModifier(99)} {
		kw, err := m.Keyword()
		assert.Empty(t, kw)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidArgument))
		assert.False(t, m.Valid())
	}

	var argErr *ArgumentError
	_, err := AccessModifier(4).Keyword()
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, "AccessModifier.Keyword", argErr.Op)
	assert.Equal(t, "AccessModifier(4)", AccessModifier(4).String())
}

func TestParseAccessModifier(t *testing.T) {
	m, err := ParseAccessModifier("  Internal ")
	require.NoError(t, err)
	assert.Equal(t, Internal, m)

	_, err = ParseAccessModifier("protected internal")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ParseAccessModifier("")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
