package gate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorBounds(t *testing.T) {
	v := NewValidator(3, 128)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"below minimum", "ab", "", ErrTooShort},
		{"at minimum", "abc", "abc", nil},
		{"at maximum", strings.Repeat("q", 128), strings.Repeat("q", 128), nil},
		{"above maximum", strings.Repeat("q", 129), "", ErrTooLong},
		{"empty", "", "", ErrTooShort},
		{"whitespace only", "   \t ", "", ErrTooShort},
		{"trimmed below minimum", "  ab  ", "", ErrTooShort},
		{"trimmed", "  rust ownership rules \n", "rust ownership rules", nil},
		{"case and inner spacing kept", "Go  Generics", "Go  Generics", nil},
		{"runes not bytes", "日本語", "日本語", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidationErrorMessages(t *testing.T) {
	v := NewValidator(3, 128)

	_, err := v.Validate("ab")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Query too short (minimum 3 characters)", verr.Error())
	assert.Equal(t, 2, verr.Length)

	_, err = v.Validate(strings.Repeat("x", 200))
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Query too long (maximum 128 characters)", verr.Error())
	assert.Equal(t, 200, verr.Length)
}

func TestValidatorIsDeterministic(t *testing.T) {
	v := NewValidator(3, 10)
	for i := 0; i < 3; i++ {
		got, err := v.Validate(" same input ")
		require.NoError(t, err)
		assert.Equal(t, "same input", got)
	}
}
