package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationRules(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		rule    ValidationRule
		wantErr bool
	}{
		{name: "required ok", value: "x", rule: Required},
		{name: "required blank", value: "  ", rule: Required, wantErr: true},
		{name: "required nil", value: nil, rule: Required, wantErr: true},
		{name: "max length ok", value: "äöü", rule: MaxLength(3)},
		{name: "max length exceeded", value: "abcd", rule: MaxLength(3), wantErr: true},
		{name: "range ok", value: 300, rule: IntRange(72, 1200)},
		{name: "range low", value: 71, rule: IntRange(72, 1200), wantErr: true},
		{name: "range not int", value: "300", rule: IntRange(72, 1200), wantErr: true},
		{name: "one of ok", value: "json", rule: OneOf("text", "json")},
		{name: "one of case sensitive", value: "JSON", rule: OneOf("text", "json"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule("field", tt.value)
			if tt.wantErr {
				require.NotNil(t, err)
				assert.Equal(t, "field", err.Field)
				return
			}
			assert.Nil(t, err)
		})
	}
}

func TestValidatorErr(t *testing.T) {
	assert.NoError(t, NewValidator().Field("a", "x", Required).Err("TEST"))

	err := NewValidator().
		Field("a", "", Required).
		Field("b", 5, IntRange(1, 3)).
		Err("TEST")
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "'a'")
	assert.Contains(t, err.Error(), "'b'")
	assert.Contains(t, err.Error(), "; ")
}

func TestIsNothingToDo(t *testing.T) {
	assert.True(t, IsNothingToDo(ErrNoFilesSelected))
	assert.True(t, IsNothingToDo(WrapError(ErrNothingToRename, "apply")))
	assert.False(t, IsNothingToDo(ErrRenameFailed))
	assert.False(t, IsNothingToDo(nil))
}
