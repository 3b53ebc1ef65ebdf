package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorCollectsFields(t *testing.T) {
	verr := &ValidationError{}
	require.NoError(t, verr.OrNil())

	verr.Add("name", "name is required")
	verr.Add("name", "ignored")
	verr.Add("amount", "amount must be positive")

	err := verr.OrNil()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "name is required", verr.Fields["name"])
	assert.Equal(t, "validation failed: amount: amount must be positive; name: name is required", err.Error())
}

func TestValidationErrorSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("clients: create: %w", NewValidationError("telephone", "required"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Fields["telephone"])
}
