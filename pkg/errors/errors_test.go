package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneMatchesSentinel(t *testing.T) {
	err := Clone(ErrAlreadyGraded, "graded twice")
	assert.True(t, errors.Is(err, ErrAlreadyGraded))
	assert.False(t, errors.Is(err, ErrOutOfRange))
	assert.Equal(t, "assessment already graded", ErrAlreadyGraded.Message)
}

func TestRoleRequiredCarriesRole(t *testing.T) {
	err := RoleRequired("teacher")
	assert.Equal(t, http.StatusForbidden, err.Status)
	assert.Equal(t, "teacher", err.Details["required_role"])
	assert.Nil(t, ErrRoleRequired.Details)
}

func TestMissingFieldCarriesField(t *testing.T) {
	err := MissingField("title")
	assert.Equal(t, ErrMissingField.Code, err.Code)
	assert.Equal(t, "title", err.Details["field"])
	assert.Equal(t, "title is required", err.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))
	require.NotNil(t, appErr)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Nil(t, FromError(nil))

	wrapped := fmt.Errorf("context: %w", ErrNotFound)
	assert.Equal(t, ErrNotFound.Code, FromError(wrapped).Code)
}
