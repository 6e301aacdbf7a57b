package apperr

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOfWrapped(t *testing.T) {
	err := errors.Wrap(NotOwner("nope"), "update comment")
	assert.Equal(t, KindNotOwner, KindOf(err))
	assert.True(t, Is(err, KindNotOwner))
	assert.False(t, Is(err, KindNotAdmin))

	err = fmt.Errorf("outer: %w", NotFound("comment %d not found", 7))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "outer: comment 7 not found", err.Error())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.False(t, Is(nil, KindNotFound))
}

func TestValidation(t *testing.T) {
	var v Validation
	require.NoError(t, v.Err())

	v.Check(true, "name", "required")
	v.Check(false, "email", "must be a valid address")
	v.Add("email", "second message is ignored")

	err := v.Err()
	require.Error(t, err)

	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Equal(t, map[string]string{"email": "must be a valid address"}, appErr.Fields)
}

func TestInvalidCredentialsField(t *testing.T) {
	err := InvalidCredentials("current_password")
	assert.Equal(t, KindInvalidCredentials, err.Kind)
	assert.Contains(t, err.Fields, "current_password")

	assert.Nil(t, InvalidCredentials("").Fields)
}
