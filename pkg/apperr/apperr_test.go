package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
)

func TestTypeOfWrapped(t *testing.T) {
	err := fmt.Errorf("create like: %w", apperr.BusinessRule("SELF_LIKE", "user cannot like own tweet"))

	typ, ok := apperr.TypeOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.TypeBusinessRule, typ)

	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "SELF_LIKE", ve.Field)
}

func TestTypeOfPlainError(t *testing.T) {
	_, ok := apperr.TypeOf(errors.New("boom"))
	assert.False(t, ok)
}

func TestFormatErrorsAggregate(t *testing.T) {
	var fe apperr.FormatErrors
	require.NoError(t, fe.OrNil())

	fe = append(fe, apperr.Format("login", "is required"), apperr.Format("email", "is invalid"))
	err := fe.OrNil()
	require.Error(t, err)
	assert.Equal(t, "login: is required; email: is invalid", err.Error())

	typ, ok := apperr.TypeOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.TypeFormat, typ)

	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "login", ve.Field)
}

func TestNotFound(t *testing.T) {
	err := fmt.Errorf("get tweet: %w", apperr.NotFound("tweet", "42"))

	assert.True(t, apperr.IsNotFound(err))
	assert.EqualError(t, err, "get tweet: tweet not found: 42")
	assert.False(t, apperr.IsNotFound(apperr.Uniqueness("email", "taken")))
}
