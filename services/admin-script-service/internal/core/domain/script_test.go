package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/core/domain"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var fe apperr.FormatErrors
	require.True(t, errors.As(err, &fe), "expected FormatErrors, got %v", err)
	var fields []string
	for _, ve := range fe {
		fields = append(fields, ve.Field)
	}
	return fields
}

func TestBaseScriptRequestValidate(t *testing.T) {
	assert.NoError(t, domain.BaseScriptRequest{NUsers: 1, NTweetsPerUser: 1}.Validate())
	assert.NoError(t, domain.BaseScriptRequest{NUsers: 1000, NTweetsPerUser: 100, LUsersForDeletion: 1000}.Validate())

	err := domain.BaseScriptRequest{NUsers: 0, NTweetsPerUser: 101, LUsersForDeletion: -1}.Validate()
	assert.ElementsMatch(t, []string{"nUsers", "nTweetsPerUser", "lUsersForDeletion"}, fieldsOf(t, err))

	typ, ok := apperr.TypeOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.TypeFormat, typ)
}

func TestGenerateRequestValidate(t *testing.T) {
	assert.NoError(t, domain.GenerateRequest{NUsers: 5, NTweetsPerUser: 2}.Validate())
	assert.Equal(t, []string{"nUsers"}, fieldsOf(t, domain.GenerateRequest{NUsers: 1001, NTweetsPerUser: 2}.Validate()))
}
