package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,is-signup-role"`
}

type listing struct {
	Ordering string `form:"ordering" validate:"omitempty,is-ordering"`
	Status   string `form:"status" validate:"omitempty,is-application-status"`
}

func TestValidate_ReportsWireNames(t *testing.T) {
	v := New()

	err := v.Validate(&signup{Email: "nope", Role: "admin"})
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Must be a valid email address", verr.Errors["email"])
	assert.Equal(t, "Must be one of: employer, seeker", verr.Errors["role"])
	assert.Contains(t, verr.Error(), "field 'email'")

	assert.NoError(t, v.Validate(&signup{Email: "a@b.co", Role: "Seeker"}))
}

func TestValidate_CustomRules(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&listing{}))
	assert.NoError(t, v.Validate(&listing{Ordering: "-company_name", Status: "offered"}))

	err := v.Validate(&listing{Ordering: "salary", Status: "lost"})
	require.Error(t, err)
	verr := err.(*ValidationError)
	assert.Contains(t, verr.Errors, "ordering")
	assert.Contains(t, verr.Errors, "status")
}
