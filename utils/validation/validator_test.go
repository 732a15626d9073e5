package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role" validate:"omitempty,oneof=student instructor"`
	Price    float64 `json:"price" validate:"gte=0"`
}

func TestFormatValidationErrorsUsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.ValidateStruct(signup{Email: "nope", Password: "short", Role: "admin", Price: -1})
	require.Error(t, err)

	fields := FormatValidationErrors(err)
	assert.Equal(t, "name is required", fields["name"])
	assert.Equal(t, "Invalid email format", fields["email"])
	assert.Equal(t, "password must be at least 8 characters", fields["password"])
	assert.Equal(t, "role must be one of: student instructor", fields["role"])
	assert.Equal(t, "price must be greater than or equal to 0", fields["price"])
}

func TestValidStructPasses(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.ValidateStruct(signup{Name: "Ada", Email: "ada@example.com", Password: "longenough"}))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hel\x00lo \n"))
}
