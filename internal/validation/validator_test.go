package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoutfit/reoutfit-backend/internal/apperr"
)

type itemInput struct {
	Name     string   `json:"name" validate:"notblank,max=200"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency *string  `json:"currency,omitempty" validate:"omitempty,len=3"`
	Link     *string  `json:"product_url,omitempty" validate:"omitempty,http_url"`
}

func ptr[T any](v T) *T { return &v }

func TestValidate_Valid(t *testing.T) {
	v := New()
	err := v.Validate(itemInput{Name: "Linen shirt", Price: ptr(49.0), Currency: ptr("EUR")})
	assert.NoError(t, err)
}

func TestValidate_ReportsEveryFailingField(t *testing.T) {
	v := New()
	err := v.Validate(itemInput{
		Name:     "   ",
		Price:    ptr(-1.0),
		Currency: ptr("EURO"),
		Link:     ptr("not a url"),
	})
	require.Error(t, err)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.CodeValidation, appErr.Code)

	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be greater than or equal to 0", details["price"])
	assert.Equal(t, "must be exactly 3 characters", details["currency"])
	assert.Equal(t, "must be a valid URL", details["product_url"])
	assert.Len(t, details, 4)
}

func TestValidate_NilOptionalFieldsSkipped(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(itemInput{Name: "x"}))
}
