package validate

import (
	"errors"
	"testing"

	"cleaning-crm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nested struct {
	Street string `json:"street" validate:"required"`
}

type sample struct {
	Name    string  `json:"name" validate:"required,max=5"`
	Phone   string  `json:"phone" validate:"omitempty,e164"`
	Kind    string  `json:"kind" validate:"omitempty,oneof=A B"`
	Address *nested `json:"address" validate:"omitempty"`
}

func TestStruct_OK(t *testing.T) {
	require.NoError(t, Struct(sample{Name: "Jo", Phone: "+15551234567", Kind: "A"}))
}

func TestStruct_UsesJSONNames(t *testing.T) {
	err := Struct(sample{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, "name is required", err.Error())
}

func TestStruct_Messages(t *testing.T) {
	cases := []struct {
		name string
		in   sample
		want string
	}{
		{"max", sample{Name: "toolong"}, "name must be at most 5 characters"},
		{"phone", sample{Name: "Jo", Phone: "555"}, "phone must be a valid phone number"},
		{"oneof", sample{Name: "Jo", Kind: "C"}, "kind must be one of [A, B]"},
		{"nested", sample{Name: "Jo", Address: &nested{}}, "address.street is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}
