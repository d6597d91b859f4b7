package order

import (
	"testing"

	"github.com/shopcore/storefront-api/apperrors"
	"github.com/shopcore/storefront-api/models"
)

func validUSAddress() models.Address {
	return models.Address{
		Country:    "US",
		State:      "CA",
		City:       "Oakland",
		Street:     "100 Main St",
		PostalCode: "94607",
	}
}

func TestValidateAddress_MissingFields(t *testing.T) {
	mutations := map[string]func(*models.Address){
		"country":     func(a *models.Address) { a.Country = "" },
		"city":        func(a *models.Address) { a.City = " " },
		"street":      func(a *models.Address) { a.Street = "" },
		"postal_code": func(a *models.Address) { a.PostalCode = "" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			a := validUSAddress()
			mutate(&a)
			err := validateAddress(a)
			if apperrors.CodeOf(err) != apperrors.CodeInvalidOrderData {
				t.Fatalf("expected INVALID_ORDER_DATA, got %v", err)
			}
		})
	}
	// State is optional.
	a := validUSAddress()
	a.State = ""
	if err := validateAddress(a); err != nil {
		t.Fatalf("state should be optional: %v", err)
	}
}

func TestValidateAddress_PostalCodes(t *testing.T) {
	tests := []struct {
		country, code string
		ok            bool
	}{
		{"US", "94607", true},
		{"US", "94607-1234", true},
		{"US", "9460", false},
		{"us", "94607", true}, // country matching is case insensitive
		{"CA", "K1A 0B1", true},
		{"CA", "K1A0B1", true},
		{"CA", "12345", false},
		{"GB", "SW1A 1AA", true},
		{"DE", "10115", true},
		{"DE", "101155", false},
		{"IN", "110001", true},
		{"AU", "2000", true},
		{"JP", "100-0001", true},
		{"JP", "1000001", true},
		// Unlisted countries get the permissive check.
		{"NL", "1012 AB", true},
		{"NL", "!!", false},
	}
	for _, tt := range tests {
		a := validUSAddress()
		a.Country = tt.country
		a.PostalCode = tt.code
		err := validateAddress(a)
		if tt.ok && err != nil {
			t.Errorf("%s %q: unexpected error %v", tt.country, tt.code, err)
		}
		if !tt.ok && apperrors.CodeOf(err) != apperrors.CodeInvalidOrderData {
			t.Errorf("%s %q: expected INVALID_ORDER_DATA, got %v", tt.country, tt.code, err)
		}
	}
}
