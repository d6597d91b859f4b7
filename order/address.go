package order

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopcore/storefront-api/apperrors"
	"github.com/shopcore/storefront-api/models"
)

// Postal code shapes for countries we ship to. Anything not listed falls
// back to a permissive alphanumeric check.
var postalCodePatterns = map[string]*regexp.Regexp{
	"US": regexp.MustCompile(`^\d{5}(-\d{4})?$`),
	"CA": regexp.MustCompile(`^[A-Za-z]\d[A-Za-z] ?\d[A-Za-z]\d$`),
	"GB": regexp.MustCompile(`^[A-Za-z]{1,2}\d[A-Za-z\d]? ?\d[A-Za-z]{2}$`),
	"DE": regexp.MustCompile(`^\d{5}$`),
	"FR": regexp.MustCompile(`^\d{5}$`),
	"IN": regexp.MustCompile(`^\d{6}$`),
	"AU": regexp.MustCompile(`^\d{4}$`),
	"JP": regexp.MustCompile(`^\d{3}-?\d{4}$`),
}

var genericPostalCode = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 -]{1,9}$`)

func validateAddress(a models.Address) error {
	var missing []string
	if strings.TrimSpace(a.Country) == "" {
		missing = append(missing, "country")
	}
	if strings.TrimSpace(a.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(a.Street) == "" {
		missing = append(missing, "street")
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		missing = append(missing, "postal_code")
	}
	if len(missing) > 0 {
		return apperrors.Validation(apperrors.CodeInvalidOrderData,
			"shipping address is missing: "+strings.Join(missing, ", "))
	}

	pattern, ok := postalCodePatterns[strings.ToUpper(strings.TrimSpace(a.Country))]
	if !ok {
		pattern = genericPostalCode
	}
	if !pattern.MatchString(strings.TrimSpace(a.PostalCode)) {
		return apperrors.Validation(apperrors.CodeInvalidOrderData,
			fmt.Sprintf("postal code %q is not valid for country %s", a.PostalCode, a.Country))
	}
	return nil
}
