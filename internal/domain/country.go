package domain

import (
	"fmt"

	"golang.org/x/text/language"
)

// parseCountry resolves an ISO 3166-1 code to a region that is an assigned
// country with an alpha-3 form. Groupings such as 001, EU or UN and
// user-assigned codes such as AA, QO or ZZ are rejected.
func parseCountry(code string) (language.Region, error) {
	region, err := language.ParseRegion(code)
	if err != nil {
		return language.Region{}, fmt.Errorf("unknown country code %q: %w", code, err)
	}
	if !region.IsCountry() || region.IsPrivateUse() || region.ISO3() == "ZZZ" {
		return language.Region{}, fmt.Errorf("unknown country code %q: not an assigned country", code)
	}
	return region, nil
}

// ISO3Country converts an ISO 3166-1 country code (alpha-2, alpha-3 or numeric)
// to its alpha-3 form.
func ISO3Country(code string) (string, error) {
	region, err := parseCountry(code)
	if err != nil {
		return "", err
	}
	return region.ISO3(), nil
}

// SameCountry reports whether two ISO 3166-1 codes, in any of the accepted forms,
// name the same country. Unknown codes never match.
func SameCountry(a, b string) bool {
	ra, err := parseCountry(a)
	if err != nil {
		return false
	}
	rb, err := parseCountry(b)
	if err != nil {
		return false
	}
	return ra == rb
}
