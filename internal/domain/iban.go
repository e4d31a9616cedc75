package domain

import "fmt"

const (
	ibanMinLength = 4
	ibanMaxLength = 34
	ibanModulus   = 97
)

// ValidIBAN checks the ISO 13616 check digits of iban.
//
// The check digits are replaced by "00", the first four characters moved to the
// end, letters expanded to 10..35, and the resulting number reduced mod 97.
// The expected check digits are 98 minus that remainder.
func ValidIBAN(iban string) bool {
	if len(iban) < ibanMinLength || len(iban) > ibanMaxLength {
		return false
	}

	rearranged := iban[4:] + iban[:2] + "00"

	remainder := 0
	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]
		switch {
		case c >= '0' && c <= '9':
			remainder = (remainder*10 + int(c-'0')) % ibanModulus
		case c >= 'A' && c <= 'Z':
			remainder = (remainder*100 + int(c-'A') + 10) % ibanModulus
		default:
			return false
		}
	}

	return fmt.Sprintf("%02d", 98-remainder) == iban[2:4]
}

// AccountCountry returns the two-letter country prefix of an IBAN-style account number.
func AccountCountry(accountNumber string) string {
	if len(accountNumber) < 2 {
		return accountNumber
	}
	return accountNumber[:2]
}
