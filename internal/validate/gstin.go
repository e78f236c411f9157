// Package validate enforces the engine's boundary contracts. Records that
// fail here are rejected before classification; a bad record never aborts
// its batch.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// gstinCharset is the base-36 alphabet the checksum is computed over.
const gstinCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ChecksumChar computes the 15th GSTIN character from the first 14 using
// the mod-36 Luhn variant: alternating 1/2 factors, digit sums of each
// product in base 36.
func ChecksumChar(first14 string) (byte, error) {
	if len(first14) != 14 {
		return 0, fmt.Errorf("checksum input must be 14 chars, got %d", len(first14))
	}
	sum := 0
	for i := 0; i < 14; i++ {
		v := strings.IndexByte(gstinCharset, first14[i])
		if v < 0 {
			return 0, fmt.Errorf("invalid GSTIN character %q", first14[i])
		}
		factor := 1
		if i%2 == 1 {
			factor = 2
		}
		p := v * factor
		sum += p/36 + p%36
	}
	return gstinCharset[(36-sum%36)%36], nil
}

// ValidGSTIN reports whether s is a well-formed GSTIN with a valid state
// code and checksum digit.
func ValidGSTIN(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !gstinPattern.MatchString(s) {
		return false
	}
	code, err := strconv.Atoi(s[:2])
	if err != nil || code < 1 || code > 38 {
		return false
	}
	check, err := ChecksumChar(s[:14])
	if err != nil {
		return false
	}
	return check == s[14]
}

// StateCode extracts the embedded two-digit state code.
func StateCode(gstin string) string {
	if len(gstin) < 2 {
		return ""
	}
	return gstin[:2]
}

// ValidStateCode reports whether s is a two-digit state code in 01-38.
func ValidStateCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	code, err := strconv.Atoi(s)
	return err == nil && code >= 1 && code <= 38
}
