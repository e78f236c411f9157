// Package fiscal maps calendar dates to Indian fiscal periods. The
// financial year runs April through March.
package fiscal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FinancialYear returns the financial year string (e.g. "2024-25") for a
// date. Dates before April belong to the year that started the previous
// April.
func FinancialYear(t time.Time) string {
	year := t.Year()
	if t.Month() >= time.April {
		return fmt.Sprintf("%d-%02d", year, (year+1)%100)
	}
	return fmt.Sprintf("%d-%02d", year-1, year%100)
}

// Quarter returns the fiscal quarter 1..4 for a date. Apr-Jun is Q1,
// Jan-Mar is Q4.
func Quarter(t time.Time) int {
	m := int(t.Month())
	if m >= 4 {
		return (m-4)/3 + 1
	}
	return 4
}

// AssessmentYear returns the assessment year for a financial year string,
// which is the financial year shifted forward by one.
func AssessmentYear(fy string) (string, error) {
	parts := strings.SplitN(fy, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return "", fmt.Errorf("malformed financial year %q", fy)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("malformed financial year %q", fy)
	}
	return fmt.Sprintf("%d-%02d", start+1, (start+2)%100), nil
}

// ReturnPeriod returns the monthly filing period tag "MMYYYY" used in
// return payloads.
func ReturnPeriod(t time.Time) string {
	return fmt.Sprintf("%02d%d", int(t.Month()), t.Year())
}
