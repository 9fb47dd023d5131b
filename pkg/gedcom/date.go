package gedcom

import (
	"fmt"
	"strconv"
	"strings"
)

var months = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// NormalizeDate converts "D MON YYYY" to "YYYY-MM-DD" and accepts values that
// are already "YYYY-MM-DD". It reports false for every other form.
func NormalizeDate(v string) (string, bool) {
	if isISODate(v) {
		return v, true
	}
	fields := strings.Fields(v)
	if len(fields) != 3 {
		return "", false
	}
	day, err := strconv.Atoi(fields[0])
	if err != nil || len(fields[0]) > 2 || day < 1 || day > 31 {
		return "", false
	}
	month, ok := months[strings.ToUpper(fields[1])]
	if !ok {
		return "", false
	}
	if !allDigits(fields[2], 4) {
		return "", false
	}
	year, _ := strconv.Atoi(fields[2])
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

func isISODate(v string) bool {
	if len(v) != 10 || v[4] != '-' || v[7] != '-' {
		return false
	}
	if !allDigits(v[:4], 4) || !allDigits(v[5:7], 2) || !allDigits(v[8:], 2) {
		return false
	}
	month, _ := strconv.Atoi(v[5:7])
	day, _ := strconv.Atoi(v[8:])
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

func allDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
