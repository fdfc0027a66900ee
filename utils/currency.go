package utils

import (
	"fmt"
	"strings"
)

// FormatCurrencyNPR formats an amount as Nepalese rupees.
// Example: 15000.5 -> "Rs 15,000.50"
func FormatCurrencyNPR(amount float64) string {
	formatted := fmt.Sprintf("%.2f", amount)

	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	sign := ""
	if strings.HasPrefix(integerPart, "-") {
		sign = "-"
		integerPart = integerPart[1:]
	}

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	return "Rs " + sign + strings.Join(groups, ",") + "." + decimalPart
}
