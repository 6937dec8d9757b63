package currency

import (
	"fmt"
	"math"
	"strings"
)

// Format renders a price as "MYR 1,234.56".
func Format(code string, amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	cents := math.Round(amount * 100)
	intPart := fmt.Sprintf("%.0f", math.Floor(cents/100))
	fracPart := fmt.Sprintf("%02.0f", math.Mod(cents, 100))

	formatted := addThousandsSeparator(intPart, ",") + "." + fracPart

	result := strings.ToUpper(code) + " " + formatted
	if negative {
		result = "-" + result
	}
	return result
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
