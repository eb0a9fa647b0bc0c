package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	// Matches digit runs with optional thousands separators, e.g. "1,350,000"
	digitGroupPattern = regexp.MustCompile(`[\d,]+`)

	anyDigitPattern = regexp.MustCompile(`\d`)

	wonPrinter = message.NewPrinter(language.Korean)
)

// parseAmount converts a digit group like "99,000" to an integer.
// Groups with a decimal part or no digits are rejected.
func parseAmount(group string) (int64, bool) {
	digits := strings.ReplaceAll(group, ",", "")
	if digits == "" {
		return 0, false
	}
	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// minimumPrice returns the smallest number with at least three digits found in text.
//
// This is a heuristic: list prices shown struck-through next to the sale price are
// usually larger, so the smallest figure is taken as the selling price. It misfires when
// the element also carries a quantity or a discount figure of three or more digits.
func minimumPrice(text string) (int64, bool) {
	var (
		best  int64
		found bool
	)
	for _, group := range digitGroupPattern.FindAllString(text, -1) {
		if len(strings.ReplaceAll(group, ",", "")) < 3 {
			continue
		}
		amount, ok := parseAmount(group)
		if !ok {
			continue
		}
		if !found || amount < best {
			best = amount
			found = true
		}
	}
	return best, found
}

// containsDigit reports whether text has any decimal digit
func containsDigit(text string) bool {
	return anyDigitPattern.MatchString(text)
}

// groupThousands renders 1350000 as "1,350,000"
func groupThousands(amount int64) string {
	return wonPrinter.Sprintf("%d", amount)
}

// formatWon renders an amount the way Korean shops print prices, e.g. "150,000원"
func formatWon(amount int64) string {
	return groupThousands(amount) + "원"
}
