package validate

import (
	"regexp"
	"strconv"
	"strings"

	"tillpoint/internal/domain"
)

var (
	rePhone = regexp.MustCompile(`^\+?[0-9 \-]{5,20}$`)
	reCode  = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)
)

// Name validates a displayable product or customer name.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 60 {
		return "", false
	}
	return s, true
}

// Phone is optional; empty passes.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, rePhone.MatchString(s)
}

// Code validates an optional SKU; empty passes.
func Code(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	return s, reCode.MatchString(s)
}

// Money parses a non-negative amount (price, cost, discount value).
func Money(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// Stock parses a non-negative integer quantity on hand.
func Stock(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Qty parses a cart quantity, clamped to a sane window.
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 999 {
		return 999
	}
	return n
}

// ID parses a product/order identifier.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil && n > 0
}

// PaymentMethod normalizes the payment label. It is a label only.
func PaymentMethod(s string) string {
	switch strings.TrimSpace(s) {
	case "InstaPay":
		return "InstaPay"
	default:
		return "Cash"
	}
}

// DiscountType normalizes the discount type tag.
func DiscountType(s string) (string, bool) {
	switch strings.TrimSpace(s) {
	case domain.DiscountFixed, "":
		return domain.DiscountFixed, true
	case domain.DiscountPercent:
		return domain.DiscountPercent, true
	}
	return "", false
}
