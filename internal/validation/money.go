package validation

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid decimal amount")

// ParseCents переводит десятичную строку ("999.99", "25.5", "10") в копейки/центы без float.
// Больше двух знаков после точки — ошибка, как у DecimalField(decimal_places=2).
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if intPart == "" && (!hasDot || fracPart == "") {
		return 0, ErrInvalidAmount
	}
	if len(fracPart) > 2 || (hasDot && fracPart == "" && intPart == "") {
		return 0, ErrInvalidAmount
	}
	if !digitsOnly(intPart) || !digitsOnly(fracPart) {
		return 0, ErrInvalidAmount
	}
	// decimal(10,2): не больше 8 цифр до точки
	if len(strings.TrimLeft(intPart, "0")) > 8 {
		return 0, ErrInvalidAmount
	}

	var units int64
	if intPart != "" {
		v, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		units = v
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}
	frac, _ := strconv.ParseInt(fracPart, 10, 64)

	cents := units*100 + frac
	if neg {
		cents = -cents
	}
	return cents, nil
}

// FormatCents — обратное преобразование, всегда два знака после точки.
func FormatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	frac := strconv.FormatInt(c%100, 10)
	if len(frac) == 1 {
		frac = "0" + frac
	}
	return sign + strconv.FormatInt(c/100, 10) + "." + frac
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
