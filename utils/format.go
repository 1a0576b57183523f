package utils

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/volatiletech/null"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const currencyPrefix = "Ksh "

// FormatPrice renders an amount the way listings show it, e.g. "Ksh 12,500".
func FormatPrice(amount float64) string {
	p := message.NewPrinter(language.English)
	return currencyPrefix + p.Sprintf("%v", number.Decimal(amount, number.MaxFractionDigits(3)))
}

// FormatOptionalPrice returns nil for absent amounts so they serialize as JSON null.
func FormatOptionalPrice(amount null.Float64) *string {
	if !amount.Valid {
		return nil
	}
	s := FormatPrice(amount.Float64)
	return &s
}

// PostedTime turns a creation time into a relative label like "3 days ago".
func PostedTime(createdAt, now time.Time) string {
	elapsed := now.Sub(createdAt)
	hours := int(elapsed / time.Hour)
	days := hours / 24
	weeks := days / 7

	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return plural(hours, "hour")
	case days < 7:
		return plural(days, "day")
	case weeks < 4:
		return plural(weeks, "week")
	default:
		return createdAt.Format("1/2/2006")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// Capitalize upper-cases the first letter only.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// DisplayRating returns the stored rating, or a placeholder between 3.5 and 5.0
// that stays the same for a given item id.
func DisplayRating(id string, rating null.Float64) float64 {
	if rating.Valid && rating.Float64 > 0 {
		return rating.Float64
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(id)))
	return 3.5 + float64(h.Sum32()%16)/10
}
