// Package canon normalizes free-text tokens for matching. Nothing here
// rewrites values that users expect to see verbatim, such as names and
// addresses.
package canon

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"
)

// NormalizeText folds full-width characters to their narrow forms, lower-cases,
// trims, and collapses inner whitespace runs to a single space.
func NormalizeText(s string) string {
	folded := width.Fold.String(s)
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

var currencyAliases = map[string]string{
	"美元":  "USD",
	"人民币": "CNY",
	"人名币": "CNY",
	"rmb": "CNY",
	"港币":  "HKG",
	"港元":  "HKG",
	"usd": "USD",
	"cny": "CNY",
	"hkg": "HKG",
}

// NormalizeCurrency maps a currency name or ISO code to its dictionary code.
// Unrecognized non-empty input is returned trimmed and upper-cased so that a
// later name lookup can still try it. Blank input yields ("", false).
func NormalizeCurrency(s string) (string, bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", false
	}
	if code, ok := currencyAliases[NormalizeText(t)]; ok {
		return code, true
	}
	return strings.ToUpper(t), true
}

var truthyTokens = map[string]struct{}{
	"1": {}, "true": {}, "yes": {}, "y": {}, "on": {},
	"enable": {}, "enabled": {}, "是": {},
}

// ToBool interprets loosely typed flag values. Booleans pass through, numbers
// are true when non-zero, and strings are true only for a fixed token set.
// Everything else, including nil, is false.
func ToBool(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case *bool:
		return b != nil && *b
	case int:
		return b != 0
	case int32:
		return b != 0
	case int64:
		return b != 0
	case float32:
		return b != 0
	case float64:
		return b != 0
	case string:
		_, ok := truthyTokens[NormalizeText(b)]
		return ok
	case fmt.Stringer:
		_, ok := truthyTokens[NormalizeText(b.String())]
		return ok
	default:
		return false
	}
}

// Declare type names as they appear in the reference dictionary.
const (
	DeclareNone = "不需报关"
	DeclarePaid = "买单报关"
)

// MapDeclarePhrase canonicalizes common customs phrases to dictionary names.
// Phrases asking for no declaration map to DeclareNone. Phrases that only say
// customs is needed map to DeclarePaid. Anything else is returned trimmed.
func MapDeclarePhrase(s string) string {
	phrase := strings.TrimSpace(s)
	norm := NormalizeText(phrase)
	switch {
	case strings.Contains(norm, "不需要报关"), norm == "不需报关", norm == "无需报关", norm == "免报关":
		return DeclareNone
	case strings.Contains(norm, "需要报关"), strings.Contains(norm, "要报关"), norm == "报关":
		return DeclarePaid
	default:
		return phrase
	}
}
