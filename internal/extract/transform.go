package extract

import (
	"net/url"
	"strconv"
	"strings"
)

// EscapeQuotes escapes double quotes so titles survive later cell rendering.
func EscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// CleanProductURL strips tracking parameters and fragments from a listing
// link, leaving the canonical item URL.
func CleanProductURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		// Fall back to cutting at the query marker.
		if i := strings.IndexByte(raw, '?'); i >= 0 {
			return raw[:i]
		}
		return raw
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// ItemIDFromURL derives the listing identifier from the final path segment
// of a cleaned product URL.
func ItemIDFromURL(cleaned string) string {
	if cleaned == "" {
		return ""
	}
	trimmed := strings.TrimRight(cleaned, "/")
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// ParsePrice strips the currency symbol and group separators from a price
// string and parses it as a decimal number.
func ParsePrice(text string) (float64, bool) {
	cleaned := strings.ReplaceAll(text, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SellerSearchURL builds the search-by-seller URL for a seller name.
func SellerSearchURL(seller string) string {
	return "https://www.ebay.com/sch/i.html?_ssn=" + url.QueryEscape(seller)
}
