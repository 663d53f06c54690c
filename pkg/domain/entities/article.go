package entities

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ArticleWidth is the fixed width of a normalized article identifier
const ArticleWidth = 12

// DefaultLocation is used when a record carries no location
const DefaultLocation = "Unknown"

// Article represents a product identifier, zero-padded to ArticleWidth characters
type Article string

// OrgUnit represents an organizational-unit identifier (the OM column)
type OrgUnit string

// NormalizeArticle converts a raw identifier to its fixed-width form.
// Identifiers already ArticleWidth characters or longer are returned unchanged,
// and a leading sign stays in front of the padding.
func NormalizeArticle(raw string) Article {
	s := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(s)
	if n >= ArticleWidth {
		return Article(s)
	}

	pad := strings.Repeat("0", ArticleWidth-n)
	if s != "" && (s[0] == '+' || s[0] == '-') {
		return Article(s[:1] + pad + s[1:])
	}
	return Article(pad + s)
}

// GroupKey identifies an independent transfer group
type GroupKey struct {
	Article Article
	OM      OrgUnit
}

// String returns the key in "article|om" form
func (k GroupKey) String() string {
	return fmt.Sprintf("%s|%s", k.Article, k.OM)
}

// Less orders keys by article, then by OM. Numeric OM values sort before
// non-numeric ones and compare by value, so 999 sorts before 1000; ties and
// non-numeric values fall back to plain string order.
func (k GroupKey) Less(other GroupKey) bool {
	if k.Article != other.Article {
		return k.Article < other.Article
	}
	return lessOrgUnit(k.OM, other.OM)
}

func lessOrgUnit(a, b OrgUnit) bool {
	af, aNumeric := numericOrgUnit(a)
	bf, bNumeric := numericOrgUnit(b)
	switch {
	case aNumeric && !bNumeric:
		return true
	case !aNumeric && bNumeric:
		return false
	case aNumeric && af != bf:
		return af < bf
	}
	return a < b
}

// numericOrgUnit parses an OM value; NaN counts as non-numeric
func numericOrgUnit(om OrgUnit) (float64, bool) {
	f, err := strconv.ParseFloat(string(om), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
