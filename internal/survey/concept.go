package survey

import (
	"regexp"
	"strconv"
	"strings"
)

// Concept is one of the four ordinal buckets a rating falls into.
type Concept string

const (
	Excellent    Concept = "Excelente"
	Good         Concept = "Bom"
	Regular      Concept = "Regular"
	Insufficient Concept = "Insuficiente"
)

// Concepts lists the buckets from best to worst. Tables and charts emit them in this order.
var Concepts = []Concept{Excellent, Good, Regular, Insufficient}

// Rating is a discrete answer on the 1..4 scale. The zero value means the
// respondent gave no usable answer and is excluded from every statistic.
type Rating int

const (
	NoRating  Rating = 0
	MinRating Rating = 1
	MaxRating Rating = 4
)

// Valid reports whether r is on the 1..4 scale.
func (r Rating) Valid() bool {
	return r >= MinRating && r <= MaxRating
}

// Concept maps a valid rating to its bucket: 4=Excelente, 3=Bom, 2=Regular, 1=Insuficiente.
func (r Rating) Concept() (Concept, bool) {
	switch r {
	case 4:
		return Excellent, true
	case 3:
		return Good, true
	case 2:
		return Regular, true
	case 1:
		return Insufficient, true
	}
	return "", false
}

var notApplicablePattern = regexp.MustCompile(`(?i)^n(ã|a)o se aplica`)

var labelPrefixes = []struct {
	prefix string
	rating Rating
}{
	{"excelente", 4},
	{"bom", 3},
	{"regular", 2},
	{"insuficiente", 1},
}

// ParseLabel converts a free-text answer of the label schema into a rating.
// "Bom/Boa" and "Insuficiente/Ruim" match by prefix; "Não se aplica", blanks
// and anything unmatched yield NoRating.
func ParseLabel(answer string) Rating {
	a := strings.TrimSpace(answer)
	if a == "" || notApplicablePattern.MatchString(a) {
		return NoRating
	}
	lower := strings.ToLower(a)
	for _, p := range labelPrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return p.rating
		}
	}
	return NoRating
}

// ParseNumeric converts a cell of the numeric schema into a rating. Values 1..4
// pass through; 5 means "not applicable" and, like any non-integer or
// non-finite value, yields NoRating.
func ParseNumeric(cell string) Rating {
	n, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return NoRating
	}
	r := Rating(n)
	if float64(r) != n || !r.Valid() {
		return NoRating
	}
	return r
}

// isScoreCell reports whether a raw cell holds a numeric schema answer, 5 included.
func isScoreCell(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "1", "2", "3", "4", "5":
		return true
	}
	return false
}
