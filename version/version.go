// Package version implements module version parsing, ordering and version
// selectors.
//
// Version format: a sequence of parts separated by '.', '-', '_' or '+'. A part
// boundary is also inserted wherever digits and non-digits meet, so "1.0rc1"
// has the parts [1 0 rc 1].
//
// Ordering rules, applied part by part:
//   - Numeric parts compare numerically and are higher than non-numeric parts
//   - "dev" is lower than any other non-numeric part
//   - "rc" < "snapshot" < "final" < "ga" < "release" < "sp" are higher than
//     any other non-numeric part (case-insensitive)
//   - Other non-numeric parts compare lexicographically (case-sensitive)
//   - When one version runs out of parts, an extra numeric part makes the other
//     version higher (1.1 < 1.1.0) and an extra non-numeric part makes it lower
//     (1.1-rc < 1.1)
//
// Versions that are equal part by part but differ textually (1.0 vs 1-0) are
// ordered by their raw text, so [Compare] is a total order.
package version

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
)

// specialQualifiers ranks qualifiers that do not sort lexicographically.
// Non-special qualifiers rank 0.
var specialQualifiers = map[string]int{
	"dev":      -1,
	"rc":       1,
	"snapshot": 2,
	"final":    3,
	"ga":       4,
	"release":  5,
	"sp":       6,
}

// Part is one component of a parsed version.
type Part struct {
	Value     string
	IsNumeric bool
}

// Parsed is a parsed version.
type Parsed struct {
	Source string
	Parts  []Part
}

// Parse splits a version string into its parts. Parsing never fails; the empty
// string parses to a version with no parts.
func Parse(s string) Parsed {
	p := Parsed{Source: s}
	var cur strings.Builder
	curNumeric := false

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		p.Parts = append(p.Parts, Part{Value: cur.String(), IsNumeric: curNumeric})
		cur.Reset()
	}

	for _, r := range s {
		switch {
		case r == '.' || r == '-' || r == '_' || r == '+':
			flush()
		case unicode.IsDigit(r):
			if cur.Len() > 0 && !curNumeric {
				flush()
			}
			curNumeric = true
			cur.WriteRune(r)
		default:
			if cur.Len() > 0 && curNumeric {
				flush()
			}
			curNumeric = false
			cur.WriteRune(r)
		}
	}
	flush()
	return p
}

// IsQualified reports whether the version contains a non-numeric part.
func (p Parsed) IsQualified() bool {
	for _, part := range p.Parts {
		if !part.IsNumeric {
			return true
		}
	}
	return false
}

// BaseVersion returns the leading numeric parts joined with '.'.
func (p Parsed) BaseVersion() string {
	var nums []string
	for _, part := range p.Parts {
		if !part.IsNumeric {
			break
		}
		nums = append(nums, part.Value)
	}
	return strings.Join(nums, ".")
}

// ComparePart compares two parts.
func ComparePart(a, b Part) int {
	if a.Value == b.Value {
		return 0
	}
	if a.IsNumeric && b.IsNumeric {
		return compareNumeric(a.Value, b.Value)
	}
	if a.IsNumeric {
		return 1
	}
	if b.IsNumeric {
		return -1
	}

	sa, aSpecial := specialQualifiers[strings.ToLower(a.Value)]
	sb, bSpecial := specialQualifiers[strings.ToLower(b.Value)]
	if aSpecial || bSpecial {
		if c := cmp.Compare(sa, sb); c != 0 {
			return c
		}
	}
	return strings.Compare(a.Value, b.Value)
}

// compareNumeric compares two digit strings of any length.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// Compare compares two version strings.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func Compare(a, b string) int {
	if a == b {
		return 0
	}
	if c := compareParsed(Parse(a), Parse(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func compareParsed(a, b Parsed) int {
	n := min(len(a.Parts), len(b.Parts))
	for i := range n {
		if c := ComparePart(a.Parts[i], b.Parts[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(a.Parts) > n:
		if a.Parts[n].IsNumeric {
			return 1
		}
		return -1
	case len(b.Parts) > n:
		if b.Parts[n].IsNumeric {
			return -1
		}
		return 1
	}
	return 0
}

// Sort sorts a slice of version strings in ascending order.
func Sort(versions []string) {
	slices.SortFunc(versions, Compare)
}

// SortDescending sorts a slice of version strings highest first.
func SortDescending(versions []string) {
	slices.SortFunc(versions, func(a, b string) int { return Compare(b, a) })
}

// Max returns the higher of two versions.
func Max(a, b string) string {
	if Compare(a, b) >= 0 {
		return a
	}
	return b
}

// Highest returns the highest version in the slice, or "" if it is empty.
func Highest(versions []string) string {
	if len(versions) == 0 {
		return ""
	}
	return slices.MaxFunc(versions, Compare)
}
