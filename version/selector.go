package version

import (
	"fmt"
	"strings"
)

// Selector decides whether a version satisfies a declared constraint.
type Selector interface {
	// Accept reports whether the version satisfies the selector.
	Accept(version string) bool

	// IsDynamic reports whether the selector can match more than one version.
	IsDynamic() bool

	// String returns the selector in its declared notation.
	String() string
}

// ParseSelector parses a version constraint.
//
// Supported notations:
//   - "1.0": exact version
//   - "[1.0,2.0]", "[1.0,2.0)", "]1.0,2.0[", "(,2.0]", "[1.0,)": ranges
//   - "1.+", "+": prefix match
//   - "latest.release", "latest.integration": latest status
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, fmt.Errorf("empty version selector")
	case strings.HasPrefix(s, "latest."):
		return LatestSelector{Status: strings.TrimPrefix(s, "latest.")}, nil
	case s == "+":
		return PrefixSelector{}, nil
	case strings.HasSuffix(s, "+"):
		return PrefixSelector{Prefix: strings.TrimSuffix(s, "+")}, nil
	case isRangeNotation(s):
		return ParseRange(s)
	default:
		if strings.ContainsAny(s, "[](),") {
			return nil, fmt.Errorf("invalid version selector %q", s)
		}
		return ExactSelector{Version: s}, nil
	}
}

// MustParseSelector parses a selector or panics. Use only for constants/tests.
func MustParseSelector(s string) Selector {
	sel, err := ParseSelector(s)
	if err != nil {
		panic(err)
	}
	return sel
}

func isRangeNotation(s string) bool {
	if len(s) < 3 {
		return false
	}
	return strings.ContainsRune("[](", rune(s[0])) && strings.ContainsRune("[])", rune(s[len(s)-1]))
}

// ExactSelector accepts a single version.
type ExactSelector struct {
	Version string
}

func (s ExactSelector) Accept(v string) bool { return v == s.Version }
func (s ExactSelector) IsDynamic() bool      { return false }
func (s ExactSelector) String() string       { return s.Version }

// PrefixSelector accepts every version starting with Prefix.
// An empty prefix accepts everything.
type PrefixSelector struct {
	Prefix string
}

func (s PrefixSelector) Accept(v string) bool { return strings.HasPrefix(v, s.Prefix) }
func (s PrefixSelector) IsDynamic() bool      { return true }
func (s PrefixSelector) String() string       { return s.Prefix + "+" }

// LatestSelector accepts any version; the highest one with the requested status
// wins during metadata resolution, which happens outside this package.
type LatestSelector struct {
	Status string
}

func (s LatestSelector) Accept(string) bool { return true }
func (s LatestSelector) IsDynamic() bool    { return true }
func (s LatestSelector) String() string     { return "latest." + s.Status }

// Bound is one end of a range. An empty Version means unbounded.
type Bound struct {
	Version   string
	Inclusive bool
}

// IsUnbounded reports whether the bound places no limit.
func (b Bound) IsUnbounded() bool {
	return b.Version == ""
}

// RangeSelector accepts versions between two bounds.
type RangeSelector struct {
	Lower Bound
	Upper Bound
}

// ParseRange parses range notation such as "[1.0,2.0)".
func ParseRange(s string) (RangeSelector, error) {
	s = strings.TrimSpace(s)
	if !isRangeNotation(s) {
		return RangeSelector{}, fmt.Errorf("invalid version range %q", s)
	}
	open, end := s[0], s[len(s)-1]
	body := s[1 : len(s)-1]

	lo, hi, found := strings.Cut(body, ",")
	if !found {
		// "[1.0]" pins a single version.
		if open != '[' || end != ']' || strings.TrimSpace(body) == "" {
			return RangeSelector{}, fmt.Errorf("invalid version range %q", s)
		}
		v := strings.TrimSpace(body)
		return RangeSelector{Lower: Bound{v, true}, Upper: Bound{v, true}}, nil
	}
	if strings.Contains(hi, ",") {
		return RangeSelector{}, fmt.Errorf("invalid version range %q: too many bounds", s)
	}

	r := RangeSelector{
		Lower: Bound{Version: strings.TrimSpace(lo), Inclusive: open == '['},
		Upper: Bound{Version: strings.TrimSpace(hi), Inclusive: end == ']'},
	}
	if r.Lower.IsUnbounded() {
		r.Lower.Inclusive = false
	}
	if r.Upper.IsUnbounded() {
		r.Upper.Inclusive = false
	}
	if r.Lower.IsUnbounded() && r.Upper.IsUnbounded() {
		return RangeSelector{}, fmt.Errorf("invalid version range %q: both bounds are open", s)
	}
	if r.IsEmpty() {
		return RangeSelector{}, fmt.Errorf("invalid version range %q: lower bound exceeds upper bound", s)
	}
	return r, nil
}

// Accept reports whether v lies within the range.
func (r RangeSelector) Accept(v string) bool {
	if !r.Lower.IsUnbounded() {
		c := Compare(v, r.Lower.Version)
		if c < 0 || (c == 0 && !r.Lower.Inclusive) {
			return false
		}
	}
	if !r.Upper.IsUnbounded() {
		c := Compare(v, r.Upper.Version)
		if c > 0 || (c == 0 && !r.Upper.Inclusive) {
			return false
		}
	}
	return true
}

func (r RangeSelector) IsDynamic() bool { return true }

// IsEmpty reports whether no version can satisfy the range.
func (r RangeSelector) IsEmpty() bool {
	if r.Lower.IsUnbounded() || r.Upper.IsUnbounded() {
		return false
	}
	c := Compare(r.Lower.Version, r.Upper.Version)
	return c > 0 || (c == 0 && !(r.Lower.Inclusive && r.Upper.Inclusive))
}

// String renders the range in canonical bracket notation.
func (r RangeSelector) String() string {
	var b strings.Builder
	if r.Lower.Inclusive {
		b.WriteByte('[')
	} else {
		b.WriteByte('(')
	}
	b.WriteString(r.Lower.Version)
	b.WriteByte(',')
	b.WriteString(r.Upper.Version)
	if r.Upper.Inclusive {
		b.WriteByte(']')
	} else {
		b.WriteByte(')')
	}
	return b.String()
}

// Equal reports whether two ranges have identical bounds.
func (r RangeSelector) Equal(o RangeSelector) bool {
	return boundEqual(r.Lower, o.Lower) && boundEqual(r.Upper, o.Upper)
}

func boundEqual(a, b Bound) bool {
	if a.IsUnbounded() || b.IsUnbounded() {
		return a.IsUnbounded() == b.IsUnbounded()
	}
	return a.Inclusive == b.Inclusive && Compare(a.Version, b.Version) == 0
}

// Intersect returns the range accepted by both r and o.
// The second result is false when the ranges are disjoint.
func (r RangeSelector) Intersect(o RangeSelector) (RangeSelector, bool) {
	out := RangeSelector{
		Lower: tighterLower(r.Lower, o.Lower),
		Upper: tighterUpper(r.Upper, o.Upper),
	}
	if out.IsEmpty() {
		return RangeSelector{}, false
	}
	return out, true
}

func tighterLower(a, b Bound) Bound {
	switch {
	case a.IsUnbounded():
		return b
	case b.IsUnbounded():
		return a
	}
	c := Compare(a.Version, b.Version)
	switch {
	case c > 0:
		return a
	case c < 0:
		return b
	case !a.Inclusive:
		return a
	default:
		return b
	}
}

func tighterUpper(a, b Bound) Bound {
	switch {
	case a.IsUnbounded():
		return b
	case b.IsUnbounded():
		return a
	}
	c := Compare(a.Version, b.Version)
	switch {
	case c < 0:
		return a
	case c > 0:
		return b
	case !a.Inclusive:
		return a
	default:
		return b
	}
}
