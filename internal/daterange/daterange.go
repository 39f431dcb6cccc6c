// Package daterange converts between structured date ranges and their display strings.
//
// The legacy plain-string shape of a period ("2020-01 - Presente") is only understood by
// this package: everything entering the system is normalised into a structured Range.
package daterange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Separator joins the two ends of a range in its display form.
const Separator = " - "

// presentTokens are the localized words meaning "up to now", compared case-insensitively.
var presentTokens = map[string]struct{}{
	"presente":    {},
	"present":     {},
	"actualmente": {},
	"présent":     {},
	"actual":      {},
	"current":     {},
	"currently":   {},
	"en cours":    {},
	"aujourd'hui": {},
}

// Range is the structured form of a time period.
// When IsPresent is true, End must be ignored.
type Range struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	IsPresent bool   `json:"isPresent"`
}

// Kind classifies a range by which ends are populated.
type Kind int

const (
	// Empty has no start, no end and is not open-ended.
	Empty Kind = iota
	// Single is a single date held in Start. An end-only range normalises to it.
	Single
	// Bounded has both a start and an end.
	Bounded
	// OpenEnded runs until the present.
	OpenEnded
)

// Kind reports the shape of the normalised range.
func (r Range) Kind() Kind {
	r = r.Normalize()
	switch {
	case r.IsPresent:
		return OpenEnded
	case r.Start != "" && r.End != "":
		return Bounded
	case r.Start != "":
		return Single
	default:
		return Empty
	}
}

// Normalize moves the date of an end-only range into Start, the canonical Single shape.
func (r Range) Normalize() Range {
	if !r.IsPresent && r.Start == "" && r.End != "" {
		r.Start, r.End = r.End, ""
	}
	return r
}

// IsZero reports whether the range carries no information.
func (r Range) IsZero() bool {
	return r.Start == "" && r.End == "" && !r.IsPresent
}

// WithPresent toggles the open-ended flag. End is cleared in both directions so a stale
// end date cannot resurface after toggling back off.
func (r Range) WithPresent(on bool) Range {
	r.IsPresent = on
	r.End = ""
	return r
}

// IsPresentToken reports whether s is one of the localized "present" words.
func IsPresentToken(s string) bool {
	_, ok := presentTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Parse decodes a legacy display string into a Range.
func Parse(s string) Range {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}
	}

	start, end, found := strings.Cut(s, Separator)
	if !found {
		if IsPresentToken(s) {
			return Range{IsPresent: true}
		}
		return Range{Start: s}
	}

	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if IsPresentToken(end) {
		return Range{Start: start, IsPresent: true}
	}
	return Range{Start: start, End: end}
}

// Format renders the range for display using the localized present label.
func Format(r Range, presentLabel string) string {
	if r.IsPresent {
		if r.Start == "" {
			return presentLabel
		}
		return r.Start + Separator + presentLabel
	}
	switch {
	case r.Start != "" && r.End != "":
		return r.Start + Separator + r.End
	case r.Start != "":
		return r.Start
	default:
		return r.End
	}
}

// UnmarshalJSON accepts null, a legacy string, or a structured object.
func (r *Range) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	*r = decoded
	return nil
}

// DecodeJSON decodes a raw JSON date field of either shape.
func DecodeJSON(data []byte) (Range, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Range{}, nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Range{}, fmt.Errorf("decode legacy date string: %w", err)
		}
		return Parse(s), nil
	case '{':
		// alias drops the UnmarshalJSON method to avoid recursion
		type alias Range
		var a alias
		if err := json.Unmarshal(trimmed, &a); err != nil {
			return Range{}, fmt.Errorf("decode date range: %w", err)
		}
		return Range(a).Normalize(), nil
	default:
		return Range{}, fmt.Errorf("decode date range: unexpected JSON value %s", string(trimmed))
	}
}
