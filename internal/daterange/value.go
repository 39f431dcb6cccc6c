package daterange

import (
	"encoding/json"
)

// Mode selects the output shape of Encode.
type Mode int

const (
	// ModeStructured keeps the range as an object.
	ModeStructured Mode = iota
	// ModeDisplay produces the legacy display string.
	ModeDisplay
)

// Value is a date field as found at the system boundary: either a legacy display string
// or a structured range.
type Value struct {
	legacy     string
	structured Range
	isLegacy   bool
}

// Legacy wraps a display string.
func Legacy(s string) Value {
	return Value{legacy: s, isLegacy: true}
}

// Structured wraps a structured range.
func Structured(r Range) Value {
	return Value{structured: r}
}

// IsLegacy reports whether the value holds a display string.
func (v Value) IsLegacy() bool {
	return v.isLegacy
}

// Text returns the display string of a legacy value, or "" for structured values.
func (v Value) Text() string {
	return v.legacy
}

// Decode normalises a value into a structured range.
func Decode(v Value) Range {
	if v.isLegacy {
		return Parse(v.legacy)
	}
	return v.structured.Normalize()
}

// Encode converts a range into the requested shape.
func Encode(r Range, mode Mode, presentLabel string) Value {
	if mode == ModeDisplay {
		return Legacy(Format(r, presentLabel))
	}
	return Structured(r)
}

// MarshalJSON writes a string for legacy values and an object otherwise.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isLegacy {
		return json.Marshal(v.legacy)
	}
	return json.Marshal(v.structured)
}

// UnmarshalJSON keeps the shape found on the wire.
func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Legacy(s)
		return nil
	}
	r, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	*v = Structured(r)
	return nil
}
