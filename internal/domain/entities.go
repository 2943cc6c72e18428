package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// EntityType is the closed set of entity names the NLU engine can extract.
type EntityType string

const (
	EntityBudget   EntityType = "budget"
	EntityRooms    EntityType = "rooms"
	EntityArea     EntityType = "area"
	EntityLocation EntityType = "location"
)

// ValueKind tags the runtime type of an EntityValue.
type ValueKind int

const (
	KindInt ValueKind = iota
	KindFloat
	KindText
)

// EntityValue is a tagged variant over the heterogeneous value types an
// entity can carry: integer (budget), float (area) or text (rooms,
// location). Consumers switch on Kind instead of type-asserting.
type EntityValue struct {
	Kind  ValueKind
	IntV  int64
	FltV  float64
	TextV string
}

func IntValue(v int64) EntityValue     { return EntityValue{Kind: KindInt, IntV: v} }
func FloatValue(v float64) EntityValue { return EntityValue{Kind: KindFloat, FltV: v} }
func TextValue(v string) EntityValue   { return EntityValue{Kind: KindText, TextV: v} }

// Int returns the integer value, converting a float by truncation.
func (v EntityValue) Int() int64 {
	if v.Kind == KindFloat {
		return int64(v.FltV)
	}
	return v.IntV
}

// Float returns the numeric value as a float.
func (v EntityValue) Float() float64 {
	if v.Kind == KindInt {
		return float64(v.IntV)
	}
	return v.FltV
}

// Text returns the textual value, or the empty string for numbers.
func (v EntityValue) Text() string { return v.TextV }

func (v EntityValue) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.IntV, 10)
	case KindFloat:
		return strconv.FormatFloat(v.FltV, 'f', -1, 64)
	default:
		return v.TextV
	}
}

// MarshalJSON writes the bare value, so an entities map serializes as
// {"budget": 50000000, "rooms": "2LDK"}.
func (v EntityValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindInt:
		return json.Marshal(v.IntV)
	case KindFloat:
		return json.Marshal(v.FltV)
	case KindText:
		return json.Marshal(v.TextV)
	}
	return nil, fmt.Errorf("unknown entity value kind %d", v.Kind)
}

// UnmarshalJSON reconstructs the tag from the JSON shape: integral numbers
// become KindInt, other numbers KindFloat, strings KindText.
func (v *EntityValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = TextValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("entity value must be a string or number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*v = IntValue(i)
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return err
	}
	*v = FloatValue(f)
	return nil
}

// Entities maps entity names to their extracted values.
type Entities map[EntityType]EntityValue

// Merge copies every entry of other into e, overwriting existing keys.
func (e Entities) Merge(other Entities) {
	for k, v := range other {
		e[k] = v
	}
}
