// Package normalize maps heterogeneous upstream payloads onto the canonical
// record types in package provider.
//
// Every function here is pure and total: malformed or missing fields yield
// fewer records or zero values, never an error.
package normalize

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Shape is the top-level layout of a JSON payload.
type Shape int

const (
	// ShapeUnknown is anything that is not a JSON object, an empty object,
	// or an upstream error envelope.
	ShapeUnknown Shape = iota
	// ShapeSingle is one record at the top level ({"symbol": ...} or {"price": ...}).
	ShapeSingle
	// ShapeKeyed is a mapping of symbol to record.
	ShapeKeyed
	// ShapeResults wraps an array of records under a known container key.
	ShapeResults
)

func (s Shape) String() string {
	switch s {
	case ShapeSingle:
		return "single"
	case ShapeKeyed:
		return "keyed"
	case ShapeResults:
		return "results"
	default:
		return "unknown"
	}
}

var resultContainers = []string{"quoteResponse", "spark", "data"}

// payload is a decoded top-level object together with its detected shape.
type payload struct {
	shape  Shape
	fields map[string]json.RawMessage
}

// DetectShape decides once which layout body has.
func DetectShape(body []byte) Shape {
	return decode(body).shape
}

func decode(body []byte) payload {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		return payload{shape: ShapeUnknown}
	}
	if _, ok := fields["symbol"]; ok {
		return payload{shape: ShapeSingle, fields: fields}
	}
	if _, ok := fields["price"]; ok {
		return payload{shape: ShapeSingle, fields: fields}
	}
	for _, k := range resultContainers {
		if _, ok := fields[k]; ok {
			return payload{shape: ShapeResults, fields: fields}
		}
	}
	_, hasCode := fields["code"]
	_, hasMessage := fields["message"]
	if hasCode && hasMessage {
		return payload{shape: ShapeUnknown, fields: fields}
	}
	return payload{shape: ShapeKeyed, fields: fields}
}

// num is a lenient JSON number: quoted or bare. null, empty strings and
// anything non-numeric read as absent.
type num struct {
	v  decimal.Decimal
	ok bool
}

func (n *num) UnmarshalJSON(b []byte) error {
	var d decimal.NullDecimal
	if err := d.UnmarshalJSON(b); err != nil || !d.Valid {
		*n = num{}
		return nil
	}
	*n = num{v: d.Decimal, ok: true}
	return nil
}

func (n num) float() float64 {
	if !n.ok {
		return 0
	}
	return n.v.InexactFloat64()
}

func (n num) round2() float64 {
	if !n.ok {
		return 0
	}
	return n.v.Round(2).InexactFloat64()
}

func (n num) int() int64 {
	if !n.ok {
		return 0
	}
	return n.v.IntPart()
}
