package results

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Option is one selectable load combination.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Selector groups. Each pair is one ULS and one SLS group.
const (
	ULSWall = "uls-wall"
	SLSWall = "sls-wall"
	ULSRoof = "uls-roof"
	SLSRoof = "sls-roof"
)

// Options lists the combinations per selector group, label first and the
// backend value it stands for second.
var Options = map[string][]Option{
	ULSWall: {
		{"1.4D", "ULS_1_4D"},
		{"1.25D + 1.4W", "ULS_1_25D_1_4W"},
		{"0.9D + 1.4W", "ULS_0_9D_1_4W"},
		{"1.25D + 1.5L + 0.4W", "ULS_1_25D_1_5L_0_4W"},
		{"1.0D + 1.0E", "ULS_1_0D_1_0E"},
	},
	SLSWall: {
		{"1.0D + 0.75W", "SLS_1_0D_0_75W"},
		{"1.0D + 1.0W", "SLS_1_0D_1_0W"},
		{"1.0D + 0.5L + 0.75W", "SLS_1_0D_0_5L_0_75W"},
	},
	ULSRoof: {
		{"1.4D", "ULS_1_4D"},
		{"1.25D + 1.5S", "ULS_1_25D_1_5S"},
		{"1.25D + 1.4W + 0.5S", "ULS_1_25D_1_4W_0_5S"},
		{"0.9D + 1.4W", "ULS_0_9D_1_4W"},
	},
	SLSRoof: {
		{"1.0D + 1.0S", "SLS_1_0D_1_0S"},
		{"1.0D + 0.75W", "SLS_1_0D_0_75W"},
	},
}

// OptionID is the radio id of the i-th option of group, counted from 1.
func OptionID(group string, i int) string {
	return group + "-" + strconv.Itoa(i)
}

// Lookup returns the backend value of a label in group.
func Lookup(group, label string) (string, bool) {
	for _, o := range Options[group] {
		if o.Label == label {
			return o.Value, true
		}
	}
	return "", false
}

// Table is a combination table ready to render.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

var ErrUnexpectedShape = errors.New("unexpected combination response")

// WallTable builds the wall table from an array of objects. The header is
// the first object's keys in the order the backend sent them, after a
// leading index column counted from 1.
func WallTable(raw json.RawMessage) (Table, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := expectDelim(dec, '['); err != nil {
		return Table{}, err
	}
	t := Table{Header: []string{"#"}}
	for i := 1; dec.More(); i++ {
		keys, values, err := orderedObject(dec)
		if err != nil {
			return Table{}, err
		}
		if i == 1 {
			t.Header = append(t.Header, keys...)
		}
		t.Rows = append(t.Rows, append([]string{strconv.Itoa(i)}, values...))
	}
	return t, nil
}

// RoofTable builds the roof table from [header, upwind, downwind] arrays.
func RoofTable(raw json.RawMessage) (Table, error) {
	var parts [][]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&parts); err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	if len(parts) < 3 {
		return Table{}, fmt.Errorf("%w: want header and two rows, got %d arrays", ErrUnexpectedShape, len(parts))
	}
	t := Table{Header: append([]string{""}, cells(parts[0])...)}
	t.Rows = [][]string{
		append([]string{"Upwind"}, cells(parts[1])...),
		append([]string{"Downwind"}, cells(parts[2])...),
	}
	return t, nil
}

func cells(vs []any) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = cell(v)
	}
	return out
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: got %v, want %v", ErrUnexpectedShape, tok, want)
	}
	return nil
}

// orderedObject reads one object and keeps its key order.
func orderedObject(dec *json.Decoder) ([]string, []string, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}
	var keys, values []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		key, _ := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		keys = append(keys, key)
		values = append(values, cell(v))
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}
