package netlist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// rawPort mirrors one entry of a module's top-level "ports" object.
// Direction is unused by Parse today (block-level I/O framing is out of
// scope per this module's boundary) but is kept for shape-fidelity with
// the documented wire format.
type rawPort struct {
	Direction string `json:"direction"`
}

type rawModule struct {
	Ports map[string]rawPort `json:"ports"`
	Cells map[string]rawCell `json:"cells"`
}

type rawCell struct {
	Type        string              `json:"type"`
	Parameters  map[string]any      `json:"parameters"`
	Connections map[string][]rawBit `json:"connections"`
}

// rawBit unmarshals either a JSON number (a wire id) or a JSON string
// (a constant, currently ignored).
type rawBit struct {
	asInt   int64
	isInt   bool
	asConst string
}

func (b *rawBit) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		v, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: bit %q is not an integer", ErrMalformed, n.String())
		}
		b.asInt, b.isInt = v, true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: bit is neither number nor string", ErrMalformed)
	}
	b.asConst = s
	return nil
}

func (b rawBit) toBit() Bit {
	if b.isInt {
		return Bit{Net: "net_" + strconv.FormatInt(b.asInt, 10)}
	}
	return Bit{IsConst: true}
}

// Parse decodes data as a Yosys-shaped netlist JSON document and returns
// the first module encountered, in document order (Go map iteration
// order is unspecified, so the top-level "modules" object is walked
// with a streaming token decoder rather than unmarshalled into a map).
func Parse(data []byte) (*Module, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if _, err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected object key", ErrMalformed)
		}
		if key != "modules" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			continue
		}

		if _, err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		if !dec.More() {
			return nil, fmt.Errorf("%w: no modules found", ErrMalformed)
		}
		nameTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		name, ok := nameTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected module name", ErrMalformed)
		}

		var raw rawModule
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		return &Module{Name: name, Cells: toCells(raw)}, nil
	}

	return nil, fmt.Errorf("%w: missing \"modules\"", ErrMalformed)
}

func toCells(raw rawModule) map[string]Cell {
	cells := make(map[string]Cell, len(raw.Cells))
	for name, rc := range raw.Cells {
		conns := make(map[string][]Bit, len(rc.Connections))
		for port, bits := range rc.Connections {
			converted := make([]Bit, len(bits))
			for i, b := range bits {
				converted[i] = b.toBit()
			}
			conns[port] = converted
		}
		cells[name] = Cell{Name: name, Type: rc.Type, Connections: conns}
	}
	return cells
}

func expectDelim(dec *json.Decoder, want json.Delim) (json.Delim, error) {
	tok, err := dec.Token()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	d, ok := tok.(json.Delim)
	if !ok || d != want {
		return 0, fmt.Errorf("%w: expected %q", ErrMalformed, want)
	}
	return d, nil
}
