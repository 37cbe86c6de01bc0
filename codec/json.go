package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Notes:
// - For query objects (map-like structures), JSON is stable and portable.
// - Cache keys built from JSON output are deterministic for maps because
//   encoding/json sorts map keys.
// - Time, complex numbers, funcs, channels, etc may not be supported.
//
// If you need custom encoding (e.g. protobuf/msgpack), implement Codec and
// pass it where a codec is accepted.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the default codec used by the library.
//
// Cache keys are process-local, so changing the default between releases is
// not a compatibility concern; both built-in codecs produce identical JSON
// for the value shapes vecmem serializes.
var Default Codec = GoJSON{}
