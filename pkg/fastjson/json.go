package fastjson

import (
	"io"
	"net/http"

	gojson "github.com/goccy/go-json"
)

// Marshal serializes v with goccy/go-json.
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

func NewDecoder(r io.Reader) *gojson.Decoder {
	return gojson.NewDecoder(r)
}

// Print writes v to w as indented JSON followed by a newline. Used by the
// CLI for machine-readable output.
func Print(w io.Writer, v interface{}) error {
	enc := gojson.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Write sends v as a JSON response with the given status.
func Write(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	gojson.NewEncoder(w).Encode(v)
}

// Decode reads a JSON request body into v, rejecting unknown fields.
func Decode(r io.Reader, v interface{}) error {
	dec := gojson.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
