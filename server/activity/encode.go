package activity

import (
	"bytes"
	"encoding/json"
)

// Marshal is json.Marshal without HTML escaping, so content such as
// "<p>hi</p>" is written the way it was read.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
