package fetcher

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// DecodeJSONObject decodes a single JSON document. Empty bodies are an error.
func DecodeJSONObject[T any](body []byte) (*T, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, eris.New("json: empty body")
	}
	var obj T
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, eris.Wrap(err, "json: decode object")
	}
	return &obj, nil
}
