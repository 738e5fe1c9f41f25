package song

import (
	"bytes"
	"encoding/json"

	"github.com/jsphweid/songforge/model"
)

// Marshal renders the on-disk form of a document: two-space indented JSON
// without HTML escaping.
func Marshal(s model.Song) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
