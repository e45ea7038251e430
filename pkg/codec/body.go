// Package codec decodes external event bodies into the request model.
package codec

import (
	"encoding/base64"
	"encoding/json"
)

// DecodeBody turns an event body into the request body value. A body flagged
// as base64-encoded is decoded to text first; the text is then parsed as
// JSON when possible, otherwise it is kept verbatim. Both decode failures
// are swallowed: a body that cannot be decoded or parsed stays raw text.
func DecodeBody(body string, isBase64Encoded bool) any {
	text := body
	if isBase64Encoded {
		if raw, err := base64.StdEncoding.DecodeString(body); err == nil {
			text = string(raw)
		}
	}

	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return text
	}
	return v
}
