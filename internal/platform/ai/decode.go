package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeStrict validates and decodes a raw backend response into T. The
// backend is untrusted input: empty documents, non-JSON text, and documents
// with fields outside the declared schema are all rejected as malformed.
// Markdown code fences around the JSON body are tolerated since hosted
// models frequently add them despite instructions.
func DecodeStrict[T any](raw []byte) (*T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, &BackendError{Kind: FailureMalformed, Err: fmt.Errorf("empty response")}
	}

	trimmed = stripCodeFence(trimmed)

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()

	out := new(T)
	if err := dec.Decode(out); err != nil {
		return nil, &BackendError{Kind: FailureMalformed, Err: fmt.Errorf("decode response: %w", err)}
	}
	return out, nil
}

func stripCodeFence(b []byte) []byte {
	s := strings.TrimSpace(string(b))
	if !strings.HasPrefix(s, "```") {
		return b
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return []byte(strings.TrimSpace(s))
}
