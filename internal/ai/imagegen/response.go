package imagegen

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/brandcopilot-backend/internal/ai/aierr"
)

// extractor pulls a base64 image string out of the decoded response body.
type extractor struct {
	name string
	try  func(body map[string]json.RawMessage) (string, bool)
}

func stringKey(key string) extractor {
	return extractor{name: key, try: func(body map[string]json.RawMessage) (string, bool) {
		var s string
		if raw, ok := body[key]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
			return s, true
		}
		return "", false
	}}
}

func firstOfArray(key string) extractor {
	return extractor{name: key + "[0]", try: func(body map[string]json.RawMessage) (string, bool) {
		var arr []string
		if raw, ok := body[key]; ok && json.Unmarshal(raw, &arr) == nil && len(arr) > 0 && arr[0] != "" {
			return arr[0], true
		}
		return "", false
	}}
}

// extractors are tried in order; the first hit wins.
var extractors = []extractor{
	firstOfArray("images"),
	stringKey("image"),
	stringKey("image_base64"),
	stringKey("imageUriBase64"),
}

// extractImage returns the encoded image and the name of the strategy that found it.
func extractImage(raw []byte) (string, string, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", "", aierr.Service(aierr.ServiceUnavailable, fmt.Errorf("decode image response: %w", err))
	}
	for _, ex := range extractors {
		if s, ok := ex.try(body); ok {
			return s, ex.name, nil
		}
	}
	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var cause error
	var msg string
	if raw, ok := body["error"]; ok && json.Unmarshal(raw, &msg) == nil && msg != "" {
		cause = fmt.Errorf("%s", msg)
	}
	return "", "", &aierr.ServiceError{Kind: aierr.NoImageReturned, Keys: keys, Err: cause}
}

// decodeImage accepts plain base64 or a data URI, padded or not.
func decodeImage(encoded string) ([]byte, error) {
	s := strings.TrimSpace(encoded)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	b, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, aierr.Service(aierr.ServiceUnavailable, fmt.Errorf("decode image payload: %w", err))
	}
	return b, nil
}
