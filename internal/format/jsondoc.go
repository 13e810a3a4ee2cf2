package format

import (
	"fmt"
	"strings"

	"glot.fit/lingocart/internal/fragment"
)

// JSONParser is the generic fallback for structured content: it walks
// arbitrary JSON and emits every string leaf that survives the
// textual-content filter. It must sit after the structure-aware JSON
// formats in the registry or their documents degrade to a flat
// key/value walk.
type JSONParser struct{}

func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

func (p *JSONParser) Type() string {
	return TypeJSON
}

func (p *JSONParser) Detect(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return false
	}
	_, err := decodeJSON(content)
	return err == nil
}

func (p *JSONParser) Validate(content string) bool {
	return p.Detect(content)
}

func (p *JSONParser) Extract(content string) []fragment.Fragment {
	doc, err := decodeJSON(content)
	if err != nil {
		return nil
	}
	var frags []fragment.Fragment
	walkJSON(doc, "", nil, func(path string, keys []string, value string) (string, bool) {
		frags = append(frags, fragment.Fragment{
			ID:           fmt.Sprintf("json-%d", len(frags)),
			OriginalText: value,
			Path:         path,
			Context:      strings.Join(keys, " > "),
			Type:         fragment.TypeText,
		})
		return "", false
	})
	return frags
}

func (p *JSONParser) Rebuild(content string, fragments []fragment.Fragment) (string, error) {
	doc, err := decodeJSON(content)
	if err != nil {
		return content, nil
	}

	byPath := make(map[string]fragment.Fragment, len(fragments))
	for _, f := range fragments {
		byPath[f.Path] = f
	}

	rebuilt := walkJSON(doc, "", nil, func(path string, keys []string, value string) (string, bool) {
		f, ok := byPath[path]
		if !ok {
			return "", false
		}
		return f.Output(), true
	})
	return encodeJSON(rebuilt)
}

// jsonVisit observes one translatable string leaf and may return a
// replacement value.
type jsonVisit func(path string, keys []string, value string) (string, bool)

// walkJSON traverses a decoded JSON value depth-first, object keys in
// lexical order so paths are reproducible, and returns the (possibly
// mutated) value.
func walkJSON(node any, path string, keys []string, visit jsonVisit) any {
	switch v := node.(type) {
	case map[string]any:
		for _, key := range sortedKeys(v) {
			childPath := key
			if path != "" {
				childPath = path + "." + key
			}
			v[key] = walkJSON(v[key], childPath, append(keys, key), visit)
		}
		return v
	case []any:
		for i := range v {
			v[i] = walkJSON(v[i], fmt.Sprintf("%s[%d]", path, i), keys, visit)
		}
		return v
	case string:
		if !fragment.Translatable(v, fragment.MinLenJSON) {
			return v
		}
		if next, replace := visit(path, keys, v); replace {
			return next
		}
		return v
	default:
		return node
	}
}
