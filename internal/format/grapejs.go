package format

import (
	"fmt"
	"regexp"

	"glot.fit/lingocart/internal/fragment"
)

// GrapeJSParser handles GrapeJS page-builder component trees: either a
// top-level JSON array of components or an object whose "components"
// key holds one. Each component contributes its content string, its
// textual attribute values, and its trait values, recursing into child
// components.
type GrapeJSParser struct{}

func NewGrapeJSParser() *GrapeJSParser {
	return &GrapeJSParser{}
}

func (p *GrapeJSParser) Type() string {
	return TypeGrapeJS
}

// grapeSkipAttrPattern names attribute keys that carry identity or
// layout, never copy.
var grapeSkipAttrPattern = regexp.MustCompile(`(?i)^(id|class|src|href|url|link|style|width|height)$`)

func (p *GrapeJSParser) Detect(content string) bool {
	_, ok := p.rootComponents(content)
	return ok
}

func (p *GrapeJSParser) Validate(content string) bool {
	components, ok := p.rootComponents(content)
	if !ok {
		return false
	}
	for _, c := range components {
		if _, ok := c.(map[string]any); !ok {
			return false
		}
	}
	return true
}

// rootComponents locates the component list: the document root when it
// is an array, otherwise the root object's "components" key.
func (p *GrapeJSParser) rootComponents(content string) ([]any, bool) {
	doc, err := decodeJSON(content)
	if err != nil {
		return nil, false
	}
	switch v := doc.(type) {
	case []any:
		return v, len(v) > 0
	case map[string]any:
		components, ok := v["components"].([]any)
		return components, ok
	}
	return nil, false
}

func (p *GrapeJSParser) Extract(content string) []fragment.Fragment {
	components, ok := p.rootComponents(content)
	if !ok {
		return nil
	}

	var frags []fragment.Fragment
	walkGrapeComponents(components, "", func(path, context string, typ fragment.Type, raw, stripped string) (string, bool) {
		frags = append(frags, fragment.Fragment{
			ID:           fmt.Sprintf("gjs-%d", len(frags)),
			OriginalText: stripped,
			Path:         path,
			Context:      context,
			Type:         typ,
		})
		return "", false
	})
	return frags
}

func (p *GrapeJSParser) Rebuild(content string, fragments []fragment.Fragment) (string, error) {
	doc, err := decodeJSON(content)
	if err != nil {
		return content, nil
	}

	var components []any
	var root map[string]any
	switch v := doc.(type) {
	case []any:
		components = v
	case map[string]any:
		root = v
		components, _ = v["components"].([]any)
	}
	if components == nil {
		return content, nil
	}

	byPath := make(map[string]fragment.Fragment, len(fragments))
	for _, f := range fragments {
		byPath[f.Path] = f
	}

	walkGrapeComponents(components, "", func(path, context string, typ fragment.Type, raw, stripped string) (string, bool) {
		f, ok := byPath[path]
		if !ok {
			return "", false
		}
		if !f.Translated() {
			return raw, true
		}
		// Content values can carry inline tags; swap the text and keep
		// the tags adjacent to it.
		return substituteInMarkup(raw, f.OriginalText, f.TranslatedText), true
	})

	if root != nil {
		return encodeJSON(root)
	}
	return encodeJSON(components)
}

// walkGrapeComponents visits every translatable value of a component
// list. Paths chain structural indexes, e.g.
// "[0].components[1].attributes.alt".
func walkGrapeComponents(components []any, prefix string, visit editorVisit) {
	for i, raw := range components {
		component, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		base := fmt.Sprintf("%s[%d]", prefix, i)
		componentType, _ := component["type"].(string)
		if componentType == "" {
			componentType = "component"
		}

		if value, ok := component["content"].(string); ok {
			stripped := stripMarkup(value)
			if fragment.Translatable(stripped, fragment.MinLenJSON) {
				if next, replace := visit(base+".content", componentType+" content", fragment.TypeText, value, stripped); replace {
					component["content"] = next
				}
			}
		}

		if attributes, ok := component["attributes"].(map[string]any); ok {
			for _, key := range sortedKeys(attributes) {
				if grapeSkipAttrPattern.MatchString(key) {
					continue
				}
				value, ok := attributes[key].(string)
				if !ok || !fragment.Translatable(value, fragment.MinLenJSON) {
					continue
				}
				path := base + ".attributes." + key
				context := componentType + " " + key + " attribute"
				if next, replace := visit(path, context, attrFragmentType(key), value, value); replace {
					attributes[key] = next
				}
			}
		}

		if traits, ok := component["traits"].([]any); ok {
			for j, rawTrait := range traits {
				trait, ok := rawTrait.(map[string]any)
				if !ok {
					continue
				}
				value, ok := trait["value"].(string)
				if !ok || !fragment.Translatable(value, fragment.MinLenJSON) {
					continue
				}
				path := fmt.Sprintf("%s.traits[%d].value", base, j)
				name, _ := trait["name"].(string)
				context := componentType + " trait"
				if name != "" {
					context = componentType + " " + name + " trait"
				}
				if next, replace := visit(path, context, fragment.TypeText, value, value); replace {
					trait["value"] = next
				}
			}
		}

		if children, ok := component["components"].([]any); ok {
			walkGrapeComponents(children, base+".components", visit)
		}
	}
}
