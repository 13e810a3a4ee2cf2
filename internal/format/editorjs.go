package format

import (
	"fmt"
	"regexp"

	"glot.fit/lingocart/internal/fragment"
)

// EditorJSParser handles Editor.js block documents: a JSON object with
// a "blocks" array of {type, data} entries. Extraction maps each known
// block type to its text-bearing data keys; unknown block types get a
// generic scan of string-valued data keys.
type EditorJSParser struct{}

func NewEditorJSParser() *EditorJSParser {
	return &EditorJSParser{}
}

func (p *EditorJSParser) Type() string {
	return TypeEditorJS
}

func (p *EditorJSParser) Detect(content string) bool {
	doc, err := decodeJSON(content)
	if err != nil {
		return false
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return false
	}
	_, ok = obj["blocks"].([]any)
	return ok
}

func (p *EditorJSParser) Validate(content string) bool {
	doc, err := decodeJSON(content)
	if err != nil {
		return false
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return false
	}
	blocks, ok := obj["blocks"].([]any)
	if !ok {
		return false
	}
	for _, b := range blocks {
		if _, ok := b.(map[string]any); !ok {
			return false
		}
	}
	return true
}

func (p *EditorJSParser) Extract(content string) []fragment.Fragment {
	doc, err := decodeJSON(content)
	if err != nil {
		return nil
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil
	}

	var frags []fragment.Fragment
	p.walk(obj, func(path, context string, typ fragment.Type, raw, stripped string) (string, bool) {
		frags = append(frags, fragment.Fragment{
			ID:           fmt.Sprintf("ejs-%d", len(frags)),
			OriginalText: stripped,
			Path:         path,
			Context:      context,
			Type:         typ,
		})
		return "", false
	})
	return frags
}

func (p *EditorJSParser) Rebuild(content string, fragments []fragment.Fragment) (string, error) {
	doc, err := decodeJSON(content)
	if err != nil {
		// Documents that fail to re-parse pass through unchanged.
		return content, nil
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return content, nil
	}

	byPath := make(map[string]fragment.Fragment, len(fragments))
	for _, f := range fragments {
		byPath[f.Path] = f
	}

	p.walk(obj, func(path, context string, typ fragment.Type, raw, stripped string) (string, bool) {
		f, ok := byPath[path]
		if !ok {
			return "", false
		}
		return f.Output(), true
	})
	return encodeJSON(obj)
}

// blockPriorities orders translator review by block visibility.
// Headers and body copy come first, layout-heavy blocks later.
var blockPriorities = map[string]int{
	"header":    9,
	"paragraph": 8,
	"list":      7,
	"quote":     6,
	"checklist": 6,
	"table":     4,
	"image":     3,
	"embed":     3,
}

// defaultBlockPriority applies to block types without an entry.
const defaultBlockPriority = 5

// BlockPriority returns the review priority for an Editor.js block type.
func BlockPriority(blockType string) int {
	if p, ok := blockPriorities[blockType]; ok {
		return p
	}
	return defaultBlockPriority
}

// BlockTypes lists the distinct block types of an Editor.js document
// in first-seen order.
func (p *EditorJSParser) BlockTypes(content string) []string {
	doc, err := decodeJSON(content)
	if err != nil {
		return nil
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	blocks, _ := obj["blocks"].([]any)
	seen := make(map[string]struct{}, len(blocks))
	var types []string
	for _, raw := range blocks {
		block, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		blockType, _ := block["type"].(string)
		if blockType == "" {
			continue
		}
		if _, dup := seen[blockType]; dup {
			continue
		}
		seen[blockType] = struct{}{}
		types = append(types, blockType)
	}
	return types
}

// editorVisit observes one translatable value. It receives the raw
// stored value and its markup-stripped form, and may return a
// replacement. Extraction and rebuild share the same walk so path
// derivation is identical in both directions.
type editorVisit func(path, context string, typ fragment.Type, raw, stripped string) (string, bool)

var editorSkipKeyPattern = regexp.MustCompile(`(?i)url|id|file|src|href|link|embed`)

func (p *EditorJSParser) walk(doc map[string]any, visit editorVisit) {
	blocks, ok := doc["blocks"].([]any)
	if !ok {
		return
	}

	for i, raw := range blocks {
		block, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		blockType, _ := block["type"].(string)
		data, ok := block["data"].(map[string]any)
		if !ok {
			continue
		}
		base := fmt.Sprintf("blocks[%d].data", i)

		switch blockType {
		case "paragraph":
			visitDataKey(data, "text", base, "paragraph text", visit)
		case "header":
			context := "header"
			if level, ok := data["level"]; ok {
				context = fmt.Sprintf("H%v header", level)
			}
			visitDataKey(data, "text", base, context, visit)
		case "list":
			visitStringItems(data, "items", base, "list item", visit)
		case "quote":
			visitDataKey(data, "text", base, "quote text", visit)
			visitDataKey(data, "caption", base, "quote caption", visit)
		case "image", "embed":
			visitDataKey(data, "caption", base, blockType+" caption", visit)
		case "table":
			visitTableContent(data, base, visit)
		case "checklist":
			visitChecklistItems(data, base, visit)
		case "warning", "alert":
			visitDataKey(data, "title", base, blockType+" title", visit)
			visitDataKey(data, "message", base, blockType+" message", visit)
		default:
			visitGenericData(data, base, blockType, visit)
		}
	}
}

// visitDataKey offers one string-valued data key to the visitor.
func visitDataKey(data map[string]any, key, base, context string, visit editorVisit) {
	value, ok := data[key].(string)
	if !ok {
		return
	}
	stripped := stripMarkup(value)
	if !fragment.Translatable(stripped, fragment.MinLenJSON) {
		return
	}
	if next, replace := visit(base+"."+key, context, fragment.TypeText, value, stripped); replace {
		data[key] = next
	}
}

// visitStringItems handles array-of-string data keys (list items).
func visitStringItems(data map[string]any, key, base, context string, visit editorVisit) {
	items, ok := data[key].([]any)
	if !ok {
		return
	}
	for j, item := range items {
		value, ok := item.(string)
		if !ok {
			continue
		}
		stripped := stripMarkup(value)
		if !fragment.Translatable(stripped, fragment.MinLenJSON) {
			continue
		}
		path := fmt.Sprintf("%s.%s[%d]", base, key, j)
		if next, replace := visit(path, context, fragment.TypeText, value, stripped); replace {
			items[j] = next
		}
	}
}

func visitTableContent(data map[string]any, base string, visit editorVisit) {
	rows, ok := data["content"].([]any)
	if !ok {
		return
	}
	for r, rawRow := range rows {
		row, ok := rawRow.([]any)
		if !ok {
			continue
		}
		for c, cell := range row {
			value, ok := cell.(string)
			if !ok {
				continue
			}
			stripped := stripMarkup(value)
			if !fragment.Translatable(stripped, fragment.MinLenJSON) {
				continue
			}
			path := fmt.Sprintf("%s.content[%d][%d]", base, r, c)
			if next, replace := visit(path, "table cell", fragment.TypeText, value, stripped); replace {
				row[c] = next
			}
		}
	}
}

func visitChecklistItems(data map[string]any, base string, visit editorVisit) {
	items, ok := data["items"].([]any)
	if !ok {
		return
	}
	for j, rawItem := range items {
		item, ok := rawItem.(map[string]any)
		if !ok {
			continue
		}
		value, ok := item["text"].(string)
		if !ok {
			continue
		}
		stripped := stripMarkup(value)
		if !fragment.Translatable(stripped, fragment.MinLenJSON) {
			continue
		}
		path := fmt.Sprintf("%s.items[%d].text", base, j)
		if next, replace := visit(path, "checklist item", fragment.TypeText, value, stripped); replace {
			item["text"] = next
		}
	}
}

// visitGenericData scans unknown block types for string and
// string-array data keys, skipping keys that name resources rather
// than copy.
func visitGenericData(data map[string]any, base, blockType string, visit editorVisit) {
	if blockType == "" {
		blockType = "block"
	}
	for _, key := range sortedKeys(data) {
		if editorSkipKeyPattern.MatchString(key) {
			continue
		}
		switch data[key].(type) {
		case string:
			visitDataKey(data, key, base, blockType+" "+key, visit)
		case []any:
			visitStringItems(data, key, base, blockType+" "+key, visit)
		}
	}
}
