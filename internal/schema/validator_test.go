package schema

import "testing"

func TestValidateEditorJS(t *testing.T) {
	t.Parallel()

	valid := [][]byte{
		[]byte(`{"blocks":[]}`),
		[]byte(`{"time":1712000000,"version":"2.29.1","blocks":[{"id":"abc","type":"paragraph","data":{"text":"Hello"}}]}`),
		[]byte(`{"blocks":[{"type":"table","data":{"content":[["Size","Price"]]},"tunes":{"align":"left"}}]}`),
	}
	for _, payload := range valid {
		if err := ValidateEditorJS(payload); err != nil {
			t.Errorf("ValidateEditorJS(%s): %v", payload, err)
		}
	}

	invalid := [][]byte{
		[]byte(`{}`),
		[]byte(`{"blocks":"nope"}`),
		[]byte(`{"blocks":[{"type":"paragraph"}]}`),
		[]byte(`{"blocks":[{"type":"","data":{}}]}`),
		[]byte(`{"blocks":[{"type":"paragraph","data":"text"}]}`),
		[]byte(`[]`),
	}
	for _, payload := range invalid {
		if err := ValidateEditorJS(payload); err == nil {
			t.Errorf("ValidateEditorJS(%s) accepted invalid payload", payload)
		}
	}
}

func TestValidateGrapeJS(t *testing.T) {
	t.Parallel()

	valid := [][]byte{
		[]byte(`[]`),
		[]byte(`[{"type":"text","content":"Hello","components":[{"tagName":"span","content":"World"}]}]`),
		[]byte(`{"components":[{"attributes":{"title":"Shop now"},"traits":[{"name":"label","value":"Buy"}]}],"assets":[]}`),
	}
	for _, payload := range valid {
		if err := ValidateGrapeJS(payload); err != nil {
			t.Errorf("ValidateGrapeJS(%s): %v", payload, err)
		}
	}

	invalid := [][]byte{
		[]byte(`{}`),
		[]byte(`{"components":"nope"}`),
		[]byte(`[{"components":{"nested":"wrong"}}]`),
		[]byte(`[{"traits":[{"name":42}]}]`),
		[]byte(`"just a string"`),
	}
	for _, payload := range invalid {
		if err := ValidateGrapeJS(payload); err == nil {
			t.Errorf("ValidateGrapeJS(%s) accepted invalid payload", payload)
		}
	}
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	if err := ValidateEditorJS([]byte(`{"blocks":`)); err == nil {
		t.Error("truncated JSON must fail")
	}
	if err := ValidateEditorJS([]byte(`{"blocks":[]} trailing`)); err == nil {
		t.Error("trailing content after the document must fail")
	}
	if err := ValidateGrapeJS([]byte(`[]{}`)); err == nil {
		t.Error("concatenated JSON values must fail")
	}
}
