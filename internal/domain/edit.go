package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EditOpType identifies one kind of page edit.
type EditOpType string

const (
	EditOpText      EditOpType = "text"
	EditOpHighlight EditOpType = "highlight"
	EditOpDelete    EditOpType = "delete"
)

// Position is a point on a page. Y is measured from the top edge and
// converted to PDF coordinates when the edit is applied.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Region is a rectangle on a page, anchored at its top-left corner.
type Region struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// EditOperation is one entry of the operations form field. Exactly the
// fields required by its Type are meaningful; ParseEditOperations enforces
// presence and fills defaults.
type EditOperation struct {
	Type      EditOpType `json:"type"`
	Page      int        `json:"page"`
	Content   string     `json:"content,omitempty"`
	Text      string     `json:"text,omitempty"`
	Position  *Position  `json:"position,omitempty"`
	Region    *Region    `json:"region,omitempty"`
	FontSize  float64    `json:"fontSize,omitempty"`
	FontColor string     `json:"fontColor,omitempty"`
	Color     string     `json:"color,omitempty"`
	Opacity   *float64   `json:"opacity,omitempty"`
}

const (
	defaultFontSize         = 12
	defaultHighlightColor   = "#FFFF00"
	defaultHighlightOpacity = 0.5
)

// ParseEditOperations decodes and validates the operations form field.
// Pages are 1-based; page existence against the uploaded document is checked
// later, when the document's page count is known.
func ParseEditOperations(raw []byte) ([]EditOperation, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, &ValidationError{Message: "No valid operations provided"}
	}

	var ops []EditOperation
	if err := json.Unmarshal(raw, &ops); err != nil {
		// Distinguish broken JSON, a non-array payload, and an array with
		// non-object entries.
		var probe interface{}
		if json.Unmarshal(raw, &probe) != nil {
			return nil, &ValidationError{Message: "Invalid operations JSON format"}
		}
		if _, ok := probe.([]interface{}); !ok {
			return nil, &ValidationError{Message: "Operations must be a list"}
		}
		return nil, &ValidationError{Message: "Each operation must be an object"}
	}
	if len(ops) == 0 {
		return nil, &ValidationError{Message: "No valid operations provided"}
	}

	for i := range ops {
		if err := validateEditOperation(&ops[i]); err != nil {
			return nil, err
		}
	}
	return ops, nil
}

func validateEditOperation(op *EditOperation) error {
	if op.Type == "" {
		return &ValidationError{Message: "Each operation must have a 'type' field"}
	}

	switch op.Type {
	case EditOpText:
		if op.Content == "" || op.Position == nil || op.Page == 0 {
			return &ValidationError{Message: "Text operation must include content, position, and page"}
		}
		if op.FontSize <= 0 {
			op.FontSize = defaultFontSize
		}
	case EditOpHighlight:
		if op.Text == "" || op.Color == "" || op.Opacity == nil || op.Page == 0 {
			return &ValidationError{Message: "Highlight operation must include text, color, opacity, and page"}
		}
		if *op.Opacity < 0 || *op.Opacity > 1 {
			o := defaultHighlightOpacity
			op.Opacity = &o
		}
	case EditOpDelete:
		if op.Page == 0 {
			return &ValidationError{Message: "Delete operation must include page"}
		}
		if op.Region == nil {
			return &ValidationError{Message: "Delete operation must include region"}
		}
		if op.Region.Width < 0 || op.Region.Height < 0 || op.Region.X < 0 || op.Region.Y < 0 {
			return &ValidationError{Message: "Delete operation region values cannot be negative"}
		}
	default:
		return &ValidationError{Message: fmt.Sprintf("Invalid operation type: %s", op.Type)}
	}

	if op.Page < 1 {
		return &ValidationError{Message: fmt.Sprintf("Invalid page number: %d", op.Page)}
	}
	return nil
}

// ParseHexColor converts #RGB or #RRGGBB to RGB fractions in [0,1].
// Malformed values fall back to black rather than failing the whole edit.
func ParseHexColor(s string) (r, g, b float64) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 3:
		expanded := make([]byte, 6)
		for i := 0; i < 3; i++ {
			expanded[2*i] = s[i]
			expanded[2*i+1] = s[i]
		}
		s = string(expanded)
	case 6:
	default:
		return 0, 0, 0
	}

	var rv, gv, bv uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &rv, &gv, &bv); err != nil {
		return 0, 0, 0
	}
	return float64(rv) / 255, float64(gv) / 255, float64(bv) / 255
}
