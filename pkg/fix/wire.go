package fix

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yaklabco/quickfix/pkg/document"
)

// wireFix is the JSON shape of a fix as delivered by the analysis service.
type wireFix struct {
	Description string     `json:"description"`
	Edits       []wireEdit `json:"edits"`
}

type wireEdit struct {
	Content  string            `json:"content"`
	EditType string            `json:"editType"`
	Start    document.Position `json:"start"`
	End      document.Position `json:"end"`
}

// ParseFix decodes a Fix from its JSON wire form. Unknown edit types decode
// to OperationUnrecognized rather than failing.
func ParseFix(data []byte) (Fix, error) {
	var wire wireFix
	if err := json.Unmarshal(data, &wire); err != nil {
		return Fix{}, fmt.Errorf("decode fix: %w", err)
	}
	return wire.toFix(), nil
}

// DecodeFix reads one JSON fix from r.
func DecodeFix(r io.Reader) (Fix, error) {
	var wire wireFix
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return Fix{}, fmt.Errorf("decode fix: %w", err)
	}
	return wire.toFix(), nil
}

func (w wireFix) toFix() Fix {
	f := Fix{
		Description: w.Description,
		Edits:       make([]Edit, 0, len(w.Edits)),
	}
	for _, e := range w.Edits {
		f.Edits = append(f.Edits, Edit{
			Content:   e.Content,
			Operation: ParseOperation(e.EditType),
			Range:     document.Range{Start: e.Start, End: e.End},
		})
	}
	return f
}
