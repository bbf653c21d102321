package suppress

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yaklabco/quickfix/pkg/document"
	"github.com/yaklabco/quickfix/pkg/language"
)

type wireViolation struct {
	Range          document.Range `json:"range"`
	RuleIdentifier string         `json:"ruleIdentifier"`
	Language       string         `json:"language"`
}

// ParseViolation decodes a Violation from its JSON wire form.
// The language field is optional and normalised with language.ParseTag.
func ParseViolation(data []byte) (Violation, error) {
	var wire wireViolation
	if err := json.Unmarshal(data, &wire); err != nil {
		return Violation{}, fmt.Errorf("decode violation: %w", err)
	}
	return wire.toViolation(), nil
}

// DecodeViolation reads one JSON violation from r.
func DecodeViolation(r io.Reader) (Violation, error) {
	var wire wireViolation
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return Violation{}, fmt.Errorf("decode violation: %w", err)
	}
	return wire.toViolation(), nil
}

func (w wireViolation) toViolation() Violation {
	return Violation{
		Range:          w.Range,
		RuleIdentifier: w.RuleIdentifier,
		Language:       language.ParseTag(w.Language),
	}
}
