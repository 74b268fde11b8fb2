package repository

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/okian/fantasybakes/internal/domain/model"
)

// document is the persisted envelope.
type document struct {
	Season *model.Season `json:"season" yaml:"season"`
}

// decodeJSON parses a season document. A bare season object without the
// envelope is accepted as well.
func decodeJSON(data []byte) (*model.Season, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	raw, ok := probe["season"]
	if !ok {
		raw = data
	}
	if string(raw) == "null" {
		return nil, errNoDocument
	}
	s := &model.Season{}
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	s.Normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// decodeYAML converts YAML to JSON first so score records go through the
// same tolerant field parsing as JSON documents.
func decodeYAML(data []byte) (*model.Season, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if raw == nil {
		return nil, errNoDocument
	}
	js, err := json.Marshal(stringKeys(raw))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return decodeJSON(js)
}

// stringKeys rewrites non-string mapping keys, e.g. numeric baker ids.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = stringKeys(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = stringKeys(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = stringKeys(e)
		}
		return t
	}
	return v
}

func encodeJSON(s *model.Season) ([]byte, error) {
	if s == nil {
		return nil, errNilSeason
	}
	return json.MarshalIndent(document{Season: s.Clone()}, "", "  ")
}

func encodeYAML(s *model.Season) ([]byte, error) {
	if s == nil {
		return nil, errNilSeason
	}
	return yaml.Marshal(document{Season: s.Clone()})
}
