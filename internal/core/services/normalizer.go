package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

// Normalizer turns the raw JSON object returned for one document into a
// complete record whose cells are all tagged Initial.
type Normalizer struct {
	schema *domain.Schema
}

// NewNormalizer creates a normalizer resolving keys through schema.
// A nil schema means the built-in one.
func NewNormalizer(schema *domain.Schema) *Normalizer {
	if schema == nil {
		schema = domain.DefaultSchema()
	}
	return &Normalizer{schema: schema}
}

// Schema returns the schema used for key resolution.
func (n *Normalizer) Schema() *domain.Schema {
	return n.schema
}

// Normalize parses the model reply for fileName and builds its record.
// Replies that do not contain a JSON object fail with ErrMalformedResponse.
func (n *Normalizer) Normalize(fileName, reply string) (*domain.Record, error) {
	obj, err := decodeObject(reply)
	if err != nil {
		return nil, err
	}
	return n.NormalizeObject(fileName, obj), nil
}

// NormalizeObject builds a record from an already decoded object. For each
// field the first alias carrying a value wins; fields with no value are
// absent. Keys that resolve to no field are dropped.
func (n *Normalizer) NormalizeObject(fileName string, obj map[string]any) *domain.Record {
	byKey := make(map[string]any, len(obj))
	for _, raw := range sortedKeys(obj) {
		norm := domain.NormaliseRawKey(raw)
		if prev, seen := byKey[norm]; seen {
			if _, ok := coerceValue(prev); ok {
				continue
			}
		}
		byKey[norm] = obj[raw]
	}

	record := domain.NewRecord(fileName)
	for _, k := range domain.Fields {
		for _, alias := range n.schema.Aliases(k) {
			v, ok := byKey[alias]
			if !ok {
				continue
			}
			if text, ok := coerceValue(v); ok {
				// k is canonical, so SetInitial cannot fail.
				_ = record.SetInitial(k, domain.ValueCell(text, domain.SourceInitial))
				break
			}
		}
	}

	if s, ok := byKey[domain.SuggestionKey].(string); ok {
		record.Suggestion = s
	}
	return record
}

// ExtractJSONObject strips code-fence markers from a model reply and returns
// the outermost {...} span.
func ExtractJSONObject(reply string) (string, error) {
	text := strings.ReplaceAll(reply, "```json", "")
	text = strings.ReplaceAll(text, "```JSON", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: no JSON object in reply", domain.ErrMalformedResponse)
	}
	return text[start : end+1], nil
}

// decodeObject extracts and decodes the JSON object in a model reply.
// Numbers are kept as json.Number so they render verbatim.
func decodeObject(reply string) (map[string]any, error) {
	text, err := ExtractJSONObject(reply)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: reply is null", domain.ErrMalformedResponse)
	}
	return obj, nil
}

// coerceValue renders a decoded JSON value as cell text. The second result is
// false for null, blank strings and empty arrays.
func coerceValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		if strings.TrimSpace(val) == "" {
			return "", false
		}
		return val, true
	case json.Number:
		return val.String(), true
	case float64:
		return fmt.Sprint(val), true
	case bool:
		if val {
			return "true", true
		}
		return "false", true
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if text, ok := coerceValue(item); ok {
				parts = append(parts, text)
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, ", "), true
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(val); err != nil {
			return fmt.Sprint(val), true
		}
		return strings.TrimSpace(buf.String()), true
	}
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
