package domain

import "fmt"

// Source records which kind of writer last set a cell.
type Source int

// Cell provenance kinds.
const (
	// SourceInitial marks a value produced by document extraction.
	SourceInitial Source = iota
	// SourceManual marks a value typed by the user.
	SourceManual
	// SourceAIChat marks a value rewritten by a chat patch.
	SourceAIChat
)

// String returns the wire name of the source.
func (s Source) String() string {
	switch s {
	case SourceInitial:
		return "initial"
	case SourceManual:
		return "manual"
	case SourceAIChat:
		return "ai"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// IsValid returns true if the source is one of the known kinds.
func (s Source) IsValid() bool {
	switch s {
	case SourceInitial, SourceManual, SourceAIChat:
		return true
	default:
		return false
	}
}

// ParseSource converts a wire name back to a Source.
func ParseSource(name string) (Source, error) {
	switch name {
	case "initial":
		return SourceInitial, nil
	case "manual":
		return SourceManual, nil
	case "ai", "ai_chat":
		return SourceAIChat, nil
	default:
		return 0, fmt.Errorf("%w: unknown cell source %q", ErrInvalidInput, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Source) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: invalid cell source %d", ErrInvalidInput, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Source) UnmarshalText(text []byte) error {
	parsed, err := ParseSource(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Cell is one field value of one document together with its provenance.
// A zero Cell is an absent value from the initial extraction.
type Cell struct {
	// Value is the text of the cell. Meaningful only when Present is true.
	Value string

	// Present is false when no value is known.
	Present bool

	// Source is the kind of writer that produced Value.
	Source Source
}

// AbsentCell returns an absent cell with the given provenance.
func AbsentCell(src Source) Cell {
	return Cell{Source: src}
}

// ValueCell returns a populated cell with the given provenance.
func ValueCell(value string, src Source) Cell {
	return Cell{Value: value, Present: true, Source: src}
}

// Display returns the value, or placeholder when absent.
func (c Cell) Display(placeholder string) string {
	if !c.Present {
		return placeholder
	}
	return c.Value
}
