package file

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
)

// Ensure AliasFile implements the interface.
var _ driven.AliasSource = (*AliasFile)(nil)

// AliasFile reads extra column spellings from a YAML file of the form:
//
//	aliases:
//	  nama_aktivitas:
//	    - Nama Proses
//	    - activity name
type AliasFile struct {
	path string
}

type aliasDocument struct {
	Aliases map[string][]string `yaml:"aliases"`
}

// NewAliasFile returns an alias source backed by path.
func NewAliasFile(path string) *AliasFile {
	return &AliasFile{path: path}
}

// Path returns the file path.
func (a *AliasFile) Path() string {
	return a.path
}

// Aliases reads and validates the file. A missing file yields no aliases.
func (a *AliasFile) Aliases() (map[domain.FieldKey][]string, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("aliases: read %s: %w", a.path, err)
	}
	aliases, err := ParseAliasesYAML(data)
	if err != nil {
		return nil, fmt.Errorf("aliases: %s: %w", a.path, err)
	}
	return aliases, nil
}

// ParseAliasesYAML decodes an alias document. Unknown field keys are rejected.
func ParseAliasesYAML(data []byte) (map[domain.FieldKey][]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var doc aliasDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	out := make(map[domain.FieldKey][]string, len(doc.Aliases))
	for key, spellings := range doc.Aliases {
		field := domain.FieldKey(strings.TrimSpace(key))
		if !field.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownField, key)
		}
		for _, s := range spellings {
			if s = strings.TrimSpace(s); s != "" {
				out[field] = append(out[field], s)
			}
		}
	}
	return out, nil
}
