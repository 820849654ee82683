package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk, falling
// back to the defaults it was built with.
//
// Files are only created on first Load, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	defaults  map[string]string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// NewPromptStore creates a new file-based prompt store seeded with defaults.
// Only names present in defaults can be loaded.
// If promptDir is empty, defaults to ~/.ropa/prompts/.
func NewPromptStore(promptDir string, defaults map[string]string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	copied := make(map[string]string, len(defaults))
	for k, v := range defaults {
		copied[k] = v
	}

	return &PromptStore{
		promptDir: promptDir,
		defaults:  copied,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name. A missing or empty
// file falls back to the default.
func (s *PromptStore) Load(name string) (string, error) {
	fallback, known := s.defaults[name]
	if !known {
		return "", fmt.Errorf("unknown prompt %q", name)
	}

	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return fallback, nil
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil || prompt == "" {
		return fallback, nil
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and writes any missing default files.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range s.defaults {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	names := make([]string, 0, len(s.defaults))
	for name := range s.defaults {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("# RoPA Prompts\n\n")
	b.WriteString("This directory holds the prompts sent to the AI provider.\n\n## Files\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- `%s.txt`\n", name)
	}
	b.WriteString(`
## Customisation

Edit a file to change what the assistant is asked. Changes take effect on the
next command. Delete a file to restore its default.

## Placeholders

- ` + "`extraction.txt`" + ` takes ` + "`{{fields}}`" + `: the column definitions.
- ` + "`chat.txt`" + ` takes ` + "`{{context}}`" + `: the table as JSON, and ` + "`{{question}}`" + `.

A file missing one of its placeholders is ignored and the default is used.
`)
	return os.WriteFile(path, []byte(b.String()), 0600)
}
