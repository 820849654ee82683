// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under ~/.ropa on the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable prompt templates
//   - AliasFile: YAML column alias overrides for the canonical schema
package file
