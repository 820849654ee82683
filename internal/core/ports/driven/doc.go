// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SessionStore: Session, record and transcript persistence
//   - ConfigStore: Application configuration
//   - PromptStore: Extraction and chat prompt templates
//   - MIMEDetector: Content sniffing for uploads without a declared type
//   - TableCodec: Export encodings (xlsx, csv)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Without it, analysis and chat return ErrLLMUnavailable.
//   - AliasSource: Without it, only the built-in field spellings resolve.
//   - InboxWatcher: Only used by `ropa watch`.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
