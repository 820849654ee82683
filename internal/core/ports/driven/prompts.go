package driven

// PromptStore provides access to LLM prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptExtraction asks for one JSON object of RoPA fields per document.
	// The template carries a {{fields}} placeholder for the field list.
	PromptExtraction = "extraction"

	// PromptChat answers a question about the table and may propose patches.
	// The template carries {{context}} and {{question}} placeholders.
	PromptChat = "chat"
)
