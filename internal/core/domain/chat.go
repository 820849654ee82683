package domain

import (
	"fmt"
	"time"
)

// Sender identifies who wrote a chat turn.
type Sender string

// Chat participants.
const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// IsValid returns true if the sender is recognised.
func (s Sender) IsValid() bool {
	return s == SenderUser || s == SenderAI
}

// ChatTurn is one message in a session transcript.
type ChatTurn struct {
	Sender    Sender
	Text      string
	Timestamp time.Time

	// Failed marks an AI turn that reports a collaborator error.
	Failed bool
}

// Patch is one cell rewrite proposed by the chat collaborator.
type Patch struct {
	FileName string `json:"fileName"`
	Field    string `json:"field"`
	Value    string `json:"value"`
}

// PatchStatus is the result of applying one patch.
type PatchStatus string

// Patch outcomes.
const (
	PatchApplied         PatchStatus = "applied"
	PatchUnknownDocument PatchStatus = "unknown_document"
	PatchUnknownField    PatchStatus = "unknown_field"
)

// PatchOutcome reports what happened to one patch.
type PatchOutcome struct {
	Patch  Patch
	Field  FieldKey
	Status PatchStatus
}

// String returns a one-line description of the outcome.
func (o PatchOutcome) String() string {
	switch o.Status {
	case PatchApplied:
		return fmt.Sprintf("%s.%s = %q", o.Patch.FileName, o.Field, o.Patch.Value)
	case PatchUnknownDocument:
		return fmt.Sprintf("skipped: no document named %q", o.Patch.FileName)
	default:
		return fmt.Sprintf("skipped: no field named %q", o.Patch.Field)
	}
}

// ChatReply is the parsed answer of the chat collaborator.
type ChatReply struct {
	Answer  string
	Patches []Patch
}
