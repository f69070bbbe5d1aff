package llm

import (
	"context"

	"cutplan/constants"
	"cutplan/internal/entity"
)

// FewShotExample is one prior corrected document handed to the provider to
// steer its next extraction. The engine does not select or store these; it
// only counts what was injected so the learning loop can measure the effect.
type FewShotExample struct {
	SourceText string           `json:"source_text"`
	Parts      []entity.CutPart `json:"parts"`
}

// ClientContext carries per-client conventions the provider should honor.
type ClientContext struct {
	ClientName   string `json:"client_name,omitempty"`
	TemplateID   string `json:"template_id,omitempty"`
	NamingNotes  string `json:"naming_notes,omitempty"`
	DefaultGrain string `json:"default_grain,omitempty"`
}

// ExtractRequest is everything the provider gets for one document.
type ExtractRequest struct {
	RawText         string
	FilenameHint    string
	FolderHint      string
	DefaultMaterial string
	DefaultThickMM  float64
	Provider        string

	FewShotExamples []FewShotExample
	PatternsApplied int
	Client          ClientContext

	Difficulty constants.Difficulty
}

// PartExtractor is the interface the processing pipeline depends on. The
// implementation wraps whichever AI provider the host configured; the engine
// treats its output as an already-resolved guess to be validated and scored,
// never as truth.
type PartExtractor interface {
	ExtractParts(ctx context.Context, req ExtractRequest) ([]entity.CutPart, []byte /*rawJSON*/, error)
}
