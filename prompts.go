package main

import "fmt"

// Default system instruction. The strict output contract matters: the
// evaluator compares predictions by exact string equality, so any extra
// words, punctuation, or casing from the model counts as a miss even when
// the classification is semantically right.
const classifySystemPrompt = `You classify customer support requests into service catalog items.
Using only the catalog reference provided by the user, respond with exactly one label of the form:
<Category>-<Subcategory>

If no catalog item is a confident match, respond with exactly:
Unknown

Respond with the label only. No explanation, no punctuation, no extra text.`

const classifyUserTemplate = `Service catalog reference:

%s

Customer request:

%s`

// PromptComposer builds the (system, user) prompt pair for one
// classification call. Templates are fixed at construction; nothing here
// is runtime-mutable.
type PromptComposer struct {
	systemPrompt string
	userTemplate string
}

// NewPromptComposer returns a composer with the default templates.
func NewPromptComposer() *PromptComposer {
	return &PromptComposer{
		systemPrompt: classifySystemPrompt,
		userTemplate: classifyUserTemplate,
	}
}

// Compose embeds the catalog reference text and one customer request into
// the user prompt. No truncation: an oversized reference is the
// classification service's context limit to hit, not ours.
func (p *PromptComposer) Compose(referenceText, customerRequest string) (systemPrompt, userPrompt string) {
	return p.systemPrompt, fmt.Sprintf(p.userTemplate, referenceText, customerRequest)
}
