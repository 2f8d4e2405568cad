// Package review asks an external LLM judge for advisory commentary on
// how similar the review PDF and the delivered email are. Its output never
// affects the deterministic comparison results.
package review

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

// MaxTextChars is the per-document truncation limit applied before the
// texts are sent to the judge. Each text is truncated independently.
const MaxTextChars = 3000

const judgePrompt = `You are comparing a legal-review PDF against the final delivered email.
Rate how similar the two texts are on a scale of 0-100 and summarize the
differences that matter for a legal review (changed wording, dropped
content, unaddressed requests). Answer with the score first, then the
summary.

PDF text:
%s

Email text:
%s`

// Reviewer calls the external similarity judge. A Reviewer constructed
// without an API key is disabled and must be skipped by callers.
type Reviewer struct {
	apiKey string
	model  shared.ChatModel
}

// NewReviewer creates a Reviewer. An empty apiKey yields a disabled
// Reviewer rather than an error, so the rest of the pipeline is unaffected
// by a missing credential.
func NewReviewer(apiKey string) *Reviewer {
	return &Reviewer{
		apiKey: apiKey,
		model:  shared.ChatModelGPT5Mini,
	}
}

// Enabled reports whether a credential is configured.
func (r *Reviewer) Enabled() bool {
	return r.apiKey != ""
}

// Review sends both texts, truncated independently, to the judge and
// returns its raw response. On any failure it returns a user-facing
// explanation instead of an error: this branch is advisory only and must
// never break the comparison pipeline.
func (r *Reviewer) Review(ctx context.Context, pdfText, emailText string) string {
	if !r.Enabled() {
		return ""
	}

	prompt := fmt.Sprintf(judgePrompt, truncate(pdfText, MaxTextChars), truncate(emailText, MaxTextChars))

	client := openai.NewClient(option.WithAPIKey(r.apiKey))
	response, err := client.Responses.New(ctx, responses.ResponseNewParams{
		Model: r.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(
					responses.ResponseInputMessageContentListParam{
						responses.ResponseInputContentParamOfInputText(prompt),
					},
					"user",
				),
			},
		},
	})
	if err != nil {
		return fmt.Sprintf("semantic review unavailable: %v", err)
	}
	return response.OutputText()
}

// truncate cuts s to at most limit runes.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
