// Package ai produces reply text for mentions, either through a language
// model or a deterministic keyword template. The engine always has the
// template to fall back on, so a missing API key or a failed generation
// call never blocks a reply.
package ai

import (
	"context"
	"fmt"
)

// Generator produces a reply to one mention. Implementations must not
// include the leading @handle; the engine prepends it.
type Generator interface {
	GenerateReply(ctx context.Context, author, mentionText string) (string, error)
}

const defaultSystemPrompt = `You are a friendly, professional account manager for an X (Twitter) account.
Reply to mentions helpfully and naturally.

Guidelines:
- Keep replies under 280 characters
- Match the tone of the mention
- Answer questions when you can; thank people for praise; be empathetic about complaints
- Avoid controversial topics and unsolicited hashtags

Respond ONLY with the reply text, nothing else.`

// BuildPrompt assembles the user prompt for a mention. The targeting spec
// is the operator's description of the account or campaign and may be
// empty.
func BuildPrompt(targetingSpec, author, mentionText string) string {
	prompt := fmt.Sprintf("Someone (@%s) mentioned you:\n\n%q\n\n", author, mentionText)
	if targetingSpec != "" {
		prompt += "Context about your account: " + targetingSpec + "\n\n"
	}
	prompt += "Generate a reply (without the @username prefix - that is added automatically)."
	return prompt
}
