package prompt

import (
	"fmt"
	"strings"
)

// DefaultToneInstructions applies when a tone has no instructions of its own.
const DefaultToneInstructions = "Respond in a professional manner."

// Persona is the tenant identity injected into every text request.
type Persona struct {
	CompanyName      string
	Description      string
	ToneInstructions string
}

func (p Persona) tone() string {
	if s := strings.TrimSpace(p.ToneInstructions); s != "" {
		return s
	}
	return DefaultToneInstructions
}

// SystemPrompt renders the standing instructions for a tenant and tone.
func SystemPrompt(p Persona) string {
	name := strings.TrimSpace(p.CompanyName)
	var b strings.Builder
	fmt.Fprintf(&b, "ROLE: You are the official AI writer for %q.\n", name)
	fmt.Fprintf(&b, "CONTEXT: %s\n", strings.TrimSpace(p.Description))
	fmt.Fprintf(&b, "TONE (emphasize it): %s\n\n", p.tone())
	b.WriteString("RULES:\n")
	fmt.Fprintf(&b, "- If the request is not about %q or about a company in general, politely say you cannot help.\n", name)
	b.WriteString("- Produce only the requested text, ready to send, with no lead-in or sign-off such as \"Certainly!\" or \"Let me know if you need anything else.\"\n")
	b.WriteString("- Do not use prefixes such as \"Assistant:\".\n")
	b.WriteString("- NEVER use bracketed placeholders; the message must be sendable without edits.\n")
	b.WriteString("- Write as the sender of the message, without introducing yourself.")
	return b.String()
}
