package prompt

import (
	"errors"
	"regexp"
)

// ErrBlockedPrompt is returned when user input tries to override the standing instructions.
var ErrBlockedPrompt = errors.New("prompt contains disallowed instructions")

var injectionPatterns = []*regexp.Regexp{
	// instruction override
	regexp.MustCompile(`(?i)ignora\s+(tutte|le|le\s+precedenti)\s+istruzioni`),
	regexp.MustCompile(`(?i)non\s+seguire\s+le\s+istruzioni`),
	regexp.MustCompile(`(?i)dimentica\s+le\s+regole`),
	regexp.MustCompile(`(?i)ignore\s+(all\s+|the\s+)?(previous|prior|above)\s+instructions`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+|the\s+)?(rules|instructions)`),

	// probing for hidden instructions
	regexp.MustCompile(`(?i)prompt\s+di\s+sistema`),
	regexp.MustCompile(`(?i)istruzioni\s+interne`),
	regexp.MustCompile(`(?i)messaggio\s+di\s+sistema`),
	regexp.MustCompile(`(?i)system\s+prompt`),

	// role override
	regexp.MustCompile(`(?i)agisci\s+come`),
	regexp.MustCompile(`(?i)fingi\s+di\s+essere`),
	regexp.MustCompile(`(?i)interpreta\s+il\s+ruolo\s+di`),
	regexp.MustCompile(`(?i)pretend\s+to\s+be`),
	regexp.MustCompile(`(?i)\bact\s+as\b`),

	// jailbreaks
	regexp.MustCompile(`(?i)fai\s+qualsiasi\s+cosa`),
	regexp.MustCompile(`(?i)senza\s+limitazioni`),
	regexp.MustCompile(`(?i)\bDAN\b`),
	regexp.MustCompile(`(?i)(sei|tu\s+sei)\s+(un|una)?\s*(ai|intelligenza\s+artificiale|assistente|modello\s+linguistico)\b`),
}

// Screen rejects text matching a known prompt-injection pattern.
func Screen(text string) error {
	for _, re := range injectionPatterns {
		if re.MatchString(text) {
			return ErrBlockedPrompt
		}
	}
	return nil
}
