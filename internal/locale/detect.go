package locale

import "strings"

// detectRule binds a language to the substrings that select it.
type detectRule struct {
	lang   Language
	tokens []string
}

// detectRules is evaluated strictly in order: Russian tokens are tested before
// Uzbek ones because "рус"/"russian" would otherwise be shadowed by the very
// short "uz"/"ru" overlaps. The order is a contract, not an implementation
// detail; do not reorder.
var detectRules = []detectRule{
	{LangRu, []string{"рус", "ru", "russian", "рос"}},
	{LangUz, []string{"uz", "ўз", "o'z", "uzbek"}},
}

// Detect maps free text from the language-selection step to a Language,
// defaulting to English when no rule matches.
func Detect(text string) Language {
	low := strings.ToLower(strings.TrimSpace(text))
	for _, rule := range detectRules {
		for _, tok := range rule.tokens {
			if strings.Contains(low, tok) {
				return rule.lang
			}
		}
	}
	return LangEn
}
