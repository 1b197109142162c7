package orchestrator

// #region imports
import (
	"strings"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

// #endregion

// #region keywords

var overloadKeywords = []string{
	"overwhelmed", "too much", "too many", "swamped", "can't keep up",
	"drowning", "so confused", "one thing at a time",
}

var creativeKeywords = []string{
	"write me", "compose", "imagine", "describe a scene",
	"tell me a story", "make up", "write a", "poem", "story about",
	"fiction", "invent", "lyrics",
}

var exploratoryKeywords = []string{
	"what if", "explore", "brainstorm", "ideas", "alternatives",
	"options for", "curious", "wonder", "compare", "pros and cons",
}

var factualPrefixes = []string{
	"who is", "what is", "where is", "when did", "when was",
	"how many", "how much", "how old", "how far", "how long",
	"what year", "what date", "what time", "which",
}

var factualKeywords = []string{
	"phone", "address", "number", "capital", "population",
	"temperature", "distance", "height", "weight", "price",
	"definition", "meaning of the word",
}

var commandPrefixes = []string{
	"list ", "read ", "search for ", "show ", "open ", "create ",
	"delete ", "remove ", "save ", "send ", "deploy ", "run ",
	"fix ", "schedule ", "book ", "cancel ", "restart ", "install ",
}

var imperatives = map[string]bool{
	"list": true, "read": true, "show": true, "run": true,
	"save": true, "stop": true, "start": true, "deploy": true,
	"clear": true, "reset": true, "quit": true, "exit": true,
}

var highImpactKeywords = []string{
	"delete", "drop", "wipe", "production", "deploy", "shutdown",
	"wire", "transfer", "payment", "invoice", "password", "credential",
	"medication", "dosage", "diagnos", "contract", "legal",
	"permanently", "irreversible", "all users", "everyone",
}

var lowImpactKeywords = []string{
	"hello", "hi there", "thanks", "thank you", "joke", "just curious",
	"fun fact", "quick question", "recommend a book", "favorite",
}

var disallowedKeywords = []string{
	"bypass authentication", "disable the audit", "steal", "exfiltrate",
	"ransomware", "keylogger", "malware", "phishing kit", "make a bomb",
	"card dump",
}

// #endregion

// #region follow-up-words

// followUpWords are short prompts that typically continue the previous topic.
var followUpWords = []string{
	"why", "how", "and", "but", "so", "really",
	"tell me more", "go on", "explain", "elaborate",
	"what do you mean", "in what way", "like what",
}

// #endregion

// #region classify

// ClassifyTurn reads intent, impact and policy-disallowed terms from text
// via keyword heuristics. prev is the previous turn's intent; a short
// follow-up with no intent of its own inherits it.
func ClassifyTurn(text string, prev ...signals.Intent) Classification {
	lower := strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(lower)

	intent := classifyIntent(lower, words)
	if intent == signals.IntentUnknown && len(prev) > 0 && len(words) <= 8 && isFollowUp(lower) {
		if p := signals.NormalizeIntent(prev[0]); p != signals.IntentOverloaded {
			intent = p
		}
	}

	var matched []string
	disallowed := false
	for _, kw := range disallowedKeywords {
		if strings.Contains(lower, kw) {
			disallowed = true
			matched = append(matched, kw)
		}
	}

	return Classification{
		Intent:     intent,
		Impact:     classifyImpact(lower),
		Disallowed: disallowed,
		Matched:    matched,
	}
}

// #endregion

// #region follow-up-detection

func isFollowUp(lower string) bool {
	for _, fw := range followUpWords {
		if strings.HasPrefix(lower, fw) {
			return true
		}
	}
	return strings.HasSuffix(lower, "?") && len(strings.Fields(lower)) <= 3
}

// #endregion

// #region classify-intent

func classifyIntent(lower string, words []string) signals.Intent {
	if lower == "" {
		return signals.IntentUnknown
	}
	if signals.ContainsAny(lower, overloadKeywords) {
		return signals.IntentOverloaded
	}
	// Creative before command: "write me a poem" is not a tool command.
	if signals.ContainsAny(lower, creativeKeywords) {
		return signals.IntentCreative
	}
	if isDirective(lower, words) {
		return signals.IntentDirective
	}
	if signals.ContainsAny(lower, exploratoryKeywords) {
		return signals.IntentExploratory
	}
	for _, p := range factualPrefixes {
		if strings.HasPrefix(lower, p) {
			return signals.IntentInformational
		}
	}
	if signals.ContainsAny(lower, factualKeywords) {
		return signals.IntentInformational
	}
	return signals.IntentUnknown
}

func isDirective(lower string, words []string) bool {
	for _, p := range commandPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	if strings.Contains(lower, "?") {
		return false
	}
	return len(words) >= 1 && len(words) <= 3 && imperatives[words[0]]
}

// #endregion

// #region classify-impact

func classifyImpact(lower string) signals.Impact {
	if signals.ContainsAny(lower, highImpactKeywords) {
		return signals.ImpactHigh
	}
	if signals.ContainsAny(lower, lowImpactKeywords) {
		return signals.ImpactLow
	}
	return signals.ImpactMedium
}

// #endregion
