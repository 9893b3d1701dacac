package constant

// Intent labels. Exploration doubles as the degraded-mode fallback when
// the classifier is unavailable.
const (
	IntentExploration          = "exploration"
	IntentComparison           = "comparison"
	IntentRiskReduction        = "risk_reduction"
	IntentTechnicalReliability = "technical_reliability"
)

// AllowedIntents is the closed vocabulary the classifier output is
// validated against.
var AllowedIntents = []string{
	IntentExploration,
	IntentComparison,
	IntentRiskReduction,
	IntentTechnicalReliability,
}

// Question keys, in default priority order.
const (
	QuestionTerrain  = "terrain"
	QuestionLight    = "light_variation"
	QuestionPriority = "priority"
)

// QuestionTexts maps each question key to the text shown to the user.
var QuestionTexts = map[string]string{
	QuestionTerrain:  "Do you ride mostly on the road, on gravel, or on MTB trails?",
	QuestionLight:    "Does the light change a lot during your rides (shade and sun, woods, sunset), or is it fairly stable?",
	QuestionPriority: "If you had to pick one priority, what matters most: maximum eye protection, ventilation and anti-fog, or long-ride comfort?",
}

// IntentClassifierPrompt is the system instruction for the intent
// classification capability. The model must answer with bare JSON.
const IntentClassifierPrompt = `You are an intent classifier for a cycling-eyewear shopping assistant.
Valid intents are: exploration, comparison, risk_reduction, technical_reliability.

Rules:
- ALWAYS pick exactly one intent.
- Respond ONLY with a JSON object with keys: intent, confidence, reasoning.
- confidence is a number between 0 and 1.`
