package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"product-advisor-be/internal/constant"
	"product-advisor-be/pkg/advisor"
	"product-advisor-be/pkg/llm"
)

// Result is the classified intent for the opening user message.
type Result struct {
	Label      string  `json:"intent"`
	Confidence float32 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Classifier performs a pure LLM call to label the user's opening
// message with one of the allowed intents. It never touches the
// catalog or the session stores.
type Classifier struct {
	llmProvider llm.LLMProvider
}

func NewClassifier(llmProvider llm.LLMProvider) *Classifier {
	return &Classifier{llmProvider: llmProvider}
}

// Classify labels the query. It returns an error on any provider or
// parsing failure so the caller can degrade to the exploration
// fallback and record that the capability was unavailable.
func (c *Classifier) Classify(ctx context.Context, query string) (*Result, error) {
	prompt := c.buildPrompt(query)

	response, err := c.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		return nil, fmt.Errorf("%w: intent model: %v", advisor.ErrCapabilityUnavailable, err)
	}

	result, err := parseResult(response)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", advisor.ErrCapabilityUnavailable, err)
	}

	if !isAllowed(result.Label) {
		return nil, fmt.Errorf("%w: unknown intent label %q", advisor.ErrCapabilityUnavailable, result.Label)
	}

	return result, nil
}

func (c *Classifier) buildPrompt(query string) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString(constant.IntentClassifierPrompt)
	prompt.WriteString("\n</system>\n\n")

	prompt.WriteString("<user_query>\n")
	prompt.WriteString(query)
	prompt.WriteString("\n</user_query>\n\n")

	prompt.WriteString("<intent_definitions>\n")
	prompt.WriteString("exploration: User is browsing or asking an open question about eyewear\n")
	prompt.WriteString("  - 'I need glasses for cycling', 'what do you have for gravel?'\n\n")
	prompt.WriteString("comparison: User wants to weigh two or more products or features against each other\n")
	prompt.WriteString("  - 'difference between X and Y', 'photochromic or polarized?'\n\n")
	prompt.WriteString("risk_reduction: User is worried about making the wrong purchase\n")
	prompt.WriteString("  - 'I don't want to regret it', 'which one is the safe choice?'\n\n")
	prompt.WriteString("technical_reliability: User asks about durability, materials, certifications\n")
	prompt.WriteString("  - 'do the lenses scratch?', 'is the frame sturdy?'\n")
	prompt.WriteString("</intent_definitions>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"intent\": \"exploration|comparison|risk_reduction|technical_reliability\",\n")
	prompt.WriteString("  \"confidence\": 0.95,\n")
	prompt.WriteString("  \"reasoning\": \"Brief explanation\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func parseResult(response string) (*Result, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var result Result
	if err := json.Unmarshal([]byte(jsonContent), &result); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	result.Label = strings.ToLower(strings.TrimSpace(result.Label))
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}

	return &result, nil
}

func isAllowed(label string) bool {
	for _, allowed := range constant.AllowedIntents {
		if label == allowed {
			return true
		}
	}
	return false
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
