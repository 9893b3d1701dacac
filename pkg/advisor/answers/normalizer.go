package answers

import "strings"

// Canonical constraint values. The catalog attributes use the same
// vocabulary, so a normalized answer is directly comparable to product
// attributes.
const (
	TerrainRoad   = "road"
	TerrainGravel = "gravel"
	TerrainMTB    = "mtb"

	LightVariable = "variable"
	LightStable   = "stable"

	PriorityProtection  = "protection"
	PriorityVentilation = "ventilation"
	PriorityComfort     = "comfort"
)

var terrainKeywords = map[string][]string{
	TerrainRoad:   {"road", "asphalt", "tarmac", "strad"},
	TerrainGravel: {"gravel", "mixed", "dirt", "ghia"},
	TerrainMTB:    {"mtb", "mountain", "trail", "singletrack"},
}

var lightKeywords = map[string][]string{
	LightVariable: {"varia", "variable", "change", "changing", "shadow", "shade", "forest", "wood", "sunset", "dusk"},
	LightStable:   {"stable", "steady", "constant", "same", "uniform"},
}

var priorityKeywords = map[string][]string{
	PriorityProtection:  {"protect", "safety", "eye", "coverage"},
	PriorityVentilation: {"ventilat", "fog", "airflow", "breath"},
	PriorityComfort:     {"comfort", "long", "hours", "fit", "light weight", "lightweight"},
}

// exclusionVocabulary maps rejected-option phrasings to the attribute value
// the ranking engine will hard-filter on.
var exclusionVocabulary = map[string]string{
	"mirrored lens":      "mirrored_lens",
	"mirrored lenses":    "mirrored_lens",
	"mirror lens":        "mirrored_lens",
	"photochromic lens":  "photochromic_lens",
	"photochromic":       "photochromic_lens",
	"clear lens":         "clear_lens",
	"full frame":         "full_frame",
	"frameless":          "frameless",
	"premium":            "premium",
	"budget":             "budget",
	TerrainRoad:          TerrainRoad,
	TerrainGravel:        TerrainGravel,
	TerrainMTB:           TerrainMTB,
}

var negationPrefixes = []string{
	"no ", "not ", "without ", "don't want ", "dont want ", "i don't want ",
	"i dont want ", "nothing with ", "avoid ", "skip ", "niente ", "senza ",
}

// NormalizeTerrain maps free text onto a canonical terrain value. An
// empty return means the answer matched nothing and should be re-asked.
func NormalizeTerrain(answer string) string {
	return match(answer, terrainKeywords, []string{TerrainRoad, TerrainGravel, TerrainMTB})
}

// NormalizeLight maps free text onto a canonical light-variation value.
func NormalizeLight(answer string) string {
	a := strings.ToLower(answer)
	if strings.Contains(a, "sun") && strings.Contains(a, "shade") {
		return LightVariable
	}
	return match(answer, lightKeywords, []string{LightVariable, LightStable})
}

// NormalizePriority maps free text onto a canonical priority attribute.
func NormalizePriority(answer string) string {
	return match(answer, priorityKeywords, []string{PriorityProtection, PriorityVentilation, PriorityComfort})
}

// Normalize dispatches on the question key. Unknown keys normalize to
// nothing.
func Normalize(questionKey, answer string) string {
	switch questionKey {
	case "terrain":
		return NormalizeTerrain(answer)
	case "light_variation":
		return NormalizeLight(answer)
	case "priority":
		return NormalizePriority(answer)
	default:
		return ""
	}
}

// DetectExclusion checks whether the input is a rejection ("no mirrored
// lenses", "without photochromic") and returns the attribute value to
// hard-filter. The second return is false for ordinary answers.
func DetectExclusion(input string) (string, bool) {
	a := strings.ToLower(strings.TrimSpace(input))
	for _, prefix := range negationPrefixes {
		if !strings.HasPrefix(a, prefix) {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(a, prefix))
		rest = strings.Trim(rest, ".!,")
		if rest == "" {
			return "", false
		}
		if v, ok := exclusionVocabulary[rest]; ok {
			return v, true
		}
		// Unknown rejected option: keep it as a slug so the filter still
		// applies against catalogs that use the same naming.
		return strings.ReplaceAll(rest, " ", "_"), true
	}
	return "", false
}

func match(answer string, vocab map[string][]string, order []string) string {
	a := strings.ToLower(answer)
	for _, canonical := range order {
		for _, kw := range vocab[canonical] {
			if strings.Contains(a, kw) {
				return canonical
			}
		}
	}
	return ""
}
