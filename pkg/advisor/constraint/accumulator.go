package constraint

// Pair is a single answered question: a question key plus the canonical
// answer value it was normalized into.
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Intent is the classified purchase motivation attached to a session.
type Intent struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Accumulator holds the evolving intent state of one session: the detected
// intent, the answered constraints in dialogue order, and the set of
// attribute values the user has rejected.
//
// It is a plain data structure with no locking. Each session is owned by a
// single worker at a time, so the owning goroutine is the only writer.
type Accumulator struct {
	intent     Intent
	pairs      []Pair
	index      map[string]int
	exclusions map[string]struct{}
	exclOrder  []string
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		index:      make(map[string]int),
		exclusions: make(map[string]struct{}),
	}
}

// Restore rebuilds an accumulator from its serialized parts, preserving
// dialogue and exclusion order. Used when a session is loaded from an
// external store.
func Restore(intent Intent, pairs []Pair, exclusions []string) *Accumulator {
	a := NewAccumulator()
	a.intent = intent
	for _, p := range pairs {
		a.Answer(p.Key, p.Value)
	}
	for _, v := range exclusions {
		a.Exclude(v)
	}
	return a
}

// SetIntent records the detected intent. The label is overwritten on the
// rare re-classification; confidence travels with it.
func (a *Accumulator) SetIntent(label string, confidence float64) {
	a.intent = Intent{Label: label, Confidence: confidence}
}

func (a *Accumulator) Intent() Intent {
	return a.intent
}

// Answer records the canonical value for a question key. A key, once
// answered, keeps its position in dialogue order. Re-answering returns the
// previous value and corrected=true so the caller can emit the correction
// event; the stored value is then updated, never silently.
func (a *Accumulator) Answer(key, value string) (previous string, corrected bool) {
	if i, ok := a.index[key]; ok {
		previous = a.pairs[i].Value
		a.pairs[i].Value = value
		return previous, true
	}
	a.index[key] = len(a.pairs)
	a.pairs = append(a.pairs, Pair{Key: key, Value: value})
	return "", false
}

// Answered reports whether the key already has a recorded answer.
func (a *Accumulator) Answered(key string) bool {
	_, ok := a.index[key]
	return ok
}

// Value returns the recorded answer for a key.
func (a *Accumulator) Value(key string) (string, bool) {
	i, ok := a.index[key]
	if !ok {
		return "", false
	}
	return a.pairs[i].Value, true
}

// Pairs returns the answered constraints in dialogue order. The returned
// slice is a copy; callers may not mutate accumulator state through it.
func (a *Accumulator) Pairs() []Pair {
	out := make([]Pair, len(a.pairs))
	copy(out, a.pairs)
	return out
}

// Exclude adds a rejected attribute value to the exclusion set. Returns
// false if the value was already excluded.
func (a *Accumulator) Exclude(value string) bool {
	if _, ok := a.exclusions[value]; ok {
		return false
	}
	a.exclusions[value] = struct{}{}
	a.exclOrder = append(a.exclOrder, value)
	return true
}

// Excluded reports whether an attribute value has been rejected.
func (a *Accumulator) Excluded(value string) bool {
	_, ok := a.exclusions[value]
	return ok
}

// Exclusions returns the rejected values in the order they were rejected.
func (a *Accumulator) Exclusions() []string {
	out := make([]string, len(a.exclOrder))
	copy(out, a.exclOrder)
	return out
}

// ExclusionSet returns the exclusions as a lookup set for the ranking
// engine's hard filter.
func (a *Accumulator) ExclusionSet() map[string]struct{} {
	out := make(map[string]struct{}, len(a.exclusions))
	for v := range a.exclusions {
		out[v] = struct{}{}
	}
	return out
}
