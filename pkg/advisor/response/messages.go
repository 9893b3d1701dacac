package response

import "hash/fnv"

// Template pools keyed by intent label. Each pool has interchangeable
// openers and closers so repeated sessions do not read identically;
// the variant picked for a session is derived from its id.

var intentOpeners = map[string][]string{
	"exploration": {
		"Happy to help you find the right pair.",
		"Let's narrow this down together.",
		"Good starting point, let me ask a couple of things.",
	},
	"comparison": {
		"Good question, the differences matter more than the spec sheets suggest.",
		"Let's compare them on what actually changes your ride.",
	},
	"risk_reduction": {
		"Understandable, nobody wants to buy twice.",
		"Let's make sure you end up with a safe pick.",
	},
	"technical_reliability": {
		"Fair concern, build quality varies a lot between models.",
		"Let's check the technical side first.",
	},
}

var questionClosers = []string{
	"",
	" This helps me narrow the options.",
	" Just a couple of quick questions.",
}

var recommendationOpeners = []string{
	"Based on what you told me, I'd go with",
	"Given your answers, my pick is",
	"For your kind of riding, the best match is",
}

var alternativeLeads = []string{
	"If you want a second option, also look at",
	"A close runner-up would be",
}

var exclusionAcks = []string{
	"Noted, I'll leave those out.",
	"Got it, excluding those from the shortlist.",
}

var endMessages = []string{
	"Thanks for stopping by, enjoy the ride.",
	"Glad I could help. See you on the road.",
}

func seedFor(sessionID string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return h.Sum32()
}

func pick(pool []string, seed uint32) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[int(seed)%len(pool)]
}
