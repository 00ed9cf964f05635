package triage

// Signal vocabularies for urgency scoring. Each bucket contributes once
// regardless of how many of its markers appear.
var (
	urgencyMarkers = keywordSet(
		"urgent", "urgently", "asap", "critical", "emergency", "immediately",
		"p1", "sev1",
	)
	impactMarkers = keywordSet(
		"production", "outage", "down", "everyone", "everybody", "security",
		"breach", "loss",
	)
	problemMarkers = keywordSet(
		"error", "errors", "failed", "failure", "fails", "crash", "crashes",
		"broken", "cannot", "unable", "blocked", "stuck",
	)
	recurrenceMarkers = keywordSet(
		"again", "repeatedly", "keeps", "always", "constantly", "recurring",
	)
)

const (
	scoreBase        = 35
	scoreUnscorable  = 50
	urgencyWeight    = 25
	impactWeight     = 15
	problemWeight    = 8
	recurrenceWeight = 7
)

// Score maps urgency, impact and recurrence signals in the ticket text to an
// integer priority in [0,100]. Deterministic, no external calls. Tickets with
// no scoreable signal default to a mid-range score: 0 would read as "no
// priority" rather than "unknown".
func Score(text string) int {
	tokens := tokenize(text)

	var urgency, impact, problem, recurrence bool
	for _, tok := range tokens {
		if _, ok := urgencyMarkers[tok]; ok {
			urgency = true
		}
		if _, ok := impactMarkers[tok]; ok {
			impact = true
		}
		if _, ok := problemMarkers[tok]; ok {
			problem = true
		}
		if _, ok := recurrenceMarkers[tok]; ok {
			recurrence = true
		}
	}

	if !urgency && !impact && !problem && !recurrence {
		return scoreUnscorable
	}

	score := scoreBase
	if urgency {
		score += urgencyWeight
	}
	if impact {
		score += impactWeight
	}
	if problem {
		score += problemWeight
	}
	if recurrence {
		score += recurrenceWeight
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
