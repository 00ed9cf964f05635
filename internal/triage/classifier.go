package triage

import "github.com/spec-kit/ticket-triage/internal/domain"

// Classification is the classifier's output.
type Classification struct {
	Category domain.Category
	Tier     domain.Tier
}

// Clear reports whether the category resolved unambiguously. Falling back to
// "other" means nothing matched, so it does not count as clear.
func (c Classification) Clear() bool {
	return c.Category != domain.CategoryOther
}

// categoryPrecedence is the tie-break order when several keyword sets match.
// This is a policy decision: authentication issues outrank billing, billing
// outranks general technical noise.
var categoryPrecedence = []struct {
	category domain.Category
	keywords map[string]struct{}
}{
	{domain.CategoryAuthentication, authenticationKeywords},
	{domain.CategoryBilling, billingKeywords},
	{domain.CategoryTechnical, technicalKeywords},
}

// Score bands for the tier lookup table.
const (
	tierBandPriority = 40
	tierBandUrgent   = 75
)

// tierTable maps category and score band to a treatment tier. A lookup
// table, not a formula: authentication is never treated below priority, and
// unclassified tickets are held back one tier.
var tierTable = map[domain.Category][3]domain.Tier{
	domain.CategoryTechnical:      {domain.TierStandard, domain.TierPriority, domain.TierUrgent},
	domain.CategoryBilling:        {domain.TierStandard, domain.TierPriority, domain.TierUrgent},
	domain.CategoryAuthentication: {domain.TierPriority, domain.TierPriority, domain.TierUrgent},
	domain.CategoryOther:          {domain.TierStandard, domain.TierStandard, domain.TierPriority},
}

// Classify maps keywords and priority score to a category and treatment
// tier.
func Classify(keywords []string, priorityScore int) Classification {
	category := domain.CategoryOther
	for _, entry := range categoryPrecedence {
		if matchesAny(keywords, entry.keywords) {
			category = entry.category
			break
		}
	}

	band := 0
	switch {
	case priorityScore >= tierBandUrgent:
		band = 2
	case priorityScore >= tierBandPriority:
		band = 1
	}

	return Classification{
		Category: category,
		Tier:     tierTable[category][band],
	}
}

func matchesAny(keywords []string, set map[string]struct{}) bool {
	for _, kw := range keywords {
		if _, ok := set[kw]; ok {
			return true
		}
	}
	return false
}
