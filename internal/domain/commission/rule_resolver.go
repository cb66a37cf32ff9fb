package commission

import (
	"sort"

	"github.com/google/uuid"
)

// RuleResolver picks the commission rule that applies to a piece of work.
//
// Candidates are grouped by tier: professional+service, professional only,
// service only, tenant default. The first non-empty tier wins. Inside a
// tier the order is priority descending, then oldest first, then lowest id,
// which is a total order so the result never depends on input order.
// Inactive rules and rules owned by another tenant are never candidates.
type RuleResolver struct{}

// NewRuleResolver creates a RuleResolver
func NewRuleResolver() *RuleResolver {
	return &RuleResolver{}
}

// Resolve returns the winning rule, or nil when no rule applies
func (r *RuleResolver) Resolve(tenantID, professionalID, serviceID uuid.UUID, rules []CommissionRule) *CommissionRule {
	var best *CommissionRule
	for i := range rules {
		rule := &rules[i]
		if !rule.Active || rule.TenantID != tenantID {
			continue
		}
		if !rule.Matches(professionalID, serviceID) {
			continue
		}
		if best == nil || ruleLess(rule, best) {
			best = rule
		}
	}
	return best
}

// Rank returns the applicable rules in resolution order
func (r *RuleResolver) Rank(tenantID, professionalID, serviceID uuid.UUID, rules []CommissionRule) []CommissionRule {
	ranked := make([]CommissionRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Active && rule.TenantID == tenantID && rule.Matches(professionalID, serviceID) {
			ranked = append(ranked, rule)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ruleLess(&ranked[i], &ranked[j])
	})
	return ranked
}

func ruleLess(a, b *CommissionRule) bool {
	if a.Tier() != b.Tier() {
		return a.Tier() < b.Tier()
	}
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}
