package commission

import (
	"context"
	"strings"

	"github.com/bizcore/backend/internal/application/ledger"
	"github.com/bizcore/backend/internal/domain/commission"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/bizcore/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultPageSize = 20

// RuleService administers commission rules. Changing a rule never touches
// commissions that were already derived from it.
type RuleService struct {
	scope    ledger.TransactionScope
	resolver *commission.RuleResolver
	logger   *zap.Logger
}

// NewRuleService creates a new RuleService
func NewRuleService(scope ledger.TransactionScope, logger *zap.Logger) *RuleService {
	return &RuleService{
		scope:    scope,
		resolver: commission.NewRuleResolver(),
		logger:   logger,
	}
}

// CreateRule creates an active rule
func (s *RuleService) CreateRule(ctx context.Context, tenantID, actorID uuid.UUID, req CreateRuleRequest) (*RuleResponse, error) {
	rule, err := commission.NewCommissionRule(tenantID, req.ProfessionalID, req.ServiceID, req.Percentage, req.Priority)
	if err != nil {
		return nil, err
	}
	rule.Description = strings.TrimSpace(req.Description)
	rule.SetCreatedBy(actorID)

	err = s.scope.Execute(ctx, func(repos ledger.Repositories) error {
		return repos.CommissionRules().Save(ctx, rule)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("commission rule created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("rule_id", rule.ID.String()),
		zap.String("tier", rule.Tier().String()),
		zap.String("percentage", rule.Percentage.String()),
		zap.Int("priority", rule.Priority),
	)
	resp := ToRuleResponse(rule)
	return &resp, nil
}

// GetRule returns a rule of the tenant
func (s *RuleService) GetRule(ctx context.Context, tenantID, ruleID uuid.UUID) (*RuleResponse, error) {
	var resp RuleResponse
	err := s.scope.Execute(ctx, func(repos ledger.Repositories) error {
		rule, err := repos.CommissionRules().FindByID(ctx, tenantID, ruleID)
		if err != nil {
			return err
		}
		resp = ToRuleResponse(rule)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateRule changes a rule's percentage, priority and description. The
// professional and service a rule targets are fixed at creation.
func (s *RuleService) UpdateRule(ctx context.Context, tenantID, ruleID uuid.UUID, req UpdateRuleRequest) (*RuleResponse, error) {
	return s.mutate(ctx, tenantID, ruleID, "updated", func(rule *commission.CommissionRule) error {
		return rule.Update(req.Percentage, req.Priority, strings.TrimSpace(req.Description))
	})
}

// ActivateRule re-enables a rule
func (s *RuleService) ActivateRule(ctx context.Context, tenantID, ruleID uuid.UUID) (*RuleResponse, error) {
	return s.mutate(ctx, tenantID, ruleID, "activated", func(rule *commission.CommissionRule) error {
		return rule.Activate()
	})
}

// DeactivateRule soft-disables a rule
func (s *RuleService) DeactivateRule(ctx context.Context, tenantID, ruleID uuid.UUID) (*RuleResponse, error) {
	return s.mutate(ctx, tenantID, ruleID, "deactivated", func(rule *commission.CommissionRule) error {
		return rule.Deactivate()
	})
}

func (s *RuleService) mutate(ctx context.Context, tenantID, ruleID uuid.UUID, action string, fn func(*commission.CommissionRule) error) (*RuleResponse, error) {
	var rule *commission.CommissionRule
	err := s.scope.Execute(ctx, func(repos ledger.Repositories) error {
		var err error
		rule, err = repos.CommissionRules().FindByID(ctx, tenantID, ruleID)
		if err != nil {
			return err
		}
		if err := fn(rule); err != nil {
			return err
		}
		return repos.CommissionRules().Save(ctx, rule)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("commission rule "+action,
		zap.String("tenant_id", tenantID.String()),
		zap.String("rule_id", rule.ID.String()),
		zap.Bool("active", rule.Active),
		zap.String("percentage", rule.Percentage.String()),
	)
	resp := ToRuleResponse(rule)
	return &resp, nil
}

// ListRules lists the tenant's rules
func (s *RuleService) ListRules(ctx context.Context, tenantID uuid.UUID, filter RuleListFilter) ([]RuleResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = defaultPageSize
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}
	if filter.ProfessionalID != "" {
		id, err := uuid.Parse(filter.ProfessionalID)
		if err != nil {
			return nil, 0, shared.ErrInvalidInput.WithMessage("Invalid professional_id")
		}
		domainFilter.Filters["professional_id"] = id
	}
	if filter.ServiceID != "" {
		id, err := uuid.Parse(filter.ServiceID)
		if err != nil {
			return nil, 0, shared.ErrInvalidInput.WithMessage("Invalid service_id")
		}
		domainFilter.Filters["service_id"] = id
	}

	var (
		rules []commission.CommissionRule
		total int64
	)
	err := s.scope.Execute(ctx, func(repos ledger.Repositories) error {
		var err error
		rules, total, err = repos.CommissionRules().FindAll(ctx, tenantID, domainFilter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return ToRuleResponses(rules), total, nil
}

// PreviewRule resolves the rule that would pay the professional for the
// service, without writing anything. With a base amount the commission it
// would produce is included.
func (s *RuleService) PreviewRule(ctx context.Context, tenantID uuid.UUID, req PreviewRequest) (*PreviewResponse, error) {
	professionalID, err := uuid.Parse(req.ProfessionalID)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("Invalid professional_id")
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("Invalid service_id")
	}
	var base *decimal.Decimal
	if req.BaseAmount != "" {
		amount, err := decimal.NewFromString(req.BaseAmount)
		if err != nil || amount.IsNegative() {
			return nil, shared.ErrInvalidAmount.WithMessage("Invalid base_amount %q", req.BaseAmount)
		}
		base = &amount
	}

	var candidates []commission.CommissionRule
	err = s.scope.Execute(ctx, func(repos ledger.Repositories) error {
		var err error
		candidates, err = repos.CommissionRules().FindCandidates(ctx, tenantID, professionalID, serviceID)
		return err
	})
	if err != nil {
		return nil, err
	}

	ranked := s.resolver.Rank(tenantID, professionalID, serviceID, candidates)
	resp := &PreviewResponse{Candidates: ToRuleResponses(ranked)}
	if len(ranked) == 0 {
		return resp, nil
	}

	winner := ToRuleResponse(&ranked[0])
	resp.Matched = true
	resp.Rule = &winner
	if base != nil {
		amount := valueobject.PercentOf(*base, ranked[0].Percentage)
		resp.Amount = &amount
	}
	return resp, nil
}
