package commission

import (
	"context"
	"time"

	"github.com/bizcore/backend/internal/application/ledger"
	"github.com/bizcore/backend/internal/domain/commission"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayoutService settles and voids pending commissions and lists what a
// professional has earned
type PayoutService struct {
	scope  ledger.TransactionScope
	logger *zap.Logger
	now    func() time.Time
}

// NewPayoutService creates a new PayoutService
func NewPayoutService(scope ledger.TransactionScope, logger *zap.Logger) *PayoutService {
	return &PayoutService{
		scope:  scope,
		logger: logger,
		now:    time.Now,
	}
}

// MarkPaid moves a pending commission to PAID
func (s *PayoutService) MarkPaid(ctx context.Context, tenantID, commissionID uuid.UUID) (*CommissionResponse, error) {
	return s.settle(ctx, tenantID, commissionID, "paid", func(c *commission.Commission, at time.Time) error {
		return c.MarkPaid(at)
	})
}

// Cancel moves a pending commission to CANCELLED
func (s *PayoutService) Cancel(ctx context.Context, tenantID, commissionID uuid.UUID) (*CommissionResponse, error) {
	return s.settle(ctx, tenantID, commissionID, "cancelled", func(c *commission.Commission, at time.Time) error {
		return c.Cancel(at)
	})
}

func (s *PayoutService) settle(ctx context.Context, tenantID, commissionID uuid.UUID, action string, fn func(*commission.Commission, time.Time) error) (*CommissionResponse, error) {
	var c *commission.Commission
	err := s.scope.Execute(ctx, func(repos ledger.Repositories) error {
		var err error
		c, err = repos.Commissions().FindByID(ctx, tenantID, commissionID)
		if err != nil {
			return err
		}
		if err := fn(c, s.now().UTC()); err != nil {
			return err
		}
		return repos.Commissions().Save(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("commission "+action,
		zap.String("tenant_id", tenantID.String()),
		zap.String("commission_id", c.ID.String()),
		zap.String("professional_id", c.ProfessionalID.String()),
		zap.String("amount", c.Amount.String()),
	)
	resp := ToCommissionResponse(c)
	return &resp, nil
}

// ListByProfessional lists a professional's commissions earned in [from, to).
// Missing bounds are open.
func (s *PayoutService) ListByProfessional(ctx context.Context, tenantID uuid.UUID, filter CommissionListFilter) ([]CommissionResponse, int64, error) {
	professionalID, err := uuid.Parse(filter.ProfessionalID)
	if err != nil {
		return nil, 0, shared.ErrInvalidInput.WithMessage("Invalid professional_id")
	}

	var from, to time.Time
	if filter.From != nil {
		from = *filter.From
	}
	if filter.To != nil {
		to = *filter.To
	}
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return nil, 0, shared.ErrInvalidInput.WithMessage("'to' must be after 'from'")
	}

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
	if filter.Status != "" {
		domainFilter.Filters["status"] = commission.Status(filter.Status)
	}

	var (
		commissions []commission.Commission
		total       int64
	)
	err = s.scope.Execute(ctx, func(repos ledger.Repositories) error {
		var err error
		commissions, total, err = repos.Commissions().FindByProfessional(ctx, tenantID, professionalID, from, to, domainFilter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return ToCommissionResponses(commissions), total, nil
}
