package finance

import (
	"context"
	"strings"
	"time"

	"github.com/bizcore/backend/internal/application/ledger"
	"github.com/bizcore/backend/internal/domain/finance"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPageSize = 20

// TransactionService answers dashboard queries over derived transactions and
// administers payment methods. Transactions themselves are only ever written
// by the ledger.
type TransactionService struct {
	scope  ledger.TransactionScope
	logger *zap.Logger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(scope ledger.TransactionScope, logger *zap.Logger) *TransactionService {
	return &TransactionService{scope: scope, logger: logger}
}

// ListTransactions lists transactions dated in [from, to), newest first by
// default, with the income and expense totals of the returned page
func (s *TransactionService) ListTransactions(ctx context.Context, tenantID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, int64, *TransactionSummary, error) {
	var from, to time.Time
	if filter.From != nil {
		from = *filter.From
	}
	if filter.To != nil {
		to = *filter.To
	}
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return nil, 0, nil, shared.ErrInvalidInput.WithMessage("'to' must be after 'from'")
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
	if filter.Type != "" {
		domainFilter.Filters["type"] = finance.TransactionType(filter.Type)
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = finance.Category(filter.Category)
	}
	if filter.SourceType != "" {
		domainFilter.Filters["source_type"] = finance.SourceType(filter.SourceType)
	}

	var (
		transactions []finance.Transaction
		total        int64
	)
	err := s.scope.Execute(ctx, func(repos ledger.Repositories) error {
		var err error
		transactions, total, err = repos.Transactions().FindByDateRange(ctx, tenantID, from, to, domainFilter)
		return err
	})
	if err != nil {
		return nil, 0, nil, err
	}

	summary := Summarize(transactions)
	return ToTransactionResponses(transactions), total, &summary, nil
}

// GetBySource returns the transaction derived from a source event
func (s *TransactionService) GetBySource(ctx context.Context, tenantID uuid.UUID, sourceType string, sourceID uuid.UUID) (*TransactionResponse, error) {
	st := finance.SourceType(strings.ToUpper(sourceType))
	if !st.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Invalid source type %q", sourceType)
	}

	var resp TransactionResponse
	err := s.scope.Execute(ctx, func(repos ledger.Repositories) error {
		t, err := repos.Transactions().FindBySource(ctx, tenantID, st, sourceID)
		if err != nil {
			return err
		}
		resp = ToTransactionResponse(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreatePaymentMethod adds a payment method. A new default takes the flag
// from the previous one in the same unit of work.
func (s *TransactionService) CreatePaymentMethod(ctx context.Context, tenantID, actorID uuid.UUID, req CreatePaymentMethodRequest) (*PaymentMethodResponse, error) {
	method, err := finance.NewPaymentMethod(tenantID, req.Name, finance.PaymentKind(strings.ToUpper(req.Kind)))
	if err != nil {
		return nil, err
	}
	method.SetCreatedBy(actorID)

	err = s.scope.Execute(ctx, func(repos ledger.Repositories) error {
		if req.IsDefault {
			current, err := repos.PaymentMethods().FindActiveDefault(ctx, tenantID)
			if err != nil && !shared.IsNotFound(err) {
				return err
			}
			if current != nil {
				current.ClearDefault()
				if err := repos.PaymentMethods().Save(ctx, current); err != nil {
					return err
				}
			}
			method.MarkDefault()
		}
		return repos.PaymentMethods().Save(ctx, method)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment method created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("payment_method_id", method.ID.String()),
		zap.String("kind", string(method.Kind)),
		zap.Bool("default", method.IsDefault),
	)
	resp := ToPaymentMethodResponse(method)
	return &resp, nil
}

// DeactivatePaymentMethod disables a payment method; it stops being the default
func (s *TransactionService) DeactivatePaymentMethod(ctx context.Context, tenantID, methodID uuid.UUID) (*PaymentMethodResponse, error) {
	var method *finance.PaymentMethod
	err := s.scope.Execute(ctx, func(repos ledger.Repositories) error {
		var err error
		method, err = repos.PaymentMethods().FindByID(ctx, tenantID, methodID)
		if err != nil {
			return err
		}
		method.Deactivate()
		return repos.PaymentMethods().Save(ctx, method)
	})
	if err != nil {
		return nil, err
	}
	resp := ToPaymentMethodResponse(method)
	return &resp, nil
}
