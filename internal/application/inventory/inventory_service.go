package inventory

import (
	"context"
	"strings"

	"github.com/bizcore/backend/internal/application/ledger"
	"github.com/bizcore/backend/internal/domain/inventory"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPageSize = 20

// InventoryService exposes stock changes and stock queries to adapters.
// Every change goes through the StockLedger; the repositories are read only here.
type InventoryService struct {
	stock        *ledger.StockLedger
	productRepo  inventory.ProductRepository
	movementRepo inventory.StockMovementRepository
	logger       *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	stock *ledger.StockLedger,
	productRepo inventory.ProductRepository,
	movementRepo inventory.StockMovementRepository,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		stock:        stock,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		logger:       logger,
	}
}

// RecordMovement applies a stock movement on behalf of actorID
func (s *InventoryService) RecordMovement(ctx context.Context, tenantID, actorID uuid.UUID, req RecordMovementRequest) (*RecordMovementResponse, error) {
	direction := inventory.Direction(strings.ToUpper(req.Direction))
	reason := inventory.Reason(strings.ToUpper(req.Reason))
	if !direction.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Invalid movement direction %q", req.Direction)
	}
	if !reason.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Invalid movement reason %q", req.Reason)
	}
	if (req.SourceType == "") != (req.SourceID == nil) {
		return nil, shared.ErrInvalidInput.WithMessage("source_type and source_id must be given together")
	}

	result, err := s.stock.ApplyMovement(ctx, tenantID, actorID, ledger.MovementRequest{
		ProductID:  req.ProductID,
		Direction:  direction,
		Reason:     reason,
		Quantity:   req.Quantity,
		UnitCost:   req.UnitCost,
		SourceType: strings.TrimSpace(req.SourceType),
		SourceID:   req.SourceID,
		Notes:      req.Notes,
	})
	if err != nil {
		return nil, err
	}

	resp := ToRecordMovementResponse(result)
	return &resp, nil
}

// GetProduct returns a product's stock position
func (s *InventoryService) GetProduct(ctx context.Context, tenantID, productID uuid.UUID) (*ProductStockResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	resp := ToProductStockResponse(product)
	return &resp, nil
}

// ListMovements lists a product's movement history, newest first unless
// another order is requested. An unknown product is NOT_FOUND rather than
// an empty page.
func (s *InventoryService) ListMovements(ctx context.Context, tenantID, productID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	if _, err := s.productRepo.FindByID(ctx, tenantID, productID); err != nil {
		return nil, 0, err
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = defaultPageSize
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "created_at"
	}
	if domainFilter.OrderDir == "" {
		domainFilter.OrderDir = "desc"
	}

	movements, total, err := s.movementRepo.FindByProduct(ctx, tenantID, productID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToMovementResponses(movements), total, nil
}

// ListLowStock lists active products at or below their threshold, emptiest
// first by default
func (s *InventoryService) ListLowStock(ctx context.Context, tenantID uuid.UUID, filter LowStockFilter) ([]ProductStockResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = defaultPageSize
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "stock_quantity"
		if domainFilter.OrderDir == "" {
			domainFilter.OrderDir = "asc"
		}
	}

	products, total, err := s.productRepo.FindBelowThreshold(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductStockResponses(products), total, nil
}
