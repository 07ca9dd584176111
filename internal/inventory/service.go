package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/shared"
	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/stock"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListLevels(ctx context.Context, warehouseID int64) ([]StockLevel, error)
	GetLevel(ctx context.Context, warehouseID, productID int64) (StockLevel, error)
	ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error)
}

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// NotifierPort pushes fire-and-forget notifications, e.g. low-stock alerts.
type NotifierPort interface {
	Push(ctx context.Context, subject, body string) error
}

// CachePort serves cached stock levels and drops them after movements.
type CachePort interface {
	Get(ctx context.Context, warehouseID, productID int64) (StockLevel, bool, error)
	Set(ctx context.Context, lv StockLevel) error
	Invalidate(ctx context.Context, warehouseID, productID int64) error
}

// IdempotencyPort guards against duplicate movement posting.
type IdempotencyPort interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

// Service coordinates inventory operations.
type Service struct {
	repo        RepositoryPort
	audit       AuditPort
	notifier    NotifierPort
	cache       CachePort
	idempotency IdempotencyPort
	allowNeg    bool
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	AllowNegativeStock bool
}

// NewService builds Service.
func NewService(repo RepositoryPort, audit AuditPort, notifier NotifierPort, cache CachePort, idem IdempotencyPort, cfg ServiceConfig) *Service {
	return &Service{repo: repo, audit: audit, notifier: notifier, cache: cache, idempotency: idem, allowNeg: cfg.AllowNegativeStock}
}

// PostReceive posts an inbound movement, e.g. a received purchase order.
func (s *Service) PostReceive(ctx context.Context, input ReceiveInput) (Movement, error) {
	if input.WarehouseID == 0 || input.ProductID == 0 {
		return Movement{}, shared.NewValidationError("warehouse_id", "warehouse and product required")
	}
	if input.Qty <= 0 {
		return Movement{}, ErrInvalidQuantity
	}
	if input.UnitCost < 0 {
		return Movement{}, ErrInvalidUnitCost
	}
	return s.postMovement(ctx, movementParams{
		Code:        input.Code,
		WarehouseID: input.WarehouseID,
		ProductID:   input.ProductID,
		QtyChange:   input.Qty,
		UnitCost:    input.UnitCost,
		Type:        MovementTypeReceive,
		Note:        input.Note,
		ActorID:     input.ActorID,
		RefModule:   input.RefModule,
		RefID:       input.RefID,
	})
}

// PostIssue posts an outbound movement, e.g. a completed sale.
func (s *Service) PostIssue(ctx context.Context, input IssueInput) (Movement, error) {
	if input.WarehouseID == 0 || input.ProductID == 0 {
		return Movement{}, shared.NewValidationError("warehouse_id", "warehouse and product required")
	}
	if input.Qty <= 0 {
		return Movement{}, ErrInvalidQuantity
	}
	return s.postMovement(ctx, movementParams{
		Code:        input.Code,
		WarehouseID: input.WarehouseID,
		ProductID:   input.ProductID,
		QtyChange:   -input.Qty,
		Type:        MovementTypeIssue,
		Note:        input.Note,
		ActorID:     input.ActorID,
		RefModule:   input.RefModule,
		RefID:       input.RefID,
	})
}

// PostAdjustment posts an adjustment which may be positive or negative.
func (s *Service) PostAdjustment(ctx context.Context, input AdjustmentInput) (Movement, error) {
	if input.WarehouseID == 0 || input.ProductID == 0 {
		return Movement{}, shared.NewValidationError("warehouse_id", "warehouse and product required")
	}
	if math.Abs(input.Qty) < 1e-9 {
		return Movement{}, ErrInvalidQuantity
	}
	if input.Qty > 0 && input.UnitCost < 0 {
		return Movement{}, ErrInvalidUnitCost
	}
	return s.postMovement(ctx, movementParams{
		Code:        input.Code,
		WarehouseID: input.WarehouseID,
		ProductID:   input.ProductID,
		QtyChange:   input.Qty,
		UnitCost:    input.UnitCost,
		Type:        MovementTypeAdjust,
		Note:        input.Note,
		ActorID:     input.ActorID,
	})
}

// PostTransfer moves stock between warehouses using an ISSUE-like OUT leg
// followed by a RECEIVE-like IN leg, both typed TRANSFER.
func (s *Service) PostTransfer(ctx context.Context, input TransferInput) (Movement, Movement, error) {
	if input.SrcWarehouse == 0 || input.DstWarehouse == 0 || input.ProductID == 0 {
		return Movement{}, Movement{}, shared.NewValidationError("warehouse_id", "warehouse and product required")
	}
	if input.SrcWarehouse == input.DstWarehouse {
		return Movement{}, Movement{}, shared.NewValidationError("dst_warehouse", "source and destination must differ")
	}
	if input.Qty <= 0 {
		return Movement{}, Movement{}, ErrInvalidQuantity
	}

	code := input.Code
	if code == "" {
		code = fmt.Sprintf("TRF-%d", time.Now().UnixNano())
	}
	out, err := s.postMovement(ctx, movementParams{
		Code:        fmt.Sprintf("%s-OUT", code),
		WarehouseID: input.SrcWarehouse,
		ProductID:   input.ProductID,
		QtyChange:   -input.Qty,
		Type:        MovementTypeTransfer,
		Note:        fmt.Sprintf("Transfer to %d: %s", input.DstWarehouse, input.Note),
		ActorID:     input.ActorID,
	})
	if err != nil {
		return Movement{}, Movement{}, err
	}
	in, err := s.postMovement(ctx, movementParams{
		Code:        fmt.Sprintf("%s-IN", code),
		WarehouseID: input.DstWarehouse,
		ProductID:   input.ProductID,
		QtyChange:   input.Qty,
		UnitCost:    out.UnitCost,
		Type:        MovementTypeTransfer,
		Note:        fmt.Sprintf("Transfer from %d: %s", input.SrcWarehouse, input.Note),
		ActorID:     input.ActorID,
	})
	if err != nil {
		return Movement{}, Movement{}, err
	}
	return out, in, nil
}

// Levels lists stock balances with their derived status.
func (s *Service) Levels(ctx context.Context, warehouseID int64) ([]StockLevel, error) {
	levels, err := s.repo.ListLevels(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	for i := range levels {
		if err := classifyLevel(&levels[i]); err != nil {
			return nil, err
		}
	}
	return levels, nil
}

// Level returns one classified stock level.
func (s *Service) Level(ctx context.Context, warehouseID, productID int64) (StockLevel, error) {
	if warehouseID == 0 || productID == 0 {
		return StockLevel{}, shared.NewValidationError("warehouse_id", "warehouse and product required")
	}
	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, warehouseID, productID); err == nil && ok {
			return cached, nil
		}
	}
	lv, err := s.repo.GetLevel(ctx, warehouseID, productID)
	if err != nil {
		return StockLevel{}, err
	}
	if err := classifyLevel(&lv); err != nil {
		return StockLevel{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, lv)
	}
	return lv, nil
}

// LowStock lists levels currently classified Critical or Low.
func (s *Service) LowStock(ctx context.Context, warehouseID int64) ([]StockLevel, error) {
	levels, err := s.Levels(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	var low []StockLevel
	for _, lv := range levels {
		if lv.Status == stock.StatusCritical || lv.Status == stock.StatusLow {
			low = append(low, lv)
		}
	}
	return low, nil
}

// Movements lists ledger entries.
func (s *Service) Movements(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	return s.repo.ListMovements(ctx, filter)
}

type movementParams struct {
	Code        string
	WarehouseID int64
	ProductID   int64
	QtyChange   float64
	UnitCost    float64
	Type        MovementType
	Note        string
	ActorID     int64
	RefModule   string
	RefID       string
}

func (s *Service) postMovement(ctx context.Context, params movementParams) (Movement, error) {
	if params.QtyChange == 0 {
		return Movement{}, ErrInvalidQuantity
	}
	now := time.Now().UTC()
	code := params.Code
	if code == "" {
		code = fmt.Sprintf("INV-%d", now.UnixNano())
	}

	key := fmt.Sprintf("%s:%s:%d:%d", params.Type, code, params.WarehouseID, params.ProductID)
	insertedKey := false
	if s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, key, "inventory"); err != nil {
			return Movement{}, err
		}
		insertedKey = true
	}

	var movement Movement
	var newStatus stock.Status
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		balance, err := tx.GetBalanceForUpdate(ctx, params.WarehouseID, params.ProductID)
		if err != nil && !errors.Is(err, ErrBalanceNotFound) {
			return err
		}
		if errors.Is(err, ErrBalanceNotFound) {
			balance = Balance{WarehouseID: params.WarehouseID, ProductID: params.ProductID}
		}

		newQty := balance.Qty + params.QtyChange
		if !s.allowNeg && newQty < -0.0001 {
			return ErrNegativeStock
		}

		// Weighted-average cost on inbound; outbound consumes at average.
		var unitCost, newAvg float64
		if params.QtyChange > 0 {
			unitCost = params.UnitCost
			totalCost := balance.Qty*balance.AvgCost + params.QtyChange*unitCost
			if newQty != 0 {
				newAvg = totalCost / newQty
			}
		} else {
			unitCost = balance.AvgCost
			if math.Abs(newQty) < 0.0001 {
				newQty = 0
			}
			if newQty > 0 {
				newAvg = balance.AvgCost
			}
		}

		movement = Movement{
			Code:        code,
			Type:        params.Type,
			WarehouseID: params.WarehouseID,
			ProductID:   params.ProductID,
			Qty:         params.QtyChange,
			UnitCost:    unitCost,
			BalanceQty:  newQty,
			RefModule:   params.RefModule,
			RefID:       params.RefID,
			Note:        params.Note,
			PostedAt:    now,
			CreatedBy:   params.ActorID,
		}
		id, err := tx.InsertMovement(ctx, movement)
		if err != nil {
			return err
		}
		movement.ID = id

		balance.Qty = newQty
		balance.AvgCost = newAvg
		if err := tx.UpsertBalance(ctx, balance); err != nil {
			return err
		}

		th, err := tx.GetProductThresholds(ctx, params.ProductID)
		if err != nil {
			return err
		}
		newStatus, err = stock.Classify(math.Max(newQty, 0), th)
		return err
	})
	if err != nil {
		if insertedKey {
			_ = s.idempotency.Delete(ctx, key)
		}
		return Movement{}, err
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, params.WarehouseID, params.ProductID)
	}
	if s.notifier != nil && (newStatus == stock.StatusCritical || newStatus == stock.StatusLow) {
		subject := fmt.Sprintf("Stock %s: product %d", newStatus, params.ProductID)
		body := fmt.Sprintf("Warehouse %d is down to %.2f units after %s", params.WarehouseID, movement.BalanceQty, code)
		_ = s.notifier.Push(ctx, subject, body)
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  params.ActorID,
			Action:   fmt.Sprintf("inventory:%s", params.Type),
			Entity:   "stock_movement",
			EntityID: code,
			Meta: map[string]any{
				"warehouse_id": params.WarehouseID,
				"product_id":   params.ProductID,
				"qty":          params.QtyChange,
			},
		})
	}
	return movement, nil
}

func classifyLevel(lv *StockLevel) error {
	status, err := stock.Classify(math.Max(lv.CurrentStock, 0), stock.Thresholds{MinStock: lv.MinStock, MaxStock: lv.MaxStock})
	if err != nil {
		return fmt.Errorf("classify product %d: %w", lv.ProductID, err)
	}
	lv.Status = status
	lv.StatusColor = status.Color()
	return nil
}
