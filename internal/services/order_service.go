package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/nirgunrohan/LMS/internal/models"
	"github.com/nirgunrohan/LMS/internal/repo"
	"github.com/nirgunrohan/LMS/internal/utils"
)

// Per-item prices by clothing type. Unlisted types fall back to the
// regular wash price.
var clothingPrices = map[string]float64{
	"Regular Wash": 2.50,
	"Dry Clean":    8.99,
	"Delicate":     4.50,
	"Heavy Duty":   3.50,
}

const defaultItemPrice = 2.50

// PriceFor returns the per-item price for a clothing type.
func PriceFor(clothingType string) float64 {
	if price, ok := clothingPrices[clothingType]; ok {
		return price
	}
	return defaultItemPrice
}

// ComputeTotal prices an order at per-item price times quantity.
func ComputeTotal(clothingType string, quantity int) float64 {
	return PriceFor(clothingType) * float64(quantity)
}

// OrderStore is the persistence port for orders. An empty userID on
// List means no owner filter.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) (string, error)
	List(ctx context.Context, userID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	Delete(ctx context.Context, id string) error
}

type OrderService struct {
	store  OrderStore
	logger *slog.Logger
	now    func() time.Time
}

func NewOrderService(store OrderStore, logger *slog.Logger) *OrderService {
	return &OrderService{store: store, logger: logger, now: time.Now}
}

type PlaceOrderInput struct {
	UserID       string
	UserName     string
	ClothingType string
	Quantity     int
	PickupDate   time.Time
}

func (s *OrderService) Place(ctx context.Context, in PlaceOrderInput) (string, error) {
	if in.ClothingType == "" || in.PickupDate.IsZero() {
		return "", utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "Clothing type and pickup date are required", nil)
	}
	if in.Quantity <= 0 {
		return "", utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "Quantity must be at least 1", nil)
	}

	id, err := s.store.Create(ctx, &models.Order{
		UserID:       in.UserID,
		UserName:     in.UserName,
		ClothingType: in.ClothingType,
		Quantity:     in.Quantity,
		PickupDate:   in.PickupDate,
		Status:       models.OrderPending,
		TotalAmount:  ComputeTotal(in.ClothingType, in.Quantity),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return "", s.storeErr("place order", err)
	}
	return id, nil
}

// ListFor returns every order for admins and only the caller's
// otherwise.
func (s *OrderService) ListFor(ctx context.Context, userID string, role models.Role) ([]models.Order, error) {
	filter := userID
	if role == models.RoleAdmin {
		filter = ""
	}
	orders, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, s.storeErr("list orders", err)
	}
	return orders, nil
}

func (s *OrderService) ListOwn(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, s.storeErr("list own orders", err)
	}
	return orders, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) error {
	if !models.ValidOrderStatus(status) {
		return utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "Invalid order status", nil)
	}
	if err := s.store.UpdateStatus(ctx, id, models.OrderStatus(status)); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return utils.NewAppError(http.StatusNotFound, utils.CodeNotFound, "Order not found", nil)
		}
		return s.storeErr("update order status", err)
	}
	return nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return utils.NewAppError(http.StatusNotFound, utils.CodeNotFound, "Order not found", nil)
		}
		return s.storeErr("delete order", err)
	}
	return nil
}

func (s *OrderService) storeErr(op string, err error) error {
	if errors.Is(err, repo.ErrUnavailable) {
		s.logger.Error("store unavailable", "op", op, "error", err)
		return utils.NewAppError(http.StatusServiceUnavailable, utils.CodeStoreUnavailable,
			"Unable to connect to database. Please try again later.", nil)
	}
	s.logger.Error("order operation failed", "op", op, "error", err)
	return utils.NewAppError(http.StatusInternalServerError, utils.CodeInternal, "Internal server error", nil)
}
