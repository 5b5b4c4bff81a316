package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nirgunrohan/LMS/internal/models"
	"github.com/nirgunrohan/LMS/internal/repo"
	"github.com/nirgunrohan/LMS/internal/utils"
)

func TestComputeTotal(t *testing.T) {
	cases := []struct {
		clothingType string
		quantity     int
		want         float64
	}{
		{"Regular Wash", 4, 10.00},
		{"Dry Clean", 2, 17.98},
		{"Delicate", 3, 13.50},
		{"Heavy Duty", 1, 3.50},
		{"Curtains", 2, 5.00}, // unlisted type uses the default price
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, ComputeTotal(tc.clothingType, tc.quantity), 1e-9, tc.clothingType)
	}
}

type fakeOrderStore struct {
	orders map[string]*models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[string]*models.Order{}}
}

func (f *fakeOrderStore) Create(_ context.Context, order *models.Order) (string, error) {
	order.ID = bson.NewObjectID()
	id := order.ID.Hex()
	f.orders[id] = order
	return id, nil
}

func (f *fakeOrderStore) List(_ context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if userID == "" || o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, id string, status models.OrderStatus) error {
	o, ok := f.orders[id]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	if status == models.OrderDelivered {
		now := time.Now()
		o.DeliveryDate = &now
	}
	return nil
}

func (f *fakeOrderStore) Delete(_ context.Context, id string) error {
	if _, ok := f.orders[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

func TestPlaceOrder(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewOrderService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	id, err := svc.Place(ctx, PlaceOrderInput{
		UserID:       "u1",
		UserName:     "Dana",
		ClothingType: "Dry Clean",
		Quantity:     2,
		PickupDate:   time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	order := store.orders[id]
	require.NotNil(t, order)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.InDelta(t, 17.98, order.TotalAmount, 1e-9)

	_, err = svc.Place(ctx, PlaceOrderInput{UserID: "u1", ClothingType: "Dry Clean", Quantity: 0, PickupDate: time.Now()})
	ae := appErr(t, err)
	assert.Equal(t, utils.CodeValidation, ae.Code)

	_, err = svc.Place(ctx, PlaceOrderInput{UserID: "u1", Quantity: 1, PickupDate: time.Now()})
	assert.Equal(t, utils.CodeValidation, appErr(t, err).Code)
}

func TestListForScopesByRole(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewOrderService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	for _, uid := range []string{"u1", "u1", "u2"} {
		_, err := svc.Place(ctx, PlaceOrderInput{
			UserID: uid, ClothingType: "Regular Wash", Quantity: 1, PickupDate: time.Now(),
		})
		require.NoError(t, err)
	}

	own, err := svc.ListFor(ctx, "u1", models.RoleUser)
	require.NoError(t, err)
	assert.Len(t, own, 2)

	all, err := svc.ListFor(ctx, "u1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateOrderStatus(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewOrderService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	id, err := svc.Place(ctx, PlaceOrderInput{
		UserID: "u1", ClothingType: "Delicate", Quantity: 1, PickupDate: time.Now(),
	})
	require.NoError(t, err)

	err = svc.UpdateStatus(ctx, id, "Folded")
	assert.Equal(t, utils.CodeValidation, appErr(t, err).Code)

	require.NoError(t, svc.UpdateStatus(ctx, id, "Delivered"))
	assert.Equal(t, models.OrderDelivered, store.orders[id].Status)
	assert.NotNil(t, store.orders[id].DeliveryDate)

	err = svc.UpdateStatus(ctx, bson.NewObjectID().Hex(), "Washed")
	assert.Equal(t, utils.CodeNotFound, appErr(t, err).Code)
}
