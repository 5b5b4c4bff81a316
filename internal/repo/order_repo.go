package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/nirgunrohan/LMS/internal/models"
)

type OrderRepo struct {
	orders  *mongo.Collection
	timeout time.Duration
}

func NewOrderRepo(database *mongo.Database, timeout time.Duration) *OrderRepo {
	return &OrderRepo{orders: database.Collection("orders"), timeout: timeout}
}

func (r *OrderRepo) Create(ctx context.Context, order *models.Order) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.orders.InsertOne(ctx, order)
	if err != nil {
		return "", wrapStoreErr("insert order", err)
	}
	return result.InsertedID.(bson.ObjectID).Hex(), nil
}

// List returns all orders when userID is empty, otherwise only that
// user's orders, newest first either way.
func (r *OrderRepo) List(ctx context.Context, userID string) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{}
	if userID != "" {
		filter["userId"] = userID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapStoreErr("list orders", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, wrapStoreErr("decode orders", err)
	}
	return orders, nil
}

// UpdateStatus also stamps the delivery date when the order reaches
// Delivered.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	objID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.M{"status": status}
	if status == models.OrderDelivered {
		update["deliveryDate"] = time.Now().UTC()
	}

	result, err := r.orders.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return wrapStoreErr("update order", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	objID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.orders.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return wrapStoreErr("delete order", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
