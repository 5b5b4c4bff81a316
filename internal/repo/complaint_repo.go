package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/nirgunrohan/LMS/internal/models"
)

type ComplaintRepo struct {
	complaints *mongo.Collection
	timeout    time.Duration
}

func NewComplaintRepo(database *mongo.Database, timeout time.Duration) *ComplaintRepo {
	return &ComplaintRepo{complaints: database.Collection("complaints"), timeout: timeout}
}

func (r *ComplaintRepo) Create(ctx context.Context, complaint *models.Complaint) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.complaints.InsertOne(ctx, complaint)
	if err != nil {
		return "", wrapStoreErr("insert complaint", err)
	}
	return result.InsertedID.(bson.ObjectID).Hex(), nil
}

func (r *ComplaintRepo) List(ctx context.Context, userID string) ([]models.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{}
	if userID != "" {
		filter["userId"] = userID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.complaints.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapStoreErr("list complaints", err)
	}
	defer cursor.Close(ctx)

	complaints := []models.Complaint{}
	if err := cursor.All(ctx, &complaints); err != nil {
		return nil, wrapStoreErr("decode complaints", err)
	}
	return complaints, nil
}

func (r *ComplaintRepo) UpdateStatus(ctx context.Context, id string, status models.ComplaintStatus) error {
	objID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.complaints.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return wrapStoreErr("update complaint", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
