package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/nirgunrohan/LMS/internal/models"
	"github.com/nirgunrohan/LMS/internal/password"
)

// EnsureAdminUser creates the administrator account when it does not
// exist yet. A no-op when email or password is unconfigured.
func EnsureAdminUser(ctx context.Context, database *mongo.Database, hasher *password.Hasher, email, plaintext string, timeout time.Duration) error {
	if email == "" || plaintext == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	users := database.Collection("users")

	count, err := users.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := hasher.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = users.InsertOne(ctx, models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("insert admin user: %w", err)
	}
	return nil
}
