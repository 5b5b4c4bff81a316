package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/nirgunrohan/LMS/internal/models"
)

type UserRepo struct {
	users   *mongo.Collection
	timeout time.Duration
}

func NewUserRepo(database *mongo.Database, timeout time.Duration) *UserRepo {
	return &UserRepo{users: database.Collection("users"), timeout: timeout}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateEmail
		}
		return "", wrapStoreErr("insert user", err)
	}

	id, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted id type")
	}
	return id.Hex(), nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	if err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, wrapStoreErr("find user by email", err)
	}
	return &user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	if err := r.users.FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, wrapStoreErr("find user by id", err)
	}
	return &user, nil
}

// List returns every user, newest first, for the admin overview.
// Sensitive fields stay out of responses via struct tags, not projection,
// so the same model serves both store and wire.
func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrapStoreErr("list users", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, wrapStoreErr("decode users", err)
	}
	return users, nil
}

func (r *UserRepo) AddSession(ctx context.Context, userID string, session models.Session) error {
	objID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.users.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$push": bson.M{"sessions": session}},
	)
	if err != nil {
		return wrapStoreErr("add session", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RotateSession replaces the refresh token of the matching session in a
// single filtered update. The document-level atomicity of that update is
// what guarantees at most one of two racing refresh calls succeeds; the
// loser no longer matches the filter and gets ErrSessionNotFound.
func (r *UserRepo) RotateSession(ctx context.Context, userID, oldToken, newToken string, lastUsed time.Time) error {
	objID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return ErrSessionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.users.UpdateOne(ctx,
		bson.M{"_id": objID, "sessions.refreshToken": oldToken},
		bson.M{"$set": bson.M{
			"sessions.$.refreshToken": newToken,
			"sessions.$.lastUsed":     lastUsed,
		}},
	)
	if err != nil {
		return wrapStoreErr("rotate session", err)
	}
	if result.MatchedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *UserRepo) RemoveSession(ctx context.Context, userID, token string) error {
	objID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return ErrSessionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.users.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$pull": bson.M{"sessions": bson.M{"refreshToken": token}}},
	)
	if err != nil {
		return wrapStoreErr("remove session", err)
	}
	if result.ModifiedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *UserRepo) SetResetToken(ctx context.Context, userID, resetToken string, expiry time.Time) error {
	objID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err = r.users.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{
			"resetToken":       resetToken,
			"resetTokenExpiry": expiry,
		}},
	)
	if err != nil {
		return wrapStoreErr("set reset token", err)
	}
	return nil
}

// UpdatePassword swaps the hash, consumes any pending reset token and
// drops every session so existing refresh tokens die with the old password.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	objID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.users.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{
			"$set":   bson.M{"password": passwordHash},
			"$unset": bson.M{"resetToken": "", "resetTokenExpiry": "", "sessions": ""},
		},
	)
	if err != nil {
		return wrapStoreErr("update password", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) SetTwoFactorSecret(ctx context.Context, userID, secret string) error {
	objID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.users.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{
			"twoFactorSecret":  secret,
			"twoFactorEnabled": false,
		}},
	)
	if err != nil {
		return wrapStoreErr("set two-factor secret", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) EnableTwoFactor(ctx context.Context, userID string) error {
	objID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.users.UpdateOne(ctx,
		bson.M{"_id": objID, "twoFactorSecret": bson.M{"$exists": true}},
		bson.M{"$set": bson.M{"twoFactorEnabled": true}},
	)
	if err != nil {
		return wrapStoreErr("enable two-factor", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
