package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gusgusz/projeto14-mywallet-back/internal/db"
	"github.com/gusgusz/projeto14-mywallet-back/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoSessionRepository stores bearer sessions in the sessions collection.
type MongoSessionRepository struct {
	coll *mongo.Collection
}

// NewMongoSessionRepository binds the repository to mdb's sessions collection.
func NewMongoSessionRepository(mdb *mongo.Database) *MongoSessionRepository {
	return &MongoSessionRepository{coll: mdb.Collection(db.SessionsCollection)}
}

// GetOrCreateSession returns the user's live session or upserts candidate.
// Sessions created before expiredBefore are dropped first.
func (r *MongoSessionRepository) GetOrCreateSession(ctx context.Context, candidate models.Session, expiredBefore time.Time) (*models.Session, error) {
	if !expiredBefore.IsZero() {
		_, err := r.coll.DeleteOne(ctx, bson.M{
			"userId":    candidate.UserID,
			"createdAt": bson.M{"$lt": expiredBefore},
		})
		if err != nil {
			return nil, fmt.Errorf("GetOrCreateSession: drop expired: %w", err)
		}
	}

	update := bson.M{"$setOnInsert": bson.M{
		"token":     candidate.Token,
		"userId":    candidate.UserID,
		"createdAt": candidate.CreatedAt,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var s models.Session
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"userId": candidate.UserID}, update, opts).Decode(&s)
	if err != nil {
		return nil, fmt.Errorf("GetOrCreateSession: %w", err)
	}
	return &s, nil
}

// FindSession returns the session holding token if it was created at or
// after validAfter (a zero validAfter disables the age check).
func (r *MongoSessionRepository) FindSession(ctx context.Context, token string, validAfter time.Time) (*models.Session, error) {
	filter := bson.M{"token": token}
	if !validAfter.IsZero() {
		filter["createdAt"] = bson.M{"$gte": validAfter}
	}

	var s models.Session
	err := r.coll.FindOne(ctx, filter).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("FindSession: %w", err)
	}
	return &s, nil
}

// DeleteSession removes the session holding token.
func (r *MongoSessionRepository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"token": token}); err != nil {
		return fmt.Errorf("DeleteSession: %w", err)
	}
	return nil
}
