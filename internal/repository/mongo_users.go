package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gusgusz/projeto14-mywallet-back/internal/db"
	"github.com/gusgusz/projeto14-mywallet-back/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MongoUserRepository stores credentials in the users collection.
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository binds the repository to mdb's users collection.
func NewMongoUserRepository(mdb *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: mdb.Collection(db.UsersCollection)}
}

// CreateUser inserts user; the unique email index turns a second
// registration into ErrDuplicate.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.coll.InsertOne(ctx, user)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("CreateUser: %w", err)
	}
	return nil
}

// GetUserByEmail returns the user registered with email, or ErrNotFound.
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetUserByEmail: %w", err)
	}
	return &u, nil
}
