package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// sessionTTLIndex names the TTL index on sessions.createdAt.
const sessionTTLIndex = "createdAt_1"

// Collection names shared by the Mongo repositories.
const (
	UsersCollection    = "users"
	SessionsCollection = "sessions"
	AccountsCollection = "accounts"
)

// InitMongo connects to uri, pings the deployment and ensures the indexes the
// repositories rely on: unique email, one session per user, one ledger
// document per user. When sessionTTL is positive a TTL index expires sessions.
func InitMongo(ctx context.Context, uri, database string, sessionTTL time.Duration) (*mongo.Client, *mongo.Database, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	mdb := client.Database(database)
	if err := ensureIndexes(ctx, mdb, sessionTTL); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	return client, mdb, nil
}

func ensureIndexes(ctx context.Context, mdb *mongo.Database, sessionTTL time.Duration) error {
	unique := func(key string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	if _, err := mdb.Collection(UsersCollection).Indexes().CreateOne(ctx, unique("email")); err != nil {
		return fmt.Errorf("index users.email: %w", err)
	}

	sessions := mdb.Collection(SessionsCollection)
	if _, err := sessions.Indexes().CreateMany(ctx, []mongo.IndexModel{unique("userId"), unique("token")}); err != nil {
		return fmt.Errorf("index sessions: %w", err)
	}
	if err := syncSessionTTLIndex(ctx, mdb, int32(sessionTTL/time.Second)); err != nil {
		return fmt.Errorf("index sessions.createdAt: %w", err)
	}

	if _, err := mdb.Collection(AccountsCollection).Indexes().CreateOne(ctx, unique("userId")); err != nil {
		return fmt.Errorf("index accounts.userId: %w", err)
	}
	return nil
}

type ttlAction int

const (
	ttlKeep ttlAction = iota
	ttlCreate
	ttlModify
	ttlDrop
	ttlRecreate
)

// planTTLIndex decides how to bring the TTL index to want seconds, where
// want 0 means no index. exists and current describe the index found on the
// collection; current is nil when that index carries no expiry.
func planTTLIndex(exists bool, current *int32, want int32) ttlAction {
	switch {
	case !exists && want <= 0:
		return ttlKeep
	case !exists:
		return ttlCreate
	case want <= 0:
		return ttlDrop
	case current == nil:
		return ttlRecreate
	case *current == want:
		return ttlKeep
	default:
		return ttlModify
	}
}

// syncSessionTTLIndex makes the sessions TTL index match want seconds across
// restarts with a different TTL.
func syncSessionTTLIndex(ctx context.Context, mdb *mongo.Database, want int32) error {
	indexes := mdb.Collection(SessionsCollection).Indexes()

	specs, err := indexes.ListSpecifications(ctx)
	if err != nil {
		return fmt.Errorf("list indexes: %w", err)
	}
	var (
		exists  bool
		current *int32
	)
	for _, spec := range specs {
		if spec.Name == sessionTTLIndex {
			exists, current = true, spec.ExpireAfterSeconds
			break
		}
	}

	create := func() error {
		_, err := indexes.CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetName(sessionTTLIndex).SetExpireAfterSeconds(want),
		})
		return err
	}

	switch planTTLIndex(exists, current, want) {
	case ttlCreate:
		return create()
	case ttlModify:
		return mdb.RunCommand(ctx, bson.D{
			{Key: "collMod", Value: SessionsCollection},
			{Key: "index", Value: bson.D{
				{Key: "name", Value: sessionTTLIndex},
				{Key: "expireAfterSeconds", Value: want},
			}},
		}).Err()
	case ttlDrop:
		return indexes.DropOne(ctx, sessionTTLIndex)
	case ttlRecreate:
		if err := indexes.DropOne(ctx, sessionTTLIndex); err != nil {
			return err
		}
		return create()
	}
	return nil
}
