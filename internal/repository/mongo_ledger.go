package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gusgusz/projeto14-mywallet-back/internal/db"
	"github.com/gusgusz/projeto14-mywallet-back/internal/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// accountDoc is one user's ledger: {userId, transactions: [...]}.
type accountDoc struct {
	UserID       string           `bson:"userId"`
	Transactions []transactionDoc `bson:"transactions"`
}

type transactionDoc struct {
	TitleDescription string          `bson:"titleDescription"`
	Description      string          `bson:"description"`
	Value            bson.Decimal128 `bson:"value"`
	Type             string          `bson:"type"`
	Date             string          `bson:"date"`
}

func toDecimal128(d decimal.Decimal) (bson.Decimal128, error) {
	v, err := bson.ParseDecimal128(d.String())
	if err != nil {
		return bson.Decimal128{}, fmt.Errorf("encode value %s: %w", d, err)
	}
	return v, nil
}

func (t transactionDoc) model() (models.Transaction, error) {
	v, err := decimal.NewFromString(t.Value.String())
	if err != nil {
		return models.Transaction{}, fmt.Errorf("decode value: %w", err)
	}
	return models.Transaction{
		TitleDescription: t.TitleDescription,
		Description:      t.Description,
		Value:            v,
		Type:             models.TransactionType(t.Type),
		Date:             t.Date,
	}, nil
}

// MongoLedgerRepository keeps each ledger as a single document in the
// accounts collection, unique per userId.
type MongoLedgerRepository struct {
	coll *mongo.Collection
}

// NewMongoLedgerRepository binds the repository to mdb's accounts collection.
func NewMongoLedgerRepository(mdb *mongo.Database) *MongoLedgerRepository {
	return &MongoLedgerRepository{coll: mdb.Collection(db.AccountsCollection)}
}

// AppendTransaction pushes tx onto the user's ledger with one upsert. The
// filter only matches a ledger that lacks the title; when the ledger exists
// but already has it, the upsert collides with the unique userId index and
// the call reports ErrDuplicate.
func (r *MongoLedgerRepository) AppendTransaction(ctx context.Context, userID string, tx models.Transaction) error {
	value, err := toDecimal128(tx.Value)
	if err != nil {
		return fmt.Errorf("AppendTransaction: %w", err)
	}
	doc := transactionDoc{
		TitleDescription: tx.TitleDescription,
		Description:      tx.Description,
		Value:            value,
		Type:             string(tx.Type),
		Date:             tx.Date,
	}

	filter := bson.M{
		"userId":                        userID,
		"transactions.titleDescription": bson.M{"$ne": tx.TitleDescription},
	}
	update := bson.M{"$push": bson.M{"transactions": doc}}

	_, err = r.coll.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("AppendTransaction: %w", err)
	}
	return nil
}

// ListTransactions returns the user's transactions in append order, or an
// empty slice when the user has no ledger document.
func (r *MongoLedgerRepository) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	var acc accountDoc
	err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&acc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []models.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: %w", err)
	}

	txs := make([]models.Transaction, 0, len(acc.Transactions))
	for _, d := range acc.Transactions {
		tx, err := d.model()
		if err != nil {
			return nil, fmt.Errorf("ListTransactions: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// UpdateTransaction renames the transaction titled title and sets its value.
// It returns the number of ledgers changed (0 or 1). Renaming onto a title
// the ledger already holds yields ErrDuplicate.
func (r *MongoLedgerRepository) UpdateTransaction(ctx context.Context, userID, title, newTitle string, value decimal.Decimal) (int64, error) {
	v, err := toDecimal128(value)
	if err != nil {
		return 0, fmt.Errorf("UpdateTransaction: %w", err)
	}

	filter := bson.M{"userId": userID, "transactions.titleDescription": title}
	if newTitle != title {
		filter = bson.M{"userId": userID, "$and": bson.A{
			bson.M{"transactions.titleDescription": title},
			bson.M{"transactions.titleDescription": bson.M{"$ne": newTitle}},
		}}
	}
	update := bson.M{"$set": bson.M{
		"transactions.$[t].titleDescription": newTitle,
		"transactions.$[t].value":            v,
	}}
	opts := options.UpdateOne().SetArrayFilters([]any{bson.M{"t.titleDescription": title}})

	res, err := r.coll.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return 0, fmt.Errorf("UpdateTransaction: %w", err)
	}
	if res.MatchedCount > 0 || newTitle == title {
		return res.MatchedCount, nil
	}

	// Nothing matched: either the title is absent or the rename collides.
	n, err := r.coll.CountDocuments(ctx, bson.M{"userId": userID, "$and": bson.A{
		bson.M{"transactions.titleDescription": title},
		bson.M{"transactions.titleDescription": newTitle},
	}})
	if err != nil {
		return 0, fmt.Errorf("UpdateTransaction: %w", err)
	}
	if n > 0 {
		return 0, ErrDuplicate
	}
	return 0, nil
}

// DeleteTransaction pulls the transaction titled title from the user's
// ledger and returns the number of ledgers changed.
func (r *MongoLedgerRepository) DeleteTransaction(ctx context.Context, userID, title string) (int64, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$pull": bson.M{"transactions": bson.M{"titleDescription": title}}},
	)
	if err != nil {
		return 0, fmt.Errorf("DeleteTransaction: %w", err)
	}
	return res.ModifiedCount, nil
}
