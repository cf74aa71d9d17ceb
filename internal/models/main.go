// Package models defines the core data structures for users, sessions and
// ledger transactions.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the layout of Transaction.Date (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id" bson:"_id"`
	// Name is the display name given at sign-up.
	Name string `json:"name" bson:"name"`
	// Email is the login identifier, unique across users.
	Email string `json:"email" bson:"email"`
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-" bson:"password"`
}

// Session binds an opaque bearer token to a user.
type Session struct {
	Token     string    `json:"token" bson:"token"`
	UserID    string    `json:"userId" bson:"userId"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// TransactionType tells whether a transaction adds to or subtracts from the balance.
type TransactionType string

const (
	// TypeIn is an income entry.
	TypeIn TransactionType = "in"
	// TypeOut is an expense entry.
	TypeOut TransactionType = "out"
)

// Transaction is a single ledger entry. TitleDescription identifies it within
// the owner's ledger.
type Transaction struct {
	TitleDescription string          `json:"titleDescription"`
	Description      string          `json:"description"`
	Value            decimal.Decimal `json:"value"`
	Type             TransactionType `json:"type"`
	// Date is assigned by the server when the transaction is appended.
	Date string `json:"date"`
}

// Total folds transactions into a balance: "in" adds, "out" subtracts.
func Total(transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		switch t.Type {
		case TypeIn:
			total = total.Add(t.Value)
		case TypeOut:
			total = total.Sub(t.Value)
		}
	}
	return total
}
