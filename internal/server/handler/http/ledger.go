package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/gusgusz/projeto14-mywallet-back/internal/middleware"
	"github.com/gusgusz/projeto14-mywallet-back/internal/models"
	"github.com/gusgusz/projeto14-mywallet-back/internal/service"
	"github.com/gusgusz/projeto14-mywallet-back/internal/validate"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerService defines the ledger operations required by LedgerHandler.
type LedgerService interface {
	// Append dates tx and adds it to the user's ledger; service.ErrDuplicateTitle
	// when the title is taken.
	Append(ctx context.Context, userID string, tx models.Transaction) (models.Transaction, error)
	// List returns the user's transactions in append order.
	List(ctx context.Context, userID string) ([]models.Transaction, error)
	// Total returns the balance of the user's ledger.
	Total(ctx context.Context, userID string) (decimal.Decimal, error)
	// Update renames the transaction titled title and sets its value;
	// service.ErrDuplicateTitle when newTitle collides with another entry.
	Update(ctx context.Context, userID, title, newTitle string, value decimal.Decimal) error
	// Delete removes the transaction titled title, if any.
	Delete(ctx context.Context, userID, title string) error
}

// LedgerHandler serves the per-user transaction ledger. Every route must run
// behind middleware.BearerAuth.
type LedgerHandler struct {
	LedgerService LedgerService
	Log           *zap.Logger
}

func (h *LedgerHandler) log() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

// Create handles POST /accounts; the body carries the transaction type.
func (h *LedgerHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, "")
}

// CreateOfType returns a handler for POST /new-in and /new-out, where the
// path fixes the transaction type.
func (h *LedgerHandler) CreateOfType(typ models.TransactionType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.create(w, r, typ)
	}
}

func (h *LedgerHandler) create(w http.ResponseWriter, r *http.Request, typ models.TransactionType) {
	body, err := readBody(w, r)
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req, err := validate.ParseTransaction(body, typ)
	if err != nil {
		badPayload(h.log(), w, r, err)
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())
	_, err = h.LedgerService.Append(r.Context(), userID, req.Model())
	if errors.Is(err, service.ErrDuplicateTitle) {
		http.Error(w, "transaction title already exists", http.StatusConflict)
		return
	}
	if err != nil {
		internalError(h.log(), w, r, "append transaction", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// titleParam returns the {title} path segment, unescaping it when the router
// matched on the raw path.
func titleParam(r *http.Request) string {
	title := chi.URLParam(r, "title")
	if r.URL.RawPath == "" {
		return title
	}
	if unescaped, err := url.PathUnescape(title); err == nil {
		return unescaped
	}
	return title
}

// List handles GET /accounts and answers the ledger as a JSON array.
func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	txs, err := h.LedgerService.List(r.Context(), userID)
	if err != nil {
		internalError(h.log(), w, r, "list transactions", err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

// Balance handles GET /accounts/balance and answers {"total": <number>}.
func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	total, err := h.LedgerService.Total(r.Context(), userID)
	if err != nil {
		internalError(h.log(), w, r, "ledger total", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"total": total})
}

// Update handles PUT /accounts/{title}.
func (h *LedgerHandler) Update(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req, err := validate.ParseTransactionUpdate(body)
	if err != nil {
		badPayload(h.log(), w, r, err)
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())
	title := titleParam(r)
	err = h.LedgerService.Update(r.Context(), userID, title, req.TitleDescription, *req.Value)
	if errors.Is(err, service.ErrDuplicateTitle) {
		http.Error(w, "transaction title already exists", http.StatusConflict)
		return
	}
	if err != nil {
		internalError(h.log(), w, r, "update transaction", err)
		return
	}

	writeMessage(w, http.StatusOK, "transaction updated")
}

// Delete handles DELETE /accounts/{title}.
func (h *LedgerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	title := titleParam(r)
	if err := h.LedgerService.Delete(r.Context(), userID, title); err != nil {
		internalError(h.log(), w, r, "delete transaction", err)
		return
	}
	writeMessage(w, http.StatusOK, "transaction deleted")
}
