package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gusgusz/projeto14-mywallet-back/internal/validate"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies read by the handlers.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// badPayload answers 400 with the field messages of a validation error and
// 500 for anything else.
func badPayload(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var verr *validate.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, verr.Messages)
		return
	}
	internalError(log, w, r, "validate payload", err)
}

// internalError logs err with the request context and answers a generic 500.
func internalError(log *zap.Logger, w http.ResponseWriter, r *http.Request, op string, err error) {
	log.Error(op,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}
