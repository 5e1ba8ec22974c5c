package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pdf-manager/internal/domain"
	apperrors "pdf-manager/pkg/errors"
)

type contextKey string

const (
	userContextKey  contextKey = "user"
	tokenContextKey contextKey = "token"
)

// Result-kind header: every 2xx carries it so clients branch on the header
// instead of sniffing the content type.
const (
	resultKindHeader   = "X-Result-Kind"
	resultKindDocument = "document"
	resultKindJSON     = "json"
)

const pageCountHeader = "X-Page-Count"

// GetUserFromContext extracts the authenticated user from request context
func GetUserFromContext(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(userContextKey).(*domain.User)
	return user, ok
}

// GetTokenFromContext extracts the bearer token from request context
func GetTokenFromContext(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(tokenContextKey).(string)
	return token, ok
}

// writeError writes the JSON error envelope. 401 responses carry the
// challenge header expected by bearer-token clients.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(resultKindHeader, resultKindJSON)
	if statusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": message})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(resultKindHeader, resultKindJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeDocument streams a derived document with its disposition headers.
func writeDocument(w http.ResponseWriter, result *domain.OperationResult) {
	disposition := "attachment"
	if result.Inline {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%s", disposition, result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.Header().Set(resultKindHeader, resultKindDocument)
	if result.PageCount > 0 {
		w.Header().Set(pageCountHeader, strconv.Itoa(result.PageCount))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

// writeServiceError maps a service-layer error onto the error envelope.
// Caller mistakes keep their message; unexpected failures get a generic
// message and the cause stays in the log.
func writeServiceError(w http.ResponseWriter, logger domain.Logger, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ve.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	case errors.Is(err, domain.ErrUserExists):
		writeError(w, http.StatusBadRequest, "Username already registered")
		return
	case errors.Is(err, domain.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "Token has expired")
		return
	case errors.Is(err, domain.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode >= http.StatusInternalServerError {
			logger.Error("Operation error", err)
		}
		writeError(w, appErr.StatusCode, appErr.Message)
		return
	}

	logger.Error("Unhandled error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
