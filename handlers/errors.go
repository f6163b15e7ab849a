// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/ballot-ledger/ledger"
	"github.com/danielhkuo/ballot-ledger/middleware"
	"github.com/danielhkuo/ballot-ledger/models"
)

// statusFor maps a ledger rejection to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrMissingIdentity):
		return http.StatusUnauthorized
	case errors.Is(err, ledger.ErrUnknownElection), errors.Is(err, ledger.ErrUnknownCandidate):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidSchedule), errors.Is(err, ledger.ErrEmptyTitle):
		return http.StatusBadRequest
	case ledger.IsRejection(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ledgerError writes the response for an error returned by the ledger.
// Rejections carry their kind; anything else is logged as a storage failure.
func ledgerError(w http.ResponseWriter, err error, logMsg string, args ...any) {
	if !ledger.IsRejection(err) {
		slog.Error(logMsg, append(args, "error", err)...)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to commit to the ledger")
		return
	}
	middleware.KindErrorResponse(w, statusFor(err), ledger.KindOf(err), err.Error())
}

// callerIdentity reads the caller's identity or writes a 401.
func callerIdentity(w http.ResponseWriter, r *http.Request, salt string) (models.Identity, bool) {
	identity, err := middleware.CallerIdentity(r, salt)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
		return "", false
	}
	return identity, true
}

// pathID parses a numeric path value or writes a 400.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	raw := r.PathValue(name)
	if raw == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, name+" is required")
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid "+name+": "+raw)
		return 0, false
	}
	return id, true
}
