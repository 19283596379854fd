package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/julienschmidt/httprouter"
)

// request bodies larger than this are rejected with 400
const maxBodyBytes = 1 << 20

func RegisterAccountHandler(svc Service, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRegisterAccountRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			encodeBadRequest(w)
			return
		}

		acc, err := svc.RegisterAccount(r.Context(), req)
		if err != nil {
			encodeError(err, w, logger)
			return
		}

		w.Header().Set("Location", path.Join(r.URL.Path, string(acc.ID)))
		w.WriteHeader(http.StatusCreated)
		encodeResponse(acc, w, logger)
	})
}

func LoginHandler(svc Service, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeLoginRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			encodeBadRequest(w)
			return
		}

		acc, err := svc.ValidateCredentials(r.Context(), req)
		if err != nil {
			encodeError(err, w, logger)
			return
		}

		encodeResponse(acc, w, logger)
	})
}

// GetAccountHandler expects the account id in the ":id" route parameter.
func GetAccountHandler(svc Service, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if !isValidID(id) {
			encodeError(ErrNotFound, w, logger)
			return
		}

		acc, err := svc.GetAccount(r.Context(), ID(id))
		if err != nil {
			encodeError(err, w, logger)
			return
		}

		encodeResponse(acc, w, logger)
	})
}

func HealthHandler(accounts Repository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":   "ok",
			"accounts": accounts.Count(),
		})
	})
}

// RequestTimeout bounds the context of every request passed to h.
func RequestTimeout(d time.Duration, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

func encodeError(err error, w http.ResponseWriter, logger *slog.Logger) {
	switch KindOf(err) {
	case KindAuth:
		w.WriteHeader(http.StatusUnauthorized)
	case KindNotFound:
		w.WriteHeader(http.StatusNotFound)
	case KindConflict:
		w.WriteHeader(http.StatusConflict)
	case KindValidation:
		w.WriteHeader(http.StatusUnprocessableEntity)
	case KindForbidden:
		w.WriteHeader(http.StatusForbidden)
	case KindTimeout:
		w.WriteHeader(http.StatusServiceUnavailable)
	default:
		logError(logger, "request failed", err)
		w.WriteHeader(http.StatusInternalServerError)
		err = errInternal
	}
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	}); err != nil {
		logger.Error("encode error response", "error", err)
	}
}

var (
	errBadRequest = errors.New("invalid request body")
	errInternal   = errors.New("internal error")
)

func encodeBadRequest(w http.ResponseWriter) {
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": errBadRequest.Error()})
}

func encodeResponse(v interface{}, w http.ResponseWriter, logger *slog.Logger) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", "error", err)
	}
}

func decodeRegisterAccountRequest(body io.ReadCloser) (registerAccountRequest, error) {
	req := registerAccountRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return registerAccountRequest{}, err
	}
	return req, nil
}

func decodeLoginRequest(body io.ReadCloser) (validateCredentialsRequest, error) {
	req := validateCredentialsRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return validateCredentialsRequest{}, err
	}
	return req, nil
}
