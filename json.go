package main

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// JSON response helpers shared by every handler. Errors and rate-limit
// rejections have fixed shapes so clients can branch on the body without
// sniffing status codes.

type errorResponse struct {
	Error string `json:"error"`
}

type rateLimitedResponse struct {
	Error             string `json:"error"`
	RetryAfterSeconds int    `json:"retryAfterSeconds"`
}

// respondWithJSON marshals the payload, sets the content type and status
// code, and writes the body. A payload that fails to marshal is a server
// bug; it is logged and reported as a bare 500.
func (cfg *apiConfig) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		cfg.logger.Error("marshalling response payload", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		cfg.logger.Error("writing response", "error", err)
	}
}

// respondWithError logs the underlying error when one is given and sends
// the standard error body with the given status code.
func (cfg *apiConfig) respondWithError(w http.ResponseWriter, code int, msg string, err error) {
	if err != nil {
		cfg.logger.Error(msg, "error", err)
	}
	cfg.respondWithJSON(w, code, errorResponse{Error: msg})
}

// respondRateLimited writes the 429 rejection for an exhausted window,
// echoing the backoff in both the Retry-After header and the body.
func (cfg *apiConfig) respondRateLimited(w http.ResponseWriter, result RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfterSeconds))
	cfg.respondWithJSON(w, http.StatusTooManyRequests, rateLimitedResponse{
		Error:             "Rate limit exceeded",
		RetryAfterSeconds: result.RetryAfterSeconds,
	})
}
