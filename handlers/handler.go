package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshalBhogawade/project-management-backend/apperr"
	"github.com/HarshalBhogawade/project-management-backend/logging"
	"github.com/HarshalBhogawade/project-management-backend/middleware"
	"github.com/HarshalBhogawade/project-management-backend/policy"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError maps the error kind to its status code. Internal failures
// are logged with their cause; the client only sees the short message.
func respondError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: Internal error: %v", err)
	}
	respondJSON(w, kind.HTTPStatus(), map[string]interface{}{
		"success": false,
		"message": apperr.MessageOf(err),
	})
}

func callerFrom(r *http.Request) (policy.Caller, error) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		return policy.Caller{}, apperr.New(apperr.Unauthenticated, "missing authentication")
	}
	return caller, nil
}

// parsePagination reads page and limit from the query string. Both default
// to 1 when absent or non-numeric.
func parsePagination(r *http.Request) (page, limit int64) {
	page = parsePositiveInt(r.URL.Query().Get("page"))
	limit = parsePositiveInt(r.URL.Query().Get("limit"))
	return page, limit
}

func parsePositiveInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// pathID extracts an ObjectID path parameter. A non-hex value can never
// name a stored document, so it reads as not found rather than invalid.
func pathID(r *http.Request, notFoundMsg string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.NotFound, notFoundMsg)
	}
	return id, nil
}

// parseDate accepts RFC 3339 timestamps or plain dates.
func parseDate(s string) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "duedate must be an RFC 3339 timestamp or a YYYY-MM-DD date")
	}
	return &t, nil
}
