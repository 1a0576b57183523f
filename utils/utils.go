package utils

import (
	"encoding/json"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/RemoteState/secondlife-server/models"
	"github.com/sirupsen/logrus"
	"github.com/teris-io/shortid"
	"github.com/volatiletech/null"
)

var generator *shortid.Shortid

// hideErrorDetails is flipped on in production so internal errors don't leak to callers.
var hideErrorDetails atomic.Bool

type clientError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Err     string `json:"error,omitempty"`
	ID      string `json:"errorId"`
}

func init() {
	g, err := shortid.New(1, shortid.DefaultABC, rand.Uint64())
	if err != nil {
		logrus.Panicf("Failed to initialize utils package with error: %+v", err)
	}
	generator = g
}

// HideErrorDetails controls whether RespondError includes the underlying error text.
func HideErrorDetails(hide bool) {
	hideErrorDetails.Store(hide)
}

// EncodeJSONBody writes the JSON body to response writer
func EncodeJSONBody(resp http.ResponseWriter, data interface{}) error {
	return json.NewEncoder(resp).Encode(data)
}

// RespondJSON sends the interface as a JSON
func RespondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if body != nil {
		if err := EncodeJSONBody(w, body); err != nil {
			logrus.Errorf("Failed to respond JSON with error: %+v", err)
		}
	}
}

// newClientError creates structured client error response message
func newClientError(err error, messageToUser string) *clientError {
	errorID, _ := generator.Generate()
	ce := &clientError{
		Success: false,
		Message: messageToUser,
		ID:      errorID,
	}
	if err != nil && !hideErrorDetails.Load() {
		ce.Err = err.Error()
	}
	return ce
}

// RespondError sends an error message to the API caller and logs the error
func RespondError(w http.ResponseWriter, statusCode int, err error, messageToUser string) {
	clientError := newClientError(err, messageToUser)

	entry := logrus.WithFields(logrus.Fields{
		"status":  statusCode,
		"errorId": clientError.ID,
	})
	if statusCode >= http.StatusInternalServerError {
		entry.Errorf("%s: %+v", messageToUser, err)
	} else {
		entry.Infof("%s: %v", messageToUser, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(clientError); err != nil {
		logrus.Errorf("Failed to send error to caller with error: %+v", err)
	}
}

// ParsePositiveInt parses an optional query value, falling back to def when empty.
func ParsePositiveInt(raw string, def int, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 1 {
		return 0, models.NewValidationError(name+" must be a positive integer", name)
	}
	return val, nil
}

// ParsePrice parses an optional non-negative price query value.
func ParsePrice(raw string, name string) (null.Float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return null.Float64{}, nil
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val < 0 || math.IsNaN(val) || math.IsInf(val, 0) {
		return null.Float64{}, models.NewValidationError(name+" must be a non-negative number", name)
	}
	return null.Float64From(val), nil
}
