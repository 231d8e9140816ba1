package http

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-portfolio/internal/casestudies"
	"github.com/goliatone/go-portfolio/internal/commands"
	"github.com/goliatone/go-portfolio/internal/contact"
	"github.com/goliatone/go-portfolio/internal/posts"
	"github.com/goliatone/go-portfolio/internal/testimonials"
	schemavalidation "github.com/goliatone/go-portfolio/internal/validation"
)

type errorResponse struct {
	Error   string                             `json:"error"`
	Message string                             `json:"message,omitempty"`
	Issues  []schemavalidation.ValidationIssue `json:"issues,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	var limited *contact.RateLimitError
	if errors.As(err, &limited) {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(limited)))
	}
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:   "bad_request",
		Message: "invalid JSON payload: " + err.Error(),
	})
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	if errors.Is(err, posts.ErrNotFound) ||
		errors.Is(err, casestudies.ErrNotFound) ||
		errors.Is(err, testimonials.ErrNotFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: err.Error(),
		}
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, errorResponse{
			Error:   "payload_too_large",
			Message: "request body exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes",
		}
	}

	var limited *contact.RateLimitError
	if errors.As(err, &limited) {
		return http.StatusTooManyRequests, errorResponse{
			Error:   "rate_limited",
			Message: limited.Error(),
		}
	}

	if errors.Is(err, contact.ErrSpamDetected) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "spam_detected",
			Message: err.Error(),
		}
	}

	if goerrors.IsCategory(err, commands.CategoryFeatureDisabled) {
		return http.StatusServiceUnavailable, errorResponse{
			Error:   "feature_disabled",
			Message: err.Error(),
		}
	}

	if goerrors.IsCategory(err, commands.CategoryPayloadTooLarge) {
		return http.StatusRequestEntityTooLarge, errorResponse{
			Error:   "payload_too_large",
			Message: err.Error(),
		}
	}

	if errors.Is(err, posts.ErrSlugExists) || errors.Is(err, casestudies.ErrSlugExists) {
		return http.StatusConflict, errorResponse{
			Error:   "conflict",
			Message: err.Error(),
		}
	}

	if errors.Is(err, schemavalidation.ErrSchemaValidation) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Issues:  schemavalidation.Issues(err),
		}
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return http.StatusBadRequest, errorResponse{
			Error:   "validation_failed",
			Message: "request failed validation",
			Issues:  fieldIssues(fieldErrs),
		}
	}

	if goerrors.IsCategory(err, goerrors.CategoryValidation) {
		return http.StatusBadRequest, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

// fieldIssues flattens ozzo field errors into a stable, sorted issue list.
func fieldIssues(errs validation.Errors) []schemavalidation.ValidationIssue {
	issues := make([]schemavalidation.ValidationIssue, 0, len(errs))
	for field, fieldErr := range errs {
		if fieldErr == nil {
			continue
		}
		issues = append(issues, schemavalidation.ValidationIssue{
			Location: "#/" + field,
			Message:  fieldErr.Error(),
		})
	}
	sort.Slice(issues, func(i, j int) bool {
		return issues[i].Location < issues[j].Location
	})
	return issues
}

func retryAfterSeconds(err *contact.RateLimitError) int {
	seconds := int(math.Ceil(err.RetryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// parseIntQuery returns defaultValue for missing input and an error for
// malformed or negative input.
func parseIntQuery(value string, defaultValue int) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed < 0 {
		return 0, errors.New("expected a non-negative integer, got " + strconv.Quote(trimmed))
	}
	return parsed, nil
}

// clientAddr returns the request's remote host without the port.
func clientAddr(r *http.Request) string {
	if r == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
