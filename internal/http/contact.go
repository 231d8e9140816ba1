package http

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-portfolio/internal/contact"
	"github.com/goliatone/go-portfolio/internal/openapi"
)

type contactResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (api *API) registerContactRoutes(mux *http.ServeMux, base string) {
	if api.contact == nil {
		return
	}
	api.handle(mux, http.MethodPost, joinPath(base, "contact"), openapi.Operation{
		OperationID: "submitContact",
		Summary:     "Submit the contact form",
		Tags:        []string{"contact"},
		Responses: map[string]openapi.Response{
			"201": {Description: "Accepted"},
			"400": {Description: "Invalid submission"},
			"413": {Description: "Payload too large"},
			"422": {Description: "Rejected as spam"},
			"429": {Description: "Rate limited"},
		},
	}, api.handleContactSubmit)
}

func (api *API) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBytes)

	var input contact.SubmitInput
	if err := decodeJSON(r, &input); err != nil {
		writeDecodeError(w, err)
		return
	}
	input.RemoteAddr = clientAddr(r)
	input.UserAgent = r.UserAgent()

	submission, err := api.contact.Submit(r.Context(), input)
	switch {
	case err == nil:
		api.metrics.ObserveContact(contact.StatusAccepted)
	case errors.Is(err, contact.ErrSpamDetected):
		api.metrics.ObserveContact(contact.StatusRejectedSpam)
		writeError(w, err)
		return
	case errors.Is(err, contact.ErrRateLimited):
		api.metrics.ObserveContact("rate_limited")
		writeError(w, err)
		return
	default:
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, contactResponse{
		ID:     submission.ID.String(),
		Status: submission.Status,
	})
}
