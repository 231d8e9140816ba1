package http

import (
	"net/http"

	"github.com/goliatone/go-portfolio/internal/openapi"
	"github.com/goliatone/go-portfolio/internal/testimonials"
)

func (api *API) registerTestimonialRoutes(mux *http.ServeMux, base string) {
	if api.testimonials == nil {
		return
	}
	api.handle(mux, http.MethodGet, joinPath(base, "testimonials"), openapi.Operation{
		OperationID: "listTestimonials",
		Summary:     "List testimonials in display order",
		Tags:        []string{"testimonials"},
	}, api.handleTestimonialList)
}

func (api *API) handleTestimonialList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := parseIntQuery(query.Get("limit"), 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "limit: " + err.Error()})
		return
	}
	items, err := api.testimonials.List(r.Context(), testimonials.ListOptions{
		FeaturedOnly: parseBoolQuery(query.Get("featured"), false),
		Limit:        limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
