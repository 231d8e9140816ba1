package http

import (
	"net/http"

	"github.com/goliatone/go-portfolio/internal/casestudies"
	"github.com/goliatone/go-portfolio/internal/openapi"
)

func (api *API) registerCaseStudyRoutes(mux *http.ServeMux, base string) {
	if api.caseStudies == nil {
		return
	}
	root := joinPath(base, "case-studies")
	api.handle(mux, http.MethodGet, root, openapi.Operation{
		OperationID: "listCaseStudies",
		Summary:     "List published case studies",
		Tags:        []string{"case-studies"},
		Parameters:  []openapi.Parameter{queryParam("featured", "boolean"), queryParam("limit", "integer")},
	}, api.handleCaseStudyList)
	api.handle(mux, http.MethodGet, root+"/{slug}", openapi.Operation{
		OperationID: "getCaseStudy",
		Summary:     "Get a case study with rendered sections",
		Tags:        []string{"case-studies"},
		Responses:   okOrNotFound,
	}, api.handleCaseStudyGet)
}

func (api *API) handleCaseStudyList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := parseIntQuery(query.Get("limit"), 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "limit: " + err.Error()})
		return
	}
	result, err := api.caseStudies.List(r.Context(), casestudies.ListOptions{
		FeaturedOnly: parseBoolQuery(query.Get("featured"), false),
		Limit:        limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (api *API) handleCaseStudyGet(w http.ResponseWriter, r *http.Request) {
	study, err := api.caseStudies.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, study)
}
