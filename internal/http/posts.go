package http

import (
	"net/http"

	"github.com/goliatone/go-portfolio/internal/openapi"
	"github.com/goliatone/go-portfolio/internal/posts"
)

const defaultPageSize = 20

func (api *API) registerPostRoutes(mux *http.ServeMux, base string) {
	if api.posts == nil {
		return
	}
	root := joinPath(base, "posts")
	api.handle(mux, http.MethodGet, root, openapi.Operation{
		OperationID: "listPosts",
		Summary:     "List published posts",
		Tags:        []string{"posts"},
		Parameters:  []openapi.Parameter{queryParam("tag", "string"), queryParam("limit", "integer"), queryParam("offset", "integer")},
	}, api.handlePostList)
	api.handle(mux, http.MethodGet, root+"/{slug}", openapi.Operation{
		OperationID: "getPost",
		Summary:     "Get a published post with rendered HTML",
		Tags:        []string{"posts"},
		Responses:   okOrNotFound,
	}, api.handlePostGet)
}

func (api *API) handlePostList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := parseIntQuery(query.Get("limit"), defaultPageSize)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "limit: " + err.Error()})
		return
	}
	offset, err := parseIntQuery(query.Get("offset"), 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "offset: " + err.Error()})
		return
	}

	result, err := api.posts.List(r.Context(), posts.ListOptions{
		Tag:    query.Get("tag"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	for _, item := range result.Items {
		item.Body = ""
	}
	writeJSON(w, http.StatusOK, result)
}

func (api *API) handlePostGet(w http.ResponseWriter, r *http.Request) {
	post, err := api.posts.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}
