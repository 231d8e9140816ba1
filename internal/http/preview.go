package http

import (
	"net/http"

	markdowncmd "github.com/goliatone/go-portfolio/internal/commands/markdown"
	"github.com/goliatone/go-portfolio/internal/openapi"
)

type previewRequest struct {
	Markdown string `json:"markdown"`
	Strict   bool   `json:"strict,omitempty"`
}

type previewResponse struct {
	HTML string `json:"html"`
}

func (api *API) registerPreviewRoutes(mux *http.ServeMux, base string) {
	if api.preview == nil {
		return
	}
	api.handle(mux, http.MethodPost, joinPath(base, "markdown/preview"), openapi.Operation{
		OperationID: "previewMarkdown",
		Summary:     "Render Markdown to HTML",
		Tags:        []string{"markdown"},
		Responses: map[string]openapi.Response{
			"200": {Description: "Rendered HTML"},
			"413": {Description: "Payload too large"},
			"503": {Description: "Preview disabled"},
		},
	}, api.handlePreview)
}

func (api *API) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > api.maxPreviewBytes {
		writeError(w, &http.MaxBytesError{Limit: api.maxPreviewBytes})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, api.maxPreviewBytes)

	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	result := &markdowncmd.RenderResult{}
	if err := api.preview.Execute(r.Context(), markdowncmd.RenderMarkdownCommand{
		Source: req.Markdown,
		Strict: req.Strict,
		Result: result,
	}); err != nil {
		writeError(w, err)
		return
	}
	api.metrics.ObserveRender(len(result.HTML))
	writeJSON(w, http.StatusOK, previewResponse{HTML: result.HTML})
}
