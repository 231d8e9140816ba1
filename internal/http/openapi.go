package http

import (
	"net/http"

	"github.com/goliatone/go-portfolio/internal/openapi"
	"github.com/goliatone/go-portfolio/internal/validation"
)

// APIVersion is reported in the generated OpenAPI document.
const APIVersion = "1.0.0"

var okOrNotFound = map[string]openapi.Response{
	"200": {Description: "OK"},
	"404": {Description: "Not found"},
}

var frontMatterSchemas = map[string]string{
	"PostFrontMatter":      validation.KindPost,
	"CaseStudyFrontMatter": validation.KindCaseStudy,
}

// handle registers h on mux and documents it.
func (api *API) handle(mux *http.ServeMux, method, path string, op openapi.Operation, h http.HandlerFunc) {
	mux.HandleFunc(method+" "+path, h)
	api.doc.AddOperation(method, path, op)
}

func queryParam(name, typ string) openapi.Parameter {
	return openapi.Parameter{Name: name, In: "query", Schema: map[string]any{"type": typ}}
}

func (api *API) newDocument() *openapi.Document {
	doc := openapi.NewDocument("Portfolio API", APIVersion)
	for name, kind := range frontMatterSchemas {
		if schema, err := validation.RawSchema(kind); err == nil {
			doc.AddSchema(name, schema)
		}
	}
	return doc
}

func (api *API) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.doc)
}
