package openapi

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// Document represents a minimal OpenAPI document.
type Document struct {
	OpenAPI    string                          `json:"openapi"`
	Info       Info                            `json:"info"`
	Paths      map[string]map[string]Operation `json:"paths"`
	Components Components                      `json:"components,omitempty"`
	Extensions map[string]any                  `json:"-"`
}

// Info captures OpenAPI metadata.
type Info struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

// Components aggregates schema components.
type Components struct {
	Schemas map[string]any `json:"schemas,omitempty"`
}

// Operation describes one method on a path.
type Operation struct {
	OperationID string              `json:"operationId,omitempty"`
	Summary     string              `json:"summary,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty"`
	Responses   map[string]Response `json:"responses"`
}

// Parameter describes a path or query parameter.
type Parameter struct {
	Name     string         `json:"name"`
	In       string         `json:"in"`
	Required bool           `json:"required,omitempty"`
	Schema   map[string]any `json:"schema,omitempty"`
}

// Response describes one status code.
type Response struct {
	Description string `json:"description"`
}

var pathParam = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// NewDocument constructs a minimal OpenAPI document.
func NewDocument(title, version string) *Document {
	return &Document{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:   title,
			Version: version,
		},
		Paths:      map[string]map[string]Operation{},
		Components: Components{Schemas: map[string]any{}},
		Extensions: map[string]any{},
	}
}

// AddOperation records op under method and path. Path parameters written as
// {name} are declared automatically, and a 200 response is assumed when op
// lists none.
func (d *Document) AddOperation(method, path string, op Operation) {
	if d == nil || method == "" || path == "" {
		return
	}
	if d.Paths == nil {
		d.Paths = map[string]map[string]Operation{}
	}

	declared := make(map[string]bool, len(op.Parameters))
	for _, p := range op.Parameters {
		declared[p.In+":"+p.Name] = true
	}
	for _, match := range pathParam.FindAllStringSubmatch(path, -1) {
		if declared["path:"+match[1]] {
			continue
		}
		op.Parameters = append(op.Parameters, Parameter{
			Name:     match[1],
			In:       "path",
			Required: true,
			Schema:   map[string]any{"type": "string"},
		})
	}
	if len(op.Responses) == 0 {
		op.Responses = map[string]Response{"200": {Description: "OK"}}
	}

	item, ok := d.Paths[path]
	if !ok {
		item = map[string]Operation{}
		d.Paths[path] = item
	}
	item[strings.ToLower(method)] = op
}

// AddSchema registers a component schema.
func (d *Document) AddSchema(name string, schema map[string]any) {
	if d == nil || name == "" || schema == nil {
		return
	}
	if d.Components.Schemas == nil {
		d.Components.Schemas = map[string]any{}
	}
	d.Components.Schemas[name] = schema
}

// SetExtension sets a vendor extension on the document.
func (d *Document) SetExtension(key string, value any) {
	if d == nil || !strings.HasPrefix(key, "x-") {
		return
	}
	if d.Extensions == nil {
		d.Extensions = map[string]any{}
	}
	d.Extensions[key] = value
}

// PathNames lists the documented paths in order.
func (d *Document) PathNames() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.Paths))
	for name := range d.Paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AsMap returns the document as a plain map, extensions inlined.
func (d *Document) AsMap() map[string]any {
	if d == nil {
		return nil
	}
	out := map[string]any{
		"openapi": d.OpenAPI,
		"info": map[string]any{
			"title":   d.Info.Title,
			"version": d.Info.Version,
		},
	}
	if len(d.Paths) > 0 {
		out["paths"] = d.Paths
	} else {
		out["paths"] = map[string]any{}
	}
	if len(d.Components.Schemas) > 0 {
		out["components"] = map[string]any{
			"schemas": d.Components.Schemas,
		}
	}
	for key, value := range d.Extensions {
		out[key] = value
	}
	return out
}

func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.AsMap())
}
