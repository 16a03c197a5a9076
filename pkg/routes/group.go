package routes

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/docqa/pkg/openapi"
)

// Group organizes routes under a common prefix with shared tags. Schemas
// holds the component schemas its routes reference.
type Group struct {
	Prefix   string
	Tags     []string
	Schemas  map[string]*openapi.Schema
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", group)
	}
}

// Describe adds every documented route in groups to spec. Untagged
// operations inherit the nearest group's tags.
func Describe(spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		describeGroup(spec, "", nil, group)
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		pattern := route.Method + " " + fullPrefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, child)
	}
}

func describeGroup(spec *openapi.Spec, parentPrefix string, parentTags []string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	tags := group.Tags
	if len(tags) == 0 {
		tags = parentTags
	}

	if len(group.Schemas) > 0 {
		spec.Components.AddSchemas(group.Schemas)
	}

	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			continue
		}
		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}
		spec.AddOperation(specPath(fullPrefix+route.Pattern), route.Method, &op)
	}

	for _, child := range group.Children {
		describeGroup(spec, fullPrefix, tags, child)
	}
}

// specPath converts a ServeMux pattern path to an OpenAPI path.
func specPath(pattern string) string {
	pattern = strings.ReplaceAll(pattern, "{$}", "")
	pattern = strings.ReplaceAll(pattern, "...}", "}")
	if pattern == "" {
		return "/"
	}
	return pattern
}
