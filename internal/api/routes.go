package api

import (
	"net/http"

	"github.com/JaimeStill/docqa/pkg/openapi"
	"github.com/JaimeStill/docqa/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	spec *openapi.Spec,
	domain *Domain,
	runtime *Runtime,
) {
	groups := []routes.Group{
		domain.Operations.Handler(runtime.MaxUploadSize).Routes(),
	}

	routes.Register(mux, groups...)
	routes.Describe(spec, groups...)
}
