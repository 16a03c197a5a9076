package openapi

import "maps"

// NewComponents creates Components with the shared error schema and the
// error responses every JSON endpoint may return.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type: "object",
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
				Required: []string{"error"},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":      errorResponse("Invalid request or unmet precondition"),
			"NotFound":        errorResponse("Resource not found"),
			"Conflict":        errorResponse("Operation still in progress"),
			"PayloadTooLarge": errorResponse("Upload exceeds the configured size limit"),
			"BadGateway":      errorResponse("The document service failed or was unreachable"),
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}
