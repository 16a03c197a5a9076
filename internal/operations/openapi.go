package operations

import "github.com/JaimeStill/docqa/pkg/openapi"

var kindValues = func() []string {
	values := make([]string, len(Kinds))
	for i, k := range Kinds {
		values[i] = string(k)
	}
	return values
}()

var waitParam = openapi.QueryParam("wait", "boolean", "Block until the task resolves", false)

func taskResponses() map[int]*openapi.Response {
	return map[int]*openapi.Response{
		200: openapi.ResponseJSON("Task resolved", "TaskResponse"),
		202: openapi.ResponseJSON("Task dispatched and pending", "TaskResponse"),
		400: openapi.ResponseRef("BadRequest"),
	}
}

func dispatchOp(id, summary, schema string) *openapi.Operation {
	return &openapi.Operation{
		OperationID: id,
		Summary:     summary,
		Parameters:  []*openapi.Parameter{waitParam},
		RequestBody: openapi.RequestBodyJSON(schema, true),
		Responses:   taskResponses(),
	}
}

var apiSpec = struct {
	Upload    *openapi.Operation
	Ask       *openapi.Operation
	Summarize *openapi.Operation
	Extract   *openapi.Operation
	Search    *openapi.Operation
	Statuses  *openapi.Operation
	Status    *openapi.Operation
	Reset     *openapi.Operation
	Session   *openapi.Operation
	Document  *openapi.Operation
	Schemas   map[string]*openapi.Schema
}{
	Upload: &openapi.Operation{
		OperationID: "upload",
		Summary:     "Upload a document and make it the active document",
		Parameters:  []*openapi.Parameter{waitParam},
		RequestBody: openapi.RequestBodyMultipart("file", "Document to analyze"),
		Responses: func() map[int]*openapi.Response {
			r := taskResponses()
			r[413] = openapi.ResponseRef("PayloadTooLarge")
			return r
		}(),
	},
	Ask:       dispatchOp("ask", "Ask a question about the active document", "AskRequest"),
	Summarize: dispatchOp("summarize", "Summarize the active document", "SummarizeRequest"),
	Extract:   dispatchOp("extract", "Extract structured data from the active document", "ExtractRequest"),
	Search:    dispatchOp("search", "Search research papers", "SearchRequest"),
	Statuses: &openapi.Operation{
		OperationID: "listStatuses",
		Summary:     "Status of every operation",
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Operation statuses in display order",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Snapshot")}},
				},
			},
		},
	},
	Status: &openapi.Operation{
		OperationID: "getStatus",
		Summary:     "Status of one operation",
		Parameters:  []*openapi.Parameter{openapi.PathParam("kind", "Operation name", kindValues...)},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Operation status", "Snapshot"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Reset: &openapi.Operation{
		OperationID: "resetStatus",
		Summary:     "Return a resolved operation to idle",
		Parameters:  []*openapi.Parameter{openapi.PathParam("kind", "Operation name", kindValues...)},
		Responses: map[int]*openapi.Response{
			204: {Description: "Status reset"},
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Session: &openapi.Operation{
		OperationID: "getSession",
		Summary:     "Active document identifier",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Session state", "SessionResponse"),
		},
	},
	Document: &openapi.Operation{
		OperationID: "getDocument",
		Summary:     "Service details for the active document",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Document details", "Document"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"AskRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"question": {Type: "string", Example: "What is the main contribution?"},
			},
			Required: []string{"question"},
		},
		"SummarizeRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"section_title": {Type: "string", Description: "Restrict the summary to one section"},
				"granularity": {
					Type:    "string",
					Example: "methodology",
					Description: "Level of detail, forwarded to the service as given. " +
						"Omitted when blank so the service default applies.",
				},
			},
		},
		"ExtractRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"query": {Type: "string", Example: "accuracy metrics"},
			},
			Required: []string{"query"},
		},
		"SearchRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"query":       {Type: "string", Example: "graph neural networks"},
				"max_results": {Description: "Integers are sent as numbers and other values as given. Omitted when absent or null.", Example: 5},
			},
			Required: []string{"query"},
		},
		"TaskResponse": {
			Type:        "object",
			Description: "The dispatched task and its own result, independent of later tasks of the same kind",
			Properties: map[string]*openapi.Schema{
				"task_id": {Type: "string", Format: "uuid"},
				"status":  openapi.SchemaRef("Snapshot"),
			},
		},
		"Snapshot": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"operation":   {Type: "string", Enum: []any{"upload", "ask", "summarize", "extract", "search"}},
				"state":       {Type: "string", Enum: []any{"idle", "busy", "success", "error"}},
				"pending":     {Type: "boolean", Description: "An earlier exchange is still running behind a rejection"},
				"task_id":     {Type: "string", Format: "uuid"},
				"output":      openapi.SchemaRef("Output"),
				"error":       {Type: "string"},
				"started_at":  {Type: "string", Format: "date-time"},
				"resolved_at": {Type: "string", Format: "date-time"},
			},
			Required: []string{"operation", "state"},
		},
		"Output": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"kind": {Type: "string", Enum: []any{"text", "data", "papers", "empty"}},
				"text": {Type: "string"},
				"details": {Type: "array", Items: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"label": {Type: "string"},
						"value": {Type: "string"},
					},
				}},
				"papers": {Type: "array", Items: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"title":     {Type: "string"},
						"url":       {Type: "string", Format: "uri"},
						"authors":   {Type: "string"},
						"published": {Type: "string"},
						"summary":   {Type: "string"},
					},
				}},
			},
			Required: []string{"kind"},
		},
		"SessionResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"document_id": {Type: "string"},
				"active":      {Type: "boolean"},
			},
		},
		"Document": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":             {Type: "string"},
				"filename":       {Type: "string"},
				"extracted_text": {Type: "string"},
				"metadata":       {Type: "object"},
			},
		},
	},
}
