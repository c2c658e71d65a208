package api

import (
	"github.com/JaimeStill/tribunal/internal/config"
	"github.com/JaimeStill/tribunal/pkg/openapi"
)

// buildSpec generates the serialized OpenAPI document for the API module.
func buildSpec(cfg *config.Config) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(schemas())
	addPaths(spec)

	return openapi.MarshalJSON(spec)
}

func schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"DeliberateRequest": {
			Type:     "object",
			Required: []string{"input"},
			Properties: map[string]*openapi.Schema{
				"input": {Type: "string", Description: "Proposal text to deliberate"},
			},
		},
		"DeliberationResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"decision":  openapi.SchemaRef("Decision"),
				"auditId":   {Type: "string", Example: "AUD-4f3a2b10-9c1d-4e8f-b27a-5d6c8e9f0a1b"},
				"auditHash": {Type: "string", Description: "Content hash of the audit record"},
			},
		},
		"Verdict": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"critic":       {Type: "string"},
				"status":       {Type: "string", Enum: []any{"ok", "timed-out", "errored"}},
				"assessments":  {Type: "object", Description: "Per-dimension score and rationale"},
				"flags":        {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"evaluated_at": {Type: "string", Format: "date-time"},
			},
		},
		"Decision": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"outcome":     {Type: "string", Enum: []any{"approve", "approve-with-mitigation", "reject"}},
				"profile":     {Type: "string"},
				"minima":      {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"mitigations": {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"verdicts":    {Type: "array", Items: openapi.SchemaRef("Verdict")},
			},
		},
		"PrecedentEntry": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"audit_id":      {Type: "string"},
				"input_digest":  {Type: "string"},
				"profile":       {Type: "string"},
				"outcome":       {Type: "string"},
				"verdicts":      {Type: "array", Items: openapi.SchemaRef("Verdict")},
				"decision":      openapi.SchemaRef("Decision"),
				"content_hash":  {Type: "string"},
				"previous_hash": {Type: "string"},
				"created_at":    {Type: "string", Format: "date-time"},
			},
		},
		"PrecedentSearchRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":         {Type: "integer", Example: 1},
				"page_size":    {Type: "integer", Example: 20},
				"search":       {Type: "string"},
				"sort":         {Type: "string"},
				"outcome":      {Type: "string"},
				"profile":      {Type: "string"},
				"input_digest": {Type: "string"},
				"from":         {Type: "string", Format: "date-time"},
				"to":           {Type: "string", Format: "date-time"},
			},
		},
		"PrecedentPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("PrecedentEntry")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"AuditRecord": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"sequence":      {Type: "integer", Format: "int64"},
				"audit_id":      {Type: "string"},
				"content_hash":  {Type: "string"},
				"previous_hash": {Type: "string"},
				"recorded_at":   {Type: "string", Format: "date-time"},
			},
		},
		"VerifyResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"from":      {Type: "integer", Format: "int64"},
				"to":        {Type: "integer", Format: "int64"},
				"checked":   {Type: "integer", Format: "int64"},
				"verified":  {Type: "boolean"},
				"violation": {Type: "object", Description: "First failing record, present when verified is false"},
			},
		},
		"StatusReport": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"status":     {Type: "string", Enum: []any{"healthy", "degraded"}},
				"checked_at": {Type: "string", Format: "date-time"},
				"components": {Type: "array", Items: &openapi.Schema{Type: "object"}},
			},
		},
	}
}

func addPaths(spec *openapi.Spec) {
	spec.Paths["/deliberations"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Run a deliberation round",
			Description: "Fans the input out to the critic pool, aggregates verdicts, and durably records the decision.",
			Tags:        []string{"deliberations"},
			RequestBody: openapi.RequestBodyJSON("DeliberateRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Deliberation result", "DeliberationResult"),
				400: openapi.ResponseRef("BadRequest"),
				413: openapi.ResponseRef("PayloadTooLarge"),
				503: openapi.ResponseRef("ServiceUnavailable"),
			},
		},
	}

	spec.Paths["/precedents"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List precedents",
			Tags:    []string{"precedents"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("search", "string", "Free-text search over audit id and input digest", false),
				openapi.QueryParam("sort", "string", "Comma-separated sort fields", false),
				openapi.QueryParam("outcome", "string", "Filter by outcome", false),
				openapi.QueryParam("profile", "string", "Filter by profile", false),
				openapi.QueryParam("input_digest", "string", "Filter by input digest", false),
				openapi.QueryParam("from", "string", "Created at or after (RFC 3339)", false),
				openapi.QueryParam("to", "string", "Created at or before (RFC 3339)", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Page of precedents", "PrecedentPage"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/precedents/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search precedents",
			Tags:        []string{"precedents"},
			RequestBody: openapi.RequestBodyJSON("PrecedentSearchRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Page of precedents", "PrecedentPage"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/precedents/{auditId}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Get a precedent by audit id",
			Tags:    []string{"precedents"},
			Parameters: []*openapi.Parameter{
				{
					Name:     "auditId",
					In:       "path",
					Required: true,
					Schema:   &openapi.Schema{Type: "string"},
				},
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Precedent entry", "PrecedentEntry"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/audit/verify"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:     "Verify audit chain integrity",
			Description: "Recomputes content hashes and linkage over a sequence range.",
			Tags:        []string{"audit"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("from", "integer", "First sequence to verify (default 1)", false),
				openapi.QueryParam("to", "integer", "Last sequence to verify (default head)", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Verification result", "VerifyResult"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/audit/head"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Get the audit chain tail",
			Tags:    []string{"audit"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Most recent audit record", "AuditRecord"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/status"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Component health report",
			Tags:    []string{"status"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Aggregate health snapshot", "StatusReport"),
			},
		},
	}
}
