package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Baniere API",
        "description": "University schedule generator over the Banner course catalog",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Courses", "description": "Course catalog lookups"},
        {"name": "Schedules", "description": "Schedule generation and export"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List catalog sections",
                "parameters": [
                    {"name": "term", "in": "query", "type": "string"},
                    {"name": "subject", "in": "query", "type": "string"},
                    {"name": "openOnly", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "Section list", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/courses/search": {
            "get": {
                "tags": ["Courses"],
                "summary": "Search courses by code or title (accent-insensitive)",
                "parameters": [
                    {"name": "q", "in": "query", "type": "string", "required": true, "minLength": 2}
                ],
                "responses": {
                    "200": {"description": "Grouped course summaries", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Query too short", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/courses/subjects/list": {
            "get": {
                "tags": ["Courses"],
                "summary": "List distinct subject prefixes",
                "responses": {
                    "200": {"description": "Sorted subject list", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/courses/{code}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get all sections of one course code",
                "parameters": [
                    {"name": "code", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Section list", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown course code", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedules/generate": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Generate conflict-free weekly schedules",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Ranked schedules", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid request or filters", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown course code", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedules/export": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Export a schedule as CSV or PDF",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rendered file"},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateScheduleRequest": {
            "type": "object",
            "required": ["courses"],
            "properties": {
                "courses": {"type": "array", "items": {"type": "string"}},
                "filters": {"type": "object"},
                "maxResults": {"type": "integer"},
                "grouped": {"type": "boolean"}
            }
        },
        "ExportScheduleRequest": {
            "type": "object",
            "required": ["sections"],
            "properties": {
                "sections": {"type": "array", "items": {"type": "object"}},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "title": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
