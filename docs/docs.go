// Package docs registers the OpenAPI document for the datafeed HTTP API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/getData": {
            "get": {
                "description": "Returns the JSON dataset from the storage root unchanged",
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "Get the stored dataset",
                "responses": {
                    "200": {"description": "OK", "schema": {}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/util.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}
                }
            }
        },
        "/_health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/health.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/health.HealthResponse"}}
                }
            }
        },
        "/api/v1/stats/requests": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Request counts per path and status",
                "parameters": [
                    {"type": "string", "description": "RFC3339 lower bound", "name": "since", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/stats.RequestsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/util.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/util.ErrorResponse"}}
                }
            }
        },
        "/api/v1/version": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Build version",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reference.VersionResponse"}}
                }
            }
        }
    },
    "definitions": {
        "util.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "storage.DatasetInfo": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "present": {"type": "boolean"},
                "size": {"type": "integer"},
                "modified_at": {"type": "string"}
            }
        },
        "health.WatcherInfo": {
            "type": "object",
            "properties": {
                "changes": {"type": "integer"},
                "last_change": {"type": "string"}
            }
        },
        "health.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "dataset": {"$ref": "#/definitions/storage.DatasetInfo"},
                "watcher": {"$ref": "#/definitions/health.WatcherInfo"}
            }
        },
        "database.RequestCount": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "status": {"type": "integer"},
                "count": {"type": "integer"},
                "avg_duration_ms": {"type": "number"}
            }
        },
        "stats.RequestsResponse": {
            "type": "object",
            "properties": {
                "since": {"type": "string"},
                "requests": {"type": "array", "items": {"$ref": "#/definitions/database.RequestCount"}}
            }
        },
        "reference.VersionResponse": {
            "type": "object",
            "properties": {"version": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "datafeed API",
	Description:      "Serves the stored users/orders dataset as JSON.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
