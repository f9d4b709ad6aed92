// Sleepwithdash - Sleep Tracking Sync and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/buckeye17/sleepwithdash

// Package docs registers the OpenAPI document of the sleepwithdash API with
// swag so /swagger/ can serve it. Keep it in step with the handler
// annotations in internal/api.
//
// @title Sleepwithdash API
// @version 1.0
// @description Sleep archive sync and dashboard backend.
// @BasePath /api/v1
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "AGPL-3.0-or-later"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Pings the database. A failed ping answers 503 with status degraded.",
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Get service health",
                "responses": {
                    "200": {"description": "Healthy", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Database unreachable", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/descriptions": {
            "get": {
                "description": "Lists session descriptions passing the dashboard filters.",
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "List session descriptions",
                "parameters": [
                    {"type": "string", "format": "date", "description": "First date, inclusive", "name": "from", "in": "query"},
                    {"type": "string", "format": "date", "description": "Last date, inclusive", "name": "to", "in": "query"},
                    {"type": "string", "description": "Comma separated weekday names", "name": "days", "in": "query"},
                    {"type": "boolean", "description": "Keep only workdays (true) or days off (false)", "name": "workday", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Descriptions", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "500": {"description": "Database error", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/events": {
            "get": {
                "description": "Lists bed and wake events of sessions passing the dashboard filters.",
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "List session events",
                "parameters": [
                    {"type": "string", "format": "date", "description": "First date, inclusive", "name": "from", "in": "query"},
                    {"type": "string", "format": "date", "description": "Last date, inclusive", "name": "to", "in": "query"},
                    {"type": "string", "description": "Comma separated weekday names", "name": "days", "in": "query"},
                    {"type": "boolean", "description": "Keep only workdays (true) or days off (false)", "name": "workday", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Events", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "500": {"description": "Database error", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/solar": {
            "get": {
                "description": "Lists the sunrise and sunset archive between the optional dates.",
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "List solar data",
                "parameters": [
                    {"type": "string", "format": "date", "description": "First date, inclusive", "name": "from", "in": "query"},
                    {"type": "string", "format": "date", "description": "Last date, inclusive", "name": "to", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Solar rows", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Invalid date", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "500": {"description": "Database error", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/summary": {
            "get": {
                "description": "Reports row counts per table and the span of described nights.",
                "produces": ["application/json"],
                "tags": ["Core"],
                "summary": "Get archive summary",
                "responses": {
                    "200": {"description": "Summary", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "500": {"description": "Database error", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/sync": {
            "post": {
                "description": "Starts a sync run in the background. Progress is streamed on /ws/sync.",
                "produces": ["application/json"],
                "tags": ["Sync"],
                "summary": "Trigger a sync",
                "responses": {
                    "202": {"description": "Run started", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "409": {"description": "A run is already in flight", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/sync/status": {
            "get": {
                "description": "Reports the current or last sync run.",
                "produces": ["application/json"],
                "tags": ["Sync"],
                "summary": "Get sync status",
                "responses": {
                    "200": {"description": "Run status", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "data": {},
                "error": {"$ref": "#/definitions/api.APIError"},
                "metadata": {"$ref": "#/definitions/api.Metadata"}
            }
        },
        "api.Metadata": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "count": {"type": "integer"},
                "correlation_id": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Sleepwithdash API",
	Description:      "Sleep archive sync and dashboard backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
