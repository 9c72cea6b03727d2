// Package docs registers the gateway's OpenAPI document with swaggo/swag's
// runtime registry, the same side-effect-import pattern `swag init` emits,
// hand-authored here from the handler's @Summary/@Param annotations since
// this is a single append/list/get surface rather than a generated one.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "MnemonicNexus Gateway API",
        "description": "Append-only event log write/read surface.",
        "version": "1.0"
    },
    "basePath": "/",
    "paths": {
        "/events": {
            "post": {
                "summary": "Append an event to the log",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error"},
                    "409": {"description": "Idempotency conflict"}
                }
            },
            "get": {
                "summary": "List events for a tenant/branch",
                "parameters": [
                    {"in": "query", "name": "world_id", "type": "string", "required": true},
                    {"in": "query", "name": "branch", "type": "string", "required": true},
                    {"in": "query", "name": "kind", "type": "string"},
                    {"in": "query", "name": "after_global_seq", "type": "integer"},
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/events/{event_id}": {
            "get": {
                "summary": "Fetch a single event by id",
                "parameters": [
                    {"in": "path", "name": "event_id", "type": "string", "required": true},
                    {"in": "query", "name": "world_id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "MnemonicNexus Gateway API",
	Description:      "Append-only event log write/read surface.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
