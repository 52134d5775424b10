// Package docs is generated by swag from the handler annotations. Regenerate with
// `swag init -g main.go` after changing them.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.HealthResponse"}}
                }
            }
        },
        "/itineraries": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Itineraries"],
                "summary": "List own itineraries, newest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.StoredItinerary"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Itineraries"],
                "summary": "Store an itinerary",
                "parameters": [
                    {"description": "Itinerary and travel details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.CreateItineraryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.StoredItinerary"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        },
        "/itineraries/generate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Resolves the caller's preferences, gathers candidate places and asks the language model for a day-by-day plan.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Itineraries"],
                "summary": "Generate an itinerary",
                "parameters": [
                    {"description": "Trip parameters", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.GenerateItineraryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.GenerateItineraryResponse"}},
                    "400": {"description": "Invalid trip request", "schema": {"$ref": "#/definitions/api.PipelineErrorResponse"}},
                    "401": {"description": "Preferences unavailable", "schema": {"$ref": "#/definitions/api.PipelineErrorResponse"}},
                    "502": {"description": "Generation failed", "schema": {"$ref": "#/definitions/api.PipelineErrorResponse"}},
                    "503": {"description": "Location data unavailable", "schema": {"$ref": "#/definitions/api.PipelineErrorResponse"}}
                }
            }
        },
        "/itineraries/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Itineraries"],
                "summary": "Get one of the caller's itineraries",
                "parameters": [{"type": "string", "description": "Itinerary ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StoredItinerary"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Itineraries"],
                "summary": "Delete one of the caller's itineraries",
                "parameters": [{"type": "string", "description": "Itinerary ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        },
        "/itineraries/{id}/pdf": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "tags": ["Itineraries"],
                "summary": "Download an itinerary as PDF",
                "parameters": [{"type": "string", "description": "Itinerary ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        },
        "/preferences": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Preferences"],
                "summary": "Get stored and effective taste preferences",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/preferences.PreferencesView"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Preferences"],
                "summary": "Replace stored taste preferences",
                "parameters": [
                    {"description": "Preferences", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.UpsertPreferencesParams"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/preferences.PreferencesView"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Preferences"],
                "summary": "Reset taste preferences to defaults",
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        }
    },
    "definitions": {
        "api.CreateItineraryRequest": {
            "type": "object",
            "properties": {
                "itinerary": {"type": "object"},
                "travelDetails": {"type": "object"}
            }
        },
        "api.GenerateItineraryRequest": {
            "type": "object",
            "properties": {
                "budget": {"type": "string", "example": "medium"},
                "destination": {"type": "string", "example": "Singapore"},
                "endDate": {"type": "string", "example": "2025-06-03"},
                "numTravelers": {"type": "integer", "example": 2},
                "save": {"type": "boolean", "example": false},
                "startDate": {"type": "string", "example": "2025-06-01"}
            }
        },
        "api.GenerateItineraryResponse": {
            "type": "object",
            "properties": {
                "foodActivities": {"type": "array", "items": {"type": "string"}},
                "itinerary": {"type": "object"},
                "itineraryId": {"type": "string"},
                "saved": {"type": "boolean"},
                "schemaIssues": {"type": "array", "items": {"type": "string"}},
                "states": {"type": "array", "items": {"type": "string"}},
                "travelDetails": {"type": "object"}
            }
        },
        "api.HealthResponse": {
            "type": "object",
            "properties": {
                "database": {"type": "string", "example": "up"},
                "status": {"type": "string", "example": "ok"}
            }
        },
        "api.PipelineErrorResponse": {
            "type": "object",
            "properties": {
                "details": {"type": "string"},
                "error": {"type": "string", "example": "Failed to parse itinerary response"},
                "kind": {"type": "string", "example": "MalformedGenerationOutput"},
                "rawResponse": {"type": "string"},
                "request_id": {"type": "string"},
                "state": {"type": "string", "example": "GENERATION_CALLED"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "api.Response": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "Resource not found"},
                "message": {"type": "string", "example": "Operation successful"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "preferences.PreferencesView": {
            "type": "object",
            "properties": {
                "effective": {"type": "object"},
                "taste_preferences": {"type": "object"}
            }
        },
        "types.StoredItinerary": {
            "type": "object",
            "properties": {
                "budget": {"type": "string"},
                "createdAt": {"type": "string"},
                "dailyEndTime": {"type": "string"},
                "dailyStartTime": {"type": "string"},
                "endDate": {"type": "string"},
                "id": {"type": "string"},
                "itinerary": {"type": "object"},
                "startDate": {"type": "string"},
                "travelDestination": {"type": "string"},
                "travellers": {"type": "integer"},
                "userId": {"type": "string"}
            }
        },
        "types.UpsertPreferencesParams": {
            "type": "object",
            "properties": {
                "diet": {"type": "array", "items": {"type": "string"}},
                "end_time": {"type": "string", "example": "21:00"},
                "start_time": {"type": "string", "example": "09:00"},
                "tourist_sites": {"type": "array", "items": {"type": "string"}},
                "travel_style": {"type": "array", "items": {"type": "string"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Itinerary Planner API",
	Description:      "Generates day-by-day travel itineraries from taste preferences and nearby places.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
