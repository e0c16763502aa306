// Package docs holds the swagger document served at /swagger/*. Keep it in
// step with the handler annotations.
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
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register user",
                "parameters": [
                    {"description": "registration payload", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.credentialsRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/presenter.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "login payload", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.credentialsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.loginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}}
                }
            }
        },
        "/users/{userId}/animes": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["animes"],
                "summary": "List watchlist",
                "parameters": [
                    {"type": "integer", "description": "user id", "name": "userId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/watchlist.Anime"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/presenter.FailureResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["animes"],
                "summary": "Add anime to watchlist",
                "parameters": [
                    {"type": "integer", "description": "user id", "name": "userId", "in": "path", "required": true},
                    {"description": "anime attributes", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.addAnimeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.addAnimeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/presenter.FailureResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/presenter.FailureResponse"}}
                }
            }
        },
        "/users/{userId}/animes/{animeId}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["animes"],
                "summary": "Update watched episodes",
                "parameters": [
                    {"type": "integer", "description": "user id", "name": "userId", "in": "path", "required": true},
                    {"type": "integer", "description": "anime id", "name": "animeId", "in": "path", "required": true},
                    {"description": "progress", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.updateProgressRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/presenter.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/presenter.FailureResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/presenter.FailureResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/presenter.FailureResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["animes"],
                "summary": "Remove anime from watchlist",
                "parameters": [
                    {"type": "integer", "description": "user id", "name": "userId", "in": "path", "required": true},
                    {"type": "integer", "description": "anime id", "name": "animeId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/presenter.MessageResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/presenter.FailureResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.addAnimeRequest": {
            "type": "object",
            "required": ["image_ref", "source_id", "title", "total_episodes", "watched_episodes"],
            "properties": {
                "image_ref": {"type": "string", "maxLength": 255},
                "source_id": {"type": "integer", "minimum": 0, "maximum": 2147483647},
                "title": {"type": "string", "maxLength": 255},
                "title_localized": {"type": "string", "maxLength": 255},
                "total_episodes": {"type": "string", "maxLength": 255},
                "watched_episodes": {"type": "integer", "minimum": 0, "maximum": 2147483647}
            }
        },
        "handlers.addAnimeResponse": {
            "type": "object",
            "properties": {
                "animeId": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "handlers.credentialsRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string", "maxLength": 72},
                "username": {"type": "string", "maxLength": 50}
            }
        },
        "handlers.loginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user_id": {"type": "integer"},
                "watchlist": {"type": "array", "items": {"$ref": "#/definitions/watchlist.Anime"}}
            }
        },
        "handlers.updateProgressRequest": {
            "type": "object",
            "required": ["watched_episodes"],
            "properties": {
                "watched_episodes": {"type": "integer", "minimum": 0, "maximum": 2147483647}
            }
        },
        "presenter.ErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "presenter.FailureResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "presenter.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "watchlist.Anime": {
            "type": "object",
            "properties": {
                "anime_id": {"type": "integer"},
                "image_ref": {"type": "string"},
                "source_id": {"type": "integer"},
                "title": {"type": "string"},
                "title_localized": {"type": "string"},
                "total_episodes": {"type": "string"},
                "watched_episodes": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Access token returned by /login. Accepted as \"Bearer <JWT>\" or \"<JWT>\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "animelist API",
	Description:      "Per-user anime watchlists: signup, login and progress tracking.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
