// Package docs registers the OpenAPI document served under /swagger
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
        "/health": {"get": {"tags": ["health"], "summary": "Health check", "produces": ["application/json"],
            "responses": {"200": {"description": "Server is healthy", "schema": {"$ref": "#/definitions/models.Envelope"}},
                          "503": {"description": "Database unreachable", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/version": {"get": {"tags": ["health"], "summary": "Build version",
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "consumes": ["application/json"],
            "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}},
                          "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/models.Envelope"}},
                          "429": {"description": "Too many attempts", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current user",
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/users": {
            "post": {"tags": ["users"], "summary": "Register",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.RegisterRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Envelope"}},
                              "400": {"description": "Invalid or duplicate", "schema": {"$ref": "#/definitions/models.Envelope"}}}},
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "List users (admin, moderator)",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}},
                              "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/users/me": {"patch": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Update own profile",
            "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.UpdateProfileRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/users/{userId}": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get user",
            "parameters": [{"type": "string", "name": "userId", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}},
                          "404": {"description": "Not found", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/users/{userId}/role": {"patch": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Change role (admin)",
            "parameters": [{"type": "string", "name": "userId", "in": "path", "required": true},
                           {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.UpdateRoleRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/collections": {
            "get": {"tags": ["collections"], "summary": "List public collections",
                "parameters": [{"type": "boolean", "name": "all", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["collections"], "summary": "Create collection",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.CreateCollectionRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Envelope"}},
                              "400": {"description": "Invalid, duplicate name or type mismatch", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/collections/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["collections"], "summary": "My collections",
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/collections/{id}": {
            "get": {"tags": ["collections"], "summary": "Get collection",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}},
                              "401": {"description": "Private, anonymous caller", "schema": {"$ref": "#/definitions/models.Envelope"}},
                              "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.Envelope"}}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["collections"], "summary": "Update collection",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                               {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.UpdateCollectionRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["collections"], "summary": "Delete collection",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/collections/{id}/works": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["collections"], "summary": "Add works",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                               {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.WorkIDsRequest"}}],
                "responses": {"200": {"description": "All added", "schema": {"$ref": "#/definitions/models.Envelope"}},
                              "207": {"description": "Partially added", "schema": {"$ref": "#/definitions/models.Envelope"}},
                              "422": {"description": "Nothing added", "schema": {"$ref": "#/definitions/models.Envelope"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["collections"], "summary": "Remove works",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                               {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.WorkIDsRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/shares": {"post": {"security": [{"BearerAuth": []}], "tags": ["shares"], "summary": "Share a collection",
            "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.CreateShareRequest"}}],
            "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/shares/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["shares"], "summary": "Shares received",
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/shares/collection/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["shares"], "summary": "Shares of a collection",
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/shares/{id}/status": {"patch": {"security": [{"BearerAuth": []}], "tags": ["shares"], "summary": "Answer a share",
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                           {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.UpdateShareStatusRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}},
                          "403": {"description": "Caller is not the guest", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/shares/{id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["shares"], "summary": "Delete share",
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/notifications": {"get": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "List notifications",
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/notifications/unread": {"get": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Unread notifications",
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/notifications/unread/count": {"get": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Unread count",
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/notifications/read-all": {"patch": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Mark all read",
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/notifications/{id}/read": {"patch": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Mark read",
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/notifications/{id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Delete notification",
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/upload/avatar": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["upload"], "summary": "Upload avatar", "consumes": ["multipart/form-data"],
                "parameters": [{"type": "file", "name": "avatar", "in": "formData", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["upload"], "summary": "Remove avatar",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/works": {"get": {"tags": ["works"], "summary": "Search the catalog",
            "parameters": [{"type": "string", "name": "type", "in": "query"},
                           {"type": "string", "name": "genre", "in": "query"},
                           {"type": "string", "name": "year", "in": "query"},
                           {"type": "string", "name": "search", "in": "query"},
                           {"type": "integer", "name": "limit", "in": "query"}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/works/{id}": {"get": {"tags": ["works"], "summary": "Get work",
            "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Envelope"}},
                          "404": {"description": "Not found", "schema": {"$ref": "#/definitions/models.Envelope"}}}}},
        "/ws": {"get": {"tags": ["realtime"], "summary": "Notification stream",
            "parameters": [{"type": "string", "name": "token", "in": "query"}],
            "responses": {"101": {"description": "Switching protocols"}}}}
    },
    "definitions": {
        "models.Envelope": {"type": "object", "properties": {
            "success": {"type": "boolean"}, "message": {"type": "string"}, "errors": {"type": "string"}, "data": {}}},
        "models.LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {
            "email": {"type": "string"}, "password": {"type": "string"}}},
        "models.RegisterRequest": {"type": "object", "required": ["username", "email", "password"], "properties": {
            "username": {"type": "string", "minLength": 3, "maxLength": 20},
            "email": {"type": "string"},
            "password": {"type": "string", "minLength": 8, "maxLength": 72}}},
        "models.UpdateProfileRequest": {"type": "object", "properties": {
            "username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}},
        "models.UpdateRoleRequest": {"type": "object", "required": ["role"], "properties": {
            "role": {"type": "string", "enum": ["admin", "user", "moderator"]}}},
        "models.CreateCollectionRequest": {"type": "object", "required": ["name", "type"], "properties": {
            "name": {"type": "string", "minLength": 3, "maxLength": 50},
            "type": {"type": "string", "enum": ["book", "movie", "series", "music", "game", "other"]},
            "visibility": {"type": "string", "enum": ["private", "public", "shared"]},
            "works": {"type": "array", "items": {"type": "string"}}}},
        "models.UpdateCollectionRequest": {"type": "object", "properties": {
            "name": {"type": "string"}, "type": {"type": "string"}, "visibility": {"type": "string"},
            "works": {"type": "array", "items": {"type": "string"}}}},
        "models.WorkIDsRequest": {"type": "object", "required": ["workIds"], "properties": {
            "workIds": {"type": "array", "items": {"type": "string"}}}},
        "models.CreateShareRequest": {"type": "object", "required": ["collectionId", "guestId"], "properties": {
            "collectionId": {"type": "string"}, "guestId": {"type": "string"},
            "rights": {"type": "string", "enum": ["read", "edit"]}}},
        "models.UpdateShareStatusRequest": {"type": "object", "required": ["status"], "properties": {
            "status": {"type": "string", "enum": ["pending", "refused", "accepted"]}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Gather API",
	Description:      "Collections of books, films, series, music and games, shared between users.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
