// Package docs is generated by swaggo/swag from the controller annotations. Regenerate with
// swag init -g cmd/go-weather/main.go -o docs
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
                "description": "Health of the cache backend and of the circuit to the weather API. Only a broken cache makes the service DOWN.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Application health",
                "responses": {
                    "200": {"description": "Service is up", "schema": {"$ref": "#/definitions/model.HealthResponse"}},
                    "503": {"description": "Cache backend is down", "schema": {"$ref": "#/definitions/model.HealthResponse"}}
                }
            }
        },
        "/weather/current/{city}": {
            "get": {
                "description": "Live conditions, or the cached snapshot when the weather API cannot be reached.",
                "produces": ["application/json"],
                "tags": ["weather"],
                "summary": "Current weather of a city",
                "parameters": [{"type": "string", "description": "City name", "name": "city", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Snapshot with its source", "schema": {"$ref": "#/definitions/model.Fetched-entity_WeatherSnapshot"}},
                    "400": {"description": "Blank city", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Not available live nor cached", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/weather/forecast/{city}": {
            "get": {
                "description": "Live 5 day / 3 hour forecast, or the cached entries when the weather API cannot be reached.",
                "produces": ["application/json"],
                "tags": ["weather"],
                "summary": "Forecast of a city",
                "parameters": [{"type": "string", "description": "City name", "name": "city", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Entries ordered by timestamp with their source", "schema": {"$ref": "#/definitions/model.Fetched-array_entity_ForecastEntry"}},
                    "400": {"description": "Blank city", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Not available live nor cached", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/weather/last-city": {
            "get": {
                "produces": ["application/json"],
                "tags": ["weather"],
                "summary": "Last searched city",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entity.LastCity"}},
                    "404": {"description": "No city searched yet", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/weather/search": {
            "post": {
                "description": "Runs a session search. A search started while another is running supersedes it.\nRemote failures fall back to the cache and are reported through the returned state.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["weather"],
                "summary": "Search the weather of a city",
                "parameters": [{"description": "City to search", "name": "search", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.SearchWeatherDTO"}}],
                "responses": {
                    "200": {"description": "State produced by the search", "schema": {"$ref": "#/definitions/session.State"}},
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/weather/state": {
            "get": {
                "produces": ["application/json"],
                "tags": ["weather"],
                "summary": "Current session state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.State"}}
                }
            }
        },
        "/weather/state/stream": {
            "get": {
                "description": "Server-sent events, one per state change, starting with the current state.",
                "produces": ["text/event-stream"],
                "tags": ["weather"],
                "summary": "Stream session states",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.State"}}
                }
            }
        }
    },
    "definitions": {
        "entity.ForecastEntry": {
            "type": "object",
            "properties": {
                "cityName": {"type": "string"},
                "timestamp": {"type": "integer"},
                "temperature": {"type": "number"},
                "description": {"type": "string"},
                "icon": {"type": "string"},
                "windSpeed": {"type": "number"}
            }
        },
        "entity.LastCity": {
            "type": "object",
            "properties": {
                "cityName": {"type": "string"}
            }
        },
        "entity.WeatherSnapshot": {
            "type": "object",
            "properties": {
                "cityName": {"type": "string"},
                "temperature": {"type": "number"},
                "humidity": {"type": "integer"},
                "description": {"type": "string"},
                "icon": {"type": "string"},
                "windSpeed": {"type": "number"}
            }
        },
        "model.ComponentHealthStatus": {
            "type": "object",
            "properties": {
                "status": {"$ref": "#/definitions/model.HealthStatus"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "model.Fetched-array_entity_ForecastEntry": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/entity.ForecastEntry"}},
                "source": {"$ref": "#/definitions/model.Source"}
            }
        },
        "model.Fetched-entity_WeatherSnapshot": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/entity.WeatherSnapshot"},
                "source": {"$ref": "#/definitions/model.Source"}
            }
        },
        "model.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"$ref": "#/definitions/model.HealthStatus"},
                "cache": {"$ref": "#/definitions/model.ComponentHealthStatus"},
                "remote": {"$ref": "#/definitions/model.ComponentHealthStatus"}
            }
        },
        "model.HealthStatus": {
            "type": "string",
            "enum": ["UP", "DOWN", "UNKNOWN"]
        },
        "model.SearchWeatherDTO": {
            "type": "object",
            "required": ["city"],
            "properties": {
                "city": {"type": "string"}
            }
        },
        "model.Source": {
            "type": "string",
            "enum": ["LIVE", "CACHE"]
        },
        "session.State": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["LOADING", "SUCCESS", "ERROR"]},
                "weather": {"$ref": "#/definitions/entity.WeatherSnapshot"},
                "forecast": {"type": "array", "items": {"$ref": "#/definitions/entity.ForecastEntry"}},
                "isOffline": {"type": "boolean"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/go-weather",
	Schemes:          []string{},
	Title:            "go-weather API",
	Description:      "Current weather and forecast by city, served from a local cache when the weather API cannot be reached.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
