// Package docs registers the OpenAPI document served under /swagger.
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
		"/api/health": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"health"
				],
				"summary": "Health check",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/rest.healthResponse"
						}
					},
					"503": {
						"description": "Service Unavailable",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/token": {
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Issue a token",
				"parameters": [
					{
						"description": "Token request",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/auth.TokenRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/rest.tokenResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					},
					"429": {
						"description": "Too Many Requests",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/movies": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"movies"
				],
				"summary": "List movies",
				"description": "Keyset paginated listing ordered by the sort field, then id",
				"parameters": [
					{
						"type": "string",
						"description": "Title substring",
						"name": "title",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Year of release",
						"name": "year",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Sort field",
						"name": "sortBy",
						"in": "query",
						"enum": [
							"title",
							"year"
						]
					},
					{
						"type": "string",
						"description": "Sort order",
						"name": "order",
						"in": "query",
						"enum": [
							"asc",
							"desc"
						]
					},
					{
						"type": "integer",
						"description": "Page size (0..100, default 10)",
						"name": "first",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Cursor of the last edge already seen",
						"name": "after",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.MovieConnection"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"movies"
				],
				"summary": "Create a movie",
				"parameters": [
					{
						"description": "Movie",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.MovieInput"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/domain.Movie"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/movies/import": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"description": "Creates one movie per row of an uploaded CSV or XLSX file with title, yearOfRelease and genres columns",
				"consumes": [
					"multipart/form-data"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"movies"
				],
				"summary": "Import movies",
				"parameters": [
					{
						"type": "file",
						"description": "CSV or XLSX file",
						"name": "file",
						"in": "formData",
						"required": true
					},
					{
						"type": "integer",
						"description": "1-based header row",
						"name": "headerRow",
						"in": "formData"
					},
					{
						"type": "boolean",
						"description": "Validate without creating movies",
						"name": "dryRun",
						"in": "formData"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/ingestion.Summary"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/movies/{idOrSlug}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"movies"
				],
				"summary": "Get a movie",
				"description": "Looks the movie up by id when the path is a UUID, otherwise by slug",
				"parameters": [
					{
						"type": "string",
						"description": "Movie id or slug",
						"name": "idOrSlug",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.Movie"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/movies/{id}": {
			"put": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"movies"
				],
				"summary": "Replace a movie",
				"parameters": [
					{
						"type": "string",
						"description": "Movie id",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Movie",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.MovieInput"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.Movie"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"movies"
				],
				"summary": "Delete a movie",
				"parameters": [
					{
						"type": "string",
						"description": "Movie id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/ratings/me": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"ratings"
				],
				"summary": "List my ratings",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/rest.ratingResponse"
							}
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/ratings/me/export": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"text/csv",
					"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
				],
				"tags": [
					"ratings"
				],
				"summary": "Export my ratings",
				"description": "Downloads the caller's ratings as CSV or XLSX",
				"parameters": [
					{
						"type": "string",
						"description": "csv or xlsx",
						"name": "format",
						"in": "query",
						"enum": [
							"csv",
							"xlsx"
						]
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/ratings/{movieId}": {
			"put": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"ratings"
				],
				"summary": "Rate a movie",
				"description": "Creates or replaces the caller's rating of the movie",
				"parameters": [
					{
						"type": "string",
						"description": "Movie id",
						"name": "movieId",
						"in": "path",
						"required": true
					},
					{
						"description": "Rating between 1 and 5",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/rest.rateRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/rest.ratingResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"ratings"
				],
				"summary": "Delete my rating",
				"parameters": [
					{
						"type": "string",
						"description": "Movie id",
						"name": "movieId",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"api.ErrorResponse": {
			"type": "object",
			"properties": {
				"statusCode": {
					"type": "integer"
				},
				"error": {
					"type": "string"
				},
				"message": {
					"type": "string"
				},
				"correlationId": {
					"type": "string"
				},
				"subErrors": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/validation.FieldError"
					}
				}
			}
		},
		"validation.FieldError": {
			"type": "object",
			"properties": {
				"field": {
					"type": "string"
				},
				"message": {
					"type": "string"
				}
			}
		},
		"auth.CustomClaims": {
			"type": "object",
			"properties": {
				"admin": {
					"type": "boolean"
				},
				"trustedMember": {
					"type": "boolean"
				}
			}
		},
		"auth.TokenRequest": {
			"type": "object",
			"properties": {
				"userId": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"customClaims": {
					"$ref": "#/definitions/auth.CustomClaims"
				}
			},
			"required": [
				"email",
				"userId"
			]
		},
		"domain.Movie": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"slug": {
					"type": "string"
				},
				"title": {
					"type": "string"
				},
				"yearOfRelease": {
					"type": "integer"
				},
				"genres": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"rating": {
					"type": "number"
				},
				"userRating": {
					"type": "integer"
				}
			}
		},
		"domain.MovieEdge": {
			"type": "object",
			"properties": {
				"cursor": {
					"type": "string"
				},
				"node": {
					"$ref": "#/definitions/domain.Movie"
				}
			}
		},
		"domain.PageInfo": {
			"type": "object",
			"properties": {
				"startCursor": {
					"type": "string"
				},
				"endCursor": {
					"type": "string"
				},
				"hasNextPage": {
					"type": "boolean"
				},
				"hasPreviousPage": {
					"type": "boolean"
				}
			}
		},
		"domain.MovieConnection": {
			"type": "object",
			"properties": {
				"edges": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.MovieEdge"
					}
				},
				"pageInfo": {
					"$ref": "#/definitions/domain.PageInfo"
				}
			}
		},
		"service.MovieInput": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"yearOfRelease": {
					"type": "integer"
				},
				"genres": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			},
			"required": [
				"genres",
				"title",
				"yearOfRelease"
			]
		},
		"ingestion.RowError": {
			"type": "object",
			"properties": {
				"row": {
					"type": "integer"
				},
				"message": {
					"type": "string"
				},
				"fields": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/validation.FieldError"
					}
				}
			}
		},
		"ingestion.Summary": {
			"type": "object",
			"properties": {
				"totalRows": {
					"type": "integer"
				},
				"validRows": {
					"type": "integer"
				},
				"invalidRows": {
					"type": "integer"
				},
				"createdIds": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"errors": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/ingestion.RowError"
					}
				},
				"dryRun": {
					"type": "boolean"
				},
				"headerRowIndex": {
					"type": "integer"
				}
			}
		},
		"rest.healthResponse": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				}
			}
		},
		"rest.tokenResponse": {
			"type": "object",
			"properties": {
				"token": {
					"type": "string"
				}
			}
		},
		"rest.rateRequest": {
			"type": "object",
			"properties": {
				"rating": {
					"type": "integer"
				}
			}
		},
		"rest.ratingResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"movieId": {
					"type": "string"
				},
				"rating": {
					"type": "integer"
				},
				"slug": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Bearer token issued by /api/token",
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Movies API",
	Description:      "Movies catalogue with ratings and keyset paginated listings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
