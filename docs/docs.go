// Package docs registers the storefront OpenAPI document served under /swagger.
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
        "/v1/orders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List orders",
                "parameters": [
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Order"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Create an order",
                "parameters": [
                    {"description": "Order", "name": "order", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.OrderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.CreateOrderResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/v1/customers/{customerIdentifier}/orders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List a customer's orders, newest first",
                "parameters": [
                    {"type": "string", "description": "Customer identifier", "name": "customerIdentifier", "in": "path", "required": true},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Order"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/v1/orders/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get an order with its items",
                "parameters": [
                    {"type": "integer", "description": "Order ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Order"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/v1/orders/{id}/complete": {
            "put": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Mark a pending order completed",
                "parameters": [
                    {"type": "integer", "description": "Order ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Order"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/v1/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List products",
                "parameters": [
                    {"type": "string", "description": "Category filter", "name": "category", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Product"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Create a product",
                "parameters": [
                    {"description": "Product", "name": "product", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ProductRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Product"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/v1/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Get a product",
                "parameters": [
                    {"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Product"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/v1/products/{id}/image": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Upload a product image",
                "parameters": [
                    {"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true},
                    {"type": "file", "description": "Image file", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Product"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "common.ErrorResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handlers.CreateOrderResponse": {
            "type": "object",
            "properties": {
                "order_id": {"type": "integer"},
                "customerIdentifier": {"type": "string"},
                "customerName": {"type": "string"},
                "total_price": {"type": "number"},
                "status": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handlers.ProductRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "string"},
                "image_url": {"type": "string"},
                "category": {"type": "string"}
            }
        },
        "models.LineItemRequest": {
            "type": "object",
            "properties": {
                "product_id": {"type": "integer"},
                "quantity": {"type": "integer"},
                "name": {"type": "string"},
                "price_at_order": {"type": "number"},
                "image_url": {"type": "string"}
            }
        },
        "models.OrderRequest": {
            "type": "object",
            "properties": {
                "customerIdentifier": {"type": "string"},
                "customerName": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.LineItemRequest"}}
            }
        },
        "models.OrderItem": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "order_id": {"type": "integer"},
                "product_id": {"type": "integer"},
                "quantity": {"type": "integer"},
                "price_at_order": {"type": "string"},
                "product_name": {"type": "string"},
                "image_url": {"type": "string"}
            }
        },
        "models.Order": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "customer_identifier": {"type": "string"},
                "customer_name": {"type": "string"},
                "total_price": {"type": "string"},
                "status": {"type": "string"},
                "created_at": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.OrderItem"}}
            }
        },
        "models.Product": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "string"},
                "image_url": {"type": "string"},
                "category": {"type": "string"},
                "created_at": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Product catalog and transactional order creation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
