// Package swagger holds the OpenAPI document served by the /docs UI.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "JWT bearer token. Format: Bearer {token}"
        }
    },
    "paths": {
        "/token": {
            "post": {
                "tags": ["Account"],
                "summary": "Log in",
                "description": "Exchanges username and password for a bearer token.",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "username": {"type": "string"},
                                "password": {"type": "string"}
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/TokenResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorDocument"}}
                }
            }
        },
        "/users/register": {
            "post": {
                "tags": ["Account"],
                "summary": "Register an account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/RegisterRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Account created", "schema": {"$ref": "#/definitions/UserResponse"}},
                    "409": {"description": "Username or email taken", "schema": {"$ref": "#/definitions/ErrorDocument"}}
                }
            }
        },
        "/users/me": {
            "get": {
                "tags": ["Account"],
                "summary": "Current account",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "The caller's account", "schema": {"$ref": "#/definitions/UserResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/ErrorDocument"}}
                }
            },
            "put": {
                "tags": ["Account"],
                "summary": "Update profile",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "email": {"type": "string"},
                                "full_name": {"type": "string"},
                                "password": {"type": "string"}
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {"description": "Updated account", "schema": {"$ref": "#/definitions/UserResponse"}},
                    "409": {"description": "Email taken", "schema": {"$ref": "#/definitions/ErrorDocument"}}
                }
            }
        },
        "/api/humanize": {
            "post": {
                "tags": ["Text"],
                "summary": "Humanize text",
                "description": "Rewrites AI-generated text. Rate limited; consumes the plan's word budget.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/TextRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Rewritten text", "schema": {"$ref": "#/definitions/HumanizeResult"}},
                    "402": {"description": "Plan payment required", "schema": {"$ref": "#/definitions/ErrorDocument"}},
                    "403": {"description": "Word limit exceeded or account inactive", "schema": {"$ref": "#/definitions/ErrorDocument"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/ErrorDocument"}},
                    "503": {"description": "Humanizer unavailable", "schema": {"$ref": "#/definitions/ErrorDocument"}}
                }
            }
        },
        "/api/detect": {
            "post": {
                "tags": ["Text"],
                "summary": "Detect AI content",
                "description": "Scores text 0-100 for likely AI authorship.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/TextRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Detection result", "schema": {"$ref": "#/definitions/DetectResult"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/ErrorDocument"}}
                }
            }
        },
        "/api/payments/mpesa/initiate": {
            "post": {
                "tags": ["Payments"],
                "summary": "Initiate M-Pesa payment",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {"phone_number": {"type": "string"}}
                        }
                    }
                ],
                "responses": {
                    "200": {"description": "Payment initiated", "schema": {"$ref": "#/definitions/PaymentResponse"}},
                    "400": {"description": "Free plan or bad phone number", "schema": {"$ref": "#/definitions/ErrorDocument"}}
                }
            }
        },
        "/api/payments/mpesa/callback": {
            "post": {
                "tags": ["Payments"],
                "summary": "M-Pesa callback",
                "description": "Receives the Daraja STK push result.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Acknowledged"},
                    "404": {"description": "Unknown checkout reference", "schema": {"$ref": "#/definitions/ErrorDocument"}}
                }
            }
        },
        "/api/transactions": {
            "get": {
                "tags": ["Payments"],
                "summary": "List own transactions",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer", "description": "Maximum rows (default 20)"}
                ],
                "responses": {
                    "200": {"description": "Transactions, newest first", "schema": {"type": "array", "items": {"$ref": "#/definitions/TransactionResponse"}}}
                }
            }
        },
        "/api/usage": {
            "get": {
                "tags": ["Account"],
                "summary": "Usage history",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer", "description": "History days (default 30)"}
                ],
                "responses": {
                    "200": {"description": "Daily usage aggregates"}
                }
            }
        },
        "/admin/users": {
            "get": {
                "tags": ["Admin"],
                "summary": "List users",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Registered accounts", "schema": {"type": "array", "items": {"$ref": "#/definitions/UserResponse"}}},
                    "403": {"description": "Administrator access required", "schema": {"$ref": "#/definitions/ErrorDocument"}}
                }
            }
        },
        "/admin/transactions": {
            "get": {
                "tags": ["Admin"],
                "summary": "List all transactions",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "All transactions", "schema": {"type": "array", "items": {"$ref": "#/definitions/TransactionResponse"}}},
                    "403": {"description": "Administrator access required", "schema": {"$ref": "#/definitions/ErrorDocument"}}
                }
            }
        },
        "/admin/stats": {
            "get": {
                "tags": ["Admin"],
                "summary": "Dashboard statistics",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Totals and daily usage series"},
                    "403": {"description": "Administrator access required", "schema": {"$ref": "#/definitions/ErrorDocument"}}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Health check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Service healthy"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/status": {
            "get": {
                "tags": ["System"],
                "summary": "Liveness check",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Service is running"}
                }
            }
        },
        "/version": {
            "get": {
                "tags": ["System"],
                "summary": "Get service version",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Version information"}
                }
            }
        }
    },
    "definitions": {
        "TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string", "example": "bearer"},
                "expires_at": {"type": "string", "format": "date-time"}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "required": ["username", "email", "password"],
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "password": {"type": "string"},
                "plan_id": {"type": "string", "example": "free"}
            }
        },
        "UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "plan_id": {"type": "string"},
                "plan_name": {"type": "string"},
                "words_used": {"type": "integer"},
                "words_remaining": {"type": "integer"},
                "payment_status": {"type": "string", "example": "Pending"},
                "is_active": {"type": "boolean"},
                "joined_at": {"type": "string", "format": "date-time"}
            }
        },
        "TextRequest": {
            "type": "object",
            "required": ["input_text"],
            "properties": {
                "input_text": {"type": "string"},
                "max_words": {"type": "integer"}
            }
        },
        "HumanizeResult": {
            "type": "object",
            "properties": {
                "original_text": {"type": "string"},
                "humanized_text": {"type": "string"},
                "word_count": {"type": "integer"},
                "words_remaining": {"type": "integer"},
                "processing_time": {"type": "number"}
            }
        },
        "DetectResult": {
            "type": "object",
            "properties": {
                "ai_score": {"type": "number", "example": 71.9},
                "human_score": {"type": "number", "example": 28.1},
                "analysis": {
                    "type": "object",
                    "properties": {
                        "formal_language": {"type": "number"},
                        "sentence_uniformity": {"type": "number"},
                        "repetitive_patterns": {"type": "number"}
                    }
                },
                "word_count": {"type": "integer"},
                "processing_time": {"type": "number"},
                "source": {"type": "string", "example": "heuristic"}
            }
        },
        "PaymentResponse": {
            "type": "object",
            "properties": {
                "transaction_id": {"type": "string"},
                "checkout_request_id": {"type": "string"},
                "amount": {"type": "number"},
                "currency": {"type": "string", "example": "KES"},
                "status": {"type": "string", "example": "pending"},
                "customer_message": {"type": "string"}
            }
        },
        "TransactionResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "amount": {"type": "number"},
                "currency": {"type": "string"},
                "method": {"type": "string", "example": "mpesa"},
                "status": {"type": "string", "example": "completed"},
                "reference": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "ErrorDocument": {
            "type": "object",
            "properties": {
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "status": {"type": "string", "example": "429"},
                            "code": {"type": "string", "example": "rate_limit_exceeded"},
                            "title": {"type": "string", "example": "Too Many Requests"},
                            "detail": {"type": "string"}
                        }
                    }
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
	Title:            "Andikar Gateway API",
	Description:      "Text humanizing and AI-content detection gateway with plans, M-Pesa payments, and usage accounting.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
