// Package docs registers the OpenAPI document served under /swagger/.
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
        "/api/orders/{order_id}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Order"],
                "summary": "Cancel a pending order",
                "parameters": [
                    {"type": "string", "description": "Order ID", "name": "order_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.CancelOrderResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/transport.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/transport.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/transport.errorResponse"}}
                }
            }
        },
        "/api/orders/{order_id}/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Order"],
                "summary": "Payment status",
                "parameters": [
                    {"type": "string", "description": "Order ID", "name": "order_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.OrderStatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/transport.errorResponse"}}
                }
            }
        },
        "/checkout": {
            "post": {
                "description": "Reserve stock, create the order and open a payment transaction. Accepts JSON or a form whose cart_data field holds the cart JSON.",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["Checkout"],
                "summary": "Submit cart",
                "parameters": [
                    {"description": "Checkout Request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.CheckoutRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.CheckoutResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/transport.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/transport.errorResponse"}}
                }
            }
        },
        "/payment/notification": {
            "post": {
                "description": "Asynchronous payment status push from the gateway. Non-2xx responses make the gateway retry.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Payment"],
                "summary": "Gateway notification",
                "parameters": [
                    {"description": "Notification", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.PaymentNotification"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/transport.notificationResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/transport.notificationResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/transport.notificationResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.CancelOrderResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "model.CartItem": {
            "type": "object",
            "properties": {
                "price": {"type": "number"},
                "quantity": {"type": "integer"}
            }
        },
        "model.CheckoutRequest": {
            "type": "object",
            "required": ["address", "cart_data", "city", "full_name", "payment_method", "phone", "postal_code"],
            "properties": {
                "address": {"type": "string"},
                "bank_choice": {"type": "string"},
                "cart_data": {"type": "object", "additionalProperties": {"$ref": "#/definitions/model.CartItem"}},
                "city": {"type": "string"},
                "email": {"type": "string"},
                "ewallet_choice": {"type": "string"},
                "full_name": {"type": "string"},
                "payment_method": {"type": "string"},
                "phone": {"type": "string"},
                "postal_code": {"type": "string"}
            }
        },
        "model.CheckoutResponse": {
            "type": "object",
            "properties": {
                "expires_at": {"type": "string"},
                "order_id": {"type": "string"},
                "redirect_url": {"type": "string"},
                "snap_token": {"type": "string"},
                "total_amount": {"type": "number"}
            }
        },
        "model.OrderStatusResponse": {
            "type": "object",
            "properties": {
                "order_status": {"type": "string"},
                "paid_at": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "model.PaymentNotification": {
            "type": "object",
            "required": ["order_id", "transaction_status"],
            "properties": {
                "fraud_status": {"type": "string"},
                "gross_amount": {"type": "string"},
                "order_id": {"type": "string"},
                "payment_type": {"type": "string"},
                "signature_key": {"type": "string"},
                "status_code": {"type": "string"},
                "transaction_id": {"type": "string"},
                "transaction_status": {"type": "string"}
            }
        },
        "transport.errorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "transport.notificationResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "string"}
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
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "STOREFRONT API",
	Description:      "Checkout, payment and order lifecycle API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
