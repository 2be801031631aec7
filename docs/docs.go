// Package docs registers the OpenAPI description of the cart API with swag.
// Keep it in step with the routes in internal/interfaces/http/handler.
package docs

import "github.com/swaggo/swag/v2"

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
		"/cart": {
			"get": {
				"summary": "Get the cart with totals",
				"tags": [
					"cart"
				],
				"operationId": "getCart",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"data": {
									"$ref": "#/definitions/dto.CartResponse"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					}
				}
			},
			"delete": {
				"summary": "Clear the cart",
				"tags": [
					"cart"
				],
				"operationId": "clearCart",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"data": {
									"$ref": "#/definitions/dto.CartResponse"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					}
				}
			}
		},
		"/cart/totals": {
			"get": {
				"summary": "Get cart aggregates",
				"tags": [
					"cart"
				],
				"operationId": "getCartTotals",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"data": {
									"$ref": "#/definitions/cart.Totals"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					}
				}
			}
		},
		"/cart/hydrate": {
			"post": {
				"summary": "Reload the cart from the remote cart or the local mirror",
				"tags": [
					"cart"
				],
				"operationId": "hydrateCart",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"data": {
									"$ref": "#/definitions/dto.HydrateResponse"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					}
				}
			}
		},
		"/cart/selection": {
			"put": {
				"summary": "Select or deselect every item",
				"tags": [
					"cart"
				],
				"operationId": "selectAll",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"data": {
									"$ref": "#/definitions/dto.CartResponse"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.SelectionRequest"
						}
					}
				]
			}
		},
		"/cart/selected": {
			"delete": {
				"summary": "Remove the selected items after checkout",
				"tags": [
					"cart"
				],
				"operationId": "removeSelected",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"data": {
									"type": "object",
									"properties": {
										"removed": {
											"type": "array",
											"items": {
												"$ref": "#/definitions/dto.LineItemResponse"
											}
										},
										"cart": {
											"$ref": "#/definitions/dto.CartResponse"
										}
									}
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					}
				}
			}
		},
		"/cart/items": {
			"post": {
				"summary": "Add a product to the cart",
				"tags": [
					"cart"
				],
				"operationId": "addCartItem",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"data": {
									"$ref": "#/definitions/dto.AddItemResponse"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					},
					"403": {
						"description": "Privileged identity has no cart",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.AddItemRequest"
						}
					}
				]
			}
		},
		"/cart/items/{id}": {
			"patch": {
				"summary": "Set the quantity of an item, 0 removes it",
				"tags": [
					"cart"
				],
				"operationId": "updateCartItemQuantity",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"data": {
									"$ref": "#/definitions/dto.CartResponse"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					},
					"404": {
						"description": "Item not found",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					},
					"502": {
						"description": "Remote cart rejected the removal",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Line item ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.UpdateQuantityRequest"
						}
					}
				]
			},
			"delete": {
				"summary": "Remove an item",
				"tags": [
					"cart"
				],
				"operationId": "removeCartItem",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"data": {
									"$ref": "#/definitions/dto.CartResponse"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					},
					"404": {
						"description": "Item not found",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					},
					"502": {
						"description": "Remote cart rejected the removal",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Line item ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/cart/items/{id}/toggle": {
			"post": {
				"summary": "Flip the selection flag of an item",
				"tags": [
					"cart"
				],
				"operationId": "toggleCartItem",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"data": {
									"$ref": "#/definitions/dto.LineItemResponse"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					},
					"404": {
						"description": "Item not found",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Line item ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/cart/items/{id}/selected": {
			"put": {
				"summary": "Set the selection flag of an item",
				"tags": [
					"cart"
				],
				"operationId": "setCartItemSelected",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"data": {
									"$ref": "#/definitions/dto.LineItemResponse"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					},
					"404": {
						"description": "Item not found",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Line item ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.SelectionRequest"
						}
					}
				]
			}
		},
		"/session": {
			"get": {
				"summary": "Get the identity the cart is bound to",
				"tags": [
					"session"
				],
				"operationId": "getSession",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"data": {
									"$ref": "#/definitions/dto.SessionResponse"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					}
				}
			},
			"post": {
				"summary": "Sign in with a credential",
				"tags": [
					"session"
				],
				"operationId": "signIn",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"data": {
									"$ref": "#/definitions/dto.SessionResponse"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					},
					"401": {
						"description": "Invalid credential",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/dto.SessionRequest"
						}
					}
				]
			},
			"delete": {
				"summary": "Sign out and revoke the credential",
				"tags": [
					"session"
				],
				"operationId": "signOut",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					}
				}
			}
		},
		"/system/ping": {
			"get": {
				"summary": "Liveness check",
				"tags": [
					"system"
				],
				"operationId": "ping",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					}
				}
			}
		},
		"/system/info": {
			"get": {
				"summary": "Service name, version and uptime",
				"tags": [
					"system"
				],
				"operationId": "systemInfo",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"data": {
									"$ref": "#/definitions/handler.SystemInfoResponse"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					}
				}
			}
		},
		"/system/ready": {
			"get": {
				"summary": "Readiness, true once the cart has hydrated",
				"tags": [
					"system"
				],
				"operationId": "ready",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					},
					"503": {
						"description": "Cart not hydrated yet",
						"schema": {
							"type": "object",
							"properties": {
								"success": {
									"type": "boolean"
								},
								"error": {
									"$ref": "#/definitions/dto.ErrorInfo"
								}
							}
						}
					}
				}
			}
		}
	},
	"definitions": {
		"dto.ErrorInfo": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"message": {
					"type": "string"
				},
				"request_id": {
					"type": "string"
				},
				"details": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"field": {
								"type": "string"
							},
							"message": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"dto.AddItemRequest": {
			"type": "object",
			"required": [
				"productRef"
			],
			"properties": {
				"productRef": {
					"type": "string",
					"maxLength": 128
				},
				"name": {
					"type": "string"
				},
				"image": {
					"type": "string"
				},
				"price": {
					"type": "string",
					"example": "12.50"
				},
				"originalPrice": {
					"type": "string",
					"example": "12.50"
				},
				"sellerRef": {
					"type": "string"
				},
				"quantity": {
					"type": "integer",
					"minimum": 1,
					"maximum": 9999
				},
				"options": {
					"type": "object",
					"additionalProperties": true
				}
			}
		},
		"dto.UpdateQuantityRequest": {
			"type": "object",
			"required": [
				"quantity"
			],
			"properties": {
				"quantity": {
					"type": "integer",
					"minimum": 0,
					"maximum": 9999
				}
			}
		},
		"dto.SelectionRequest": {
			"type": "object",
			"required": [
				"selected"
			],
			"properties": {
				"selected": {
					"type": "boolean"
				}
			}
		},
		"dto.SessionRequest": {
			"type": "object",
			"required": [
				"credential"
			],
			"properties": {
				"credential": {
					"type": "string"
				}
			}
		},
		"dto.LineItemResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"key": {
					"type": "string"
				},
				"productRef": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"image": {
					"type": "string"
				},
				"price": {
					"type": "string",
					"example": "12.50"
				},
				"originalPrice": {
					"type": "string",
					"example": "12.50"
				},
				"sellerRef": {
					"type": "string"
				},
				"options": {
					"type": "object",
					"additionalProperties": {
						"type": "string"
					}
				},
				"quantity": {
					"type": "integer"
				},
				"selected": {
					"type": "boolean"
				},
				"subtotal": {
					"type": "string",
					"example": "12.50"
				},
				"addedAt": {
					"type": "string",
					"format": "date-time"
				}
			}
		},
		"cart.Totals": {
			"type": "object",
			"properties": {
				"totalItems": {
					"type": "integer"
				},
				"totalPrice": {
					"type": "string",
					"example": "12.50"
				},
				"totalSavings": {
					"type": "string",
					"example": "12.50"
				},
				"selectedTotalItems": {
					"type": "integer"
				},
				"selectedTotalPrice": {
					"type": "string",
					"example": "12.50"
				},
				"selectedTotalSavings": {
					"type": "string",
					"example": "12.50"
				}
			}
		},
		"dto.CartResponse": {
			"type": "object",
			"properties": {
				"items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/dto.LineItemResponse"
					}
				},
				"totals": {
					"$ref": "#/definitions/cart.Totals"
				},
				"hydrated": {
					"type": "boolean"
				},
				"authenticated": {
					"type": "boolean"
				}
			}
		},
		"dto.AddItemResponse": {
			"type": "object",
			"properties": {
				"item": {
					"$ref": "#/definitions/dto.LineItemResponse"
				},
				"suppressed": {
					"type": "boolean"
				}
			}
		},
		"dto.HydrateResponse": {
			"type": "object",
			"properties": {
				"source": {
					"type": "string",
					"enum": [
						"remote",
						"mirror",
						"privileged"
					]
				},
				"count": {
					"type": "integer"
				},
				"dropped": {
					"type": "integer"
				},
				"remoteError": {
					"type": "string"
				}
			}
		},
		"dto.SessionResponse": {
			"type": "object",
			"properties": {
				"authenticated": {
					"type": "boolean"
				},
				"userId": {
					"type": "string"
				},
				"username": {
					"type": "string"
				},
				"roles": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"handler.SystemInfoResponse": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"version": {
					"type": "string"
				},
				"go_version": {
					"type": "string"
				},
				"uptime": {
					"type": "string"
				},
				"hydrated": {
					"type": "boolean"
				}
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
	Title:            "Storefront Cart API",
	Description:      "Shopping cart that mirrors guest carts locally and reconciles signed-in carts with the remote cart service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
