// Package docs provides Swagger documentation for the renewals API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/MrKriegler/go-renewals"
        },
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "consumes": ["application/json"],
    "produces": ["application/json"],
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "in": "header", "name": "X-API-Key"}
    },
    "security": [{"ApiKeyAuth": []}],
    "paths": {
        "/pipeline": {
            "get": {
                "tags": ["Pipeline"],
                "summary": "Build the renewal pipeline with default weights",
                "operationId": "getPipeline",
                "parameters": [
                    {"name": "window", "in": "query", "type": "integer", "description": "Look-ahead in days (default 90). Expired records are always included."},
                    {"name": "mode", "in": "query", "type": "string", "enum": ["csv", "ledger"], "description": "csv tiers by score, ledger tiers by days to expiry"}
                ],
                "responses": {
                    "200": {"description": "Ranked pipeline", "schema": {"$ref": "#/definitions/Pipeline"}},
                    "400": {"description": "Invalid window or mode", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "post": {
                "tags": ["Pipeline"],
                "summary": "Build the renewal pipeline with custom weights",
                "operationId": "buildPipeline",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PipelineQuery"}}
                ],
                "responses": {
                    "200": {"description": "Ranked pipeline", "schema": {"$ref": "#/definitions/Pipeline"}},
                    "400": {"description": "Invalid weights, window or mode", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/pipeline/latest": {
            "get": {
                "tags": ["Pipeline"],
                "summary": "Last pipeline built by the background worker",
                "operationId": "getLatestPipeline",
                "responses": {
                    "200": {"description": "Ranked pipeline", "schema": {"$ref": "#/definitions/Pipeline"}},
                    "503": {"description": "No run has completed yet", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/pipeline/{record_id}": {
            "get": {
                "tags": ["Pipeline"],
                "summary": "Pipeline entry for one record",
                "operationId": "getPipelineItem",
                "parameters": [
                    {"name": "record_id", "in": "path", "required": true, "type": "string"},
                    {"name": "window", "in": "query", "type": "integer"},
                    {"name": "mode", "in": "query", "type": "string", "enum": ["csv", "ledger"]}
                ],
                "responses": {
                    "200": {"description": "Scored record", "schema": {"$ref": "#/definitions/RenewalPipelineItem"}},
                    "404": {"description": "Unknown record or outside the window", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/weights/default": {
            "get": {
                "tags": ["Pipeline"],
                "summary": "Default factor weights",
                "operationId": "getDefaultWeights",
                "responses": {
                    "200": {"description": "Weights keyed by factor", "schema": {"$ref": "#/definitions/PriorityWeights"}}
                }
            }
        },
        "/overrides": {
            "get": {
                "tags": ["Overrides"],
                "summary": "List manual overrides",
                "operationId": "listOverrides",
                "responses": {
                    "200": {"description": "Overrides ordered by record ID", "schema": {"type": "object", "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/ManualOverride"}}}}}
                }
            }
        },
        "/overrides/{record_id}": {
            "put": {
                "tags": ["Overrides"],
                "summary": "Set a manual score for a record",
                "description": "Replaces any earlier override. The final score, and so the urgency tier, follows the override.",
                "operationId": "setOverride",
                "parameters": [
                    {"name": "record_id", "in": "path", "required": true, "type": "string"},
                    {"name": "X-User", "in": "header", "type": "string", "description": "Recorded as createdBy when the body omits it"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OverrideInput"}}
                ],
                "responses": {
                    "200": {"description": "Stored override", "schema": {"$ref": "#/definitions/ManualOverride"}},
                    "400": {"description": "Score outside 0-100 or missing reason", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "404": {"description": "Unknown record", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "delete": {
                "tags": ["Overrides"],
                "summary": "Remove a record's manual score",
                "operationId": "deleteOverride",
                "parameters": [
                    {"name": "record_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Removed"},
                    "404": {"description": "No override for the record", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/records": {
            "get": {
                "tags": ["Records"],
                "summary": "List records",
                "operationId": "listRecords",
                "responses": {
                    "200": {"description": "All records", "schema": {"type": "object", "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/Record"}}, "total": {"type": "integer"}}}}
                }
            },
            "post": {
                "tags": ["Records"],
                "summary": "Create a record under a generated ID",
                "operationId": "createRecord",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Record"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Record"}},
                    "400": {"description": "Missing premium", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/records/ledger": {
            "post": {
                "tags": ["Records"],
                "summary": "Import policies read from the ledger contract",
                "operationId": "importLedger",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/LedgerPolicy"}}}
                ],
                "responses": {
                    "200": {"description": "Imported IDs", "schema": {"type": "object", "properties": {"imported": {"type": "array", "items": {"type": "string"}}}}},
                    "400": {"description": "Unknown status or bad coverage amount", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/records/{record_id}": {
            "get": {
                "tags": ["Records"],
                "summary": "Get a record",
                "operationId": "getRecord",
                "parameters": [
                    {"name": "record_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Record", "schema": {"$ref": "#/definitions/Record"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "put": {
                "tags": ["Records"],
                "summary": "Create or replace a record",
                "operationId": "putRecord",
                "parameters": [
                    {"name": "record_id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Record"}}
                ],
                "responses": {
                    "200": {"description": "Stored", "schema": {"$ref": "#/definitions/Record"}},
                    "400": {"description": "ID mismatch or missing premium", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/enrichment/template": {
            "get": {
                "tags": ["Enrichment"],
                "summary": "Download the enrichment CSV template",
                "operationId": "getEnrichmentTemplate",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "policyHash,customerName,email,claims,carrierRating,churnRisk,crmId,calendarEventId,meetingNotes,lastContactDate,carrierStatus"}
                }
            }
        }
    },
    "definitions": {
        "PriorityWeights": {
            "type": "object",
            "additionalProperties": {"type": "number"},
            "example": {"premiumAtRisk": 0.25, "timeToExpiry": 0.25, "claimsHistory": 0.1, "carrierResponsiveness": 0.1, "churnLikelihood": 0.1, "marketConditions": 0.1, "interactionHealth": 0.1}
        },
        "PipelineQuery": {
            "type": "object",
            "properties": {
                "weights": {"$ref": "#/definitions/PriorityWeights"},
                "timeWindowDays": {"type": "integer", "example": 90},
                "mode": {"type": "string", "enum": ["csv", "ledger"]}
            }
        },
        "PriorityFactors": {
            "type": "object",
            "properties": {
                "premiumAtRisk": {"type": "number"},
                "timeToExpiry": {"type": "number"},
                "claimsHistory": {"type": "number"},
                "carrierResponsiveness": {"type": "number"},
                "churnLikelihood": {"type": "number"},
                "marketConditions": {"type": "number"},
                "interactionHealth": {"type": "number"}
            }
        },
        "Enrichment": {
            "type": "object",
            "properties": {
                "claimsCount": {"type": "integer"},
                "carrierRating": {"type": "number", "minimum": 1, "maximum": 5},
                "churnRisk": {"type": "number", "minimum": 0, "maximum": 100},
                "interactions": {"type": "array", "items": {"type": "object", "properties": {
                    "direction": {"type": "string", "enum": ["inbound", "outbound"]},
                    "sentiment": {"type": "string", "enum": ["positive", "neutral", "negative"]},
                    "occurredAt": {"type": "string", "format": "date-time"}
                }}},
                "market": {"type": "object", "properties": {
                    "marketType": {"type": "string", "enum": ["normal", "hard"]},
                    "sectorTrend": {"type": "string", "enum": ["stable", "volatile", "crisis"]},
                    "carrierAppetite": {"type": "string", "enum": ["normal", "low"]}
                }},
                "calendarEventId": {"type": "string"},
                "meetingNotes": {"type": "string"},
                "lastContactDate": {"type": "string", "example": "2026-02-10"},
                "carrierStatus": {"type": "string"}
            }
        },
        "Record": {
            "type": "object",
            "required": ["premium"],
            "properties": {
                "id": {"type": "string", "example": "0x8a1f0c"},
                "source": {"type": "string", "enum": ["ledger", "csv"]},
                "customerName": {"type": "string"},
                "email": {"type": "string"},
                "crmId": {"type": "string"},
                "premium": {"type": "number", "example": 48000},
                "coverage": {"type": "number"},
                "status": {"type": "string", "enum": ["pending", "active", "expired"]},
                "startTime": {"type": "integer", "description": "Epoch seconds, 0 when not started"},
                "duration": {"type": "integer", "description": "Seconds"},
                "renewalCount": {"type": "integer"},
                "enrichment": {"$ref": "#/definitions/Enrichment"}
            }
        },
        "LedgerPolicy": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "holder": {"type": "string"},
                "premiumWei": {"type": "string", "example": "2000000000000000000"},
                "coverageWei": {"type": "string"},
                "status": {"type": "integer", "enum": [0, 1, 2]},
                "startTime": {"type": "integer"},
                "duration": {"type": "integer"},
                "renewalCount": {"type": "integer"}
            }
        },
        "OverrideInput": {
            "type": "object",
            "required": ["score", "reason"],
            "properties": {
                "score": {"type": "integer", "minimum": 0, "maximum": 100, "example": 95},
                "reason": {"type": "string", "example": "VIP escalation"},
                "createdBy": {"type": "string"}
            }
        },
        "ManualOverride": {
            "type": "object",
            "properties": {
                "recordId": {"type": "string"},
                "score": {"type": "integer"},
                "reason": {"type": "string"},
                "createdBy": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "RenewalPipelineItem": {
            "type": "object",
            "properties": {
                "record": {"$ref": "#/definitions/Record"},
                "daysUntilExpiry": {"type": "integer", "description": "0 when expired, 999 when not started"},
                "expiresAt": {"type": "string", "format": "date-time"},
                "priorityScore": {"type": "integer", "minimum": 0, "maximum": 100},
                "computedScore": {"type": "integer", "description": "Score before any manual override"},
                "urgencyLevel": {"type": "string", "enum": ["critical", "high", "medium", "low"]},
                "classifier": {"type": "string", "enum": ["score", "expiry"]},
                "factors": {"$ref": "#/definitions/PriorityFactors"},
                "manualOverride": {"$ref": "#/definitions/ManualOverride"},
                "explanation": {"type": "string", "example": "Top-tier premium account; expired or expiring imminently."},
                "dataQualityFlags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "Pipeline": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/RenewalPipelineItem"}},
                "counts": {"type": "object", "additionalProperties": {"type": "integer"}},
                "timeWindowDays": {"type": "integer"},
                "mode": {"type": "string"},
                "weights": {"$ref": "#/definitions/PriorityWeights"},
                "generatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "ProblemDetails": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "about:blank"},
                "title": {"type": "string", "example": "Not Found"},
                "status": {"type": "integer", "example": 404},
                "detail": {"type": "string", "example": "Resource not found"}
            }
        }
    },
    "tags": [
        {"name": "Pipeline", "description": "Ranked renewal pipeline"},
        {"name": "Overrides", "description": "Broker corrections to computed scores"},
        {"name": "Records", "description": "Policies and placements under renewal"},
        {"name": "Enrichment", "description": "CSV template for connected-system data"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Renewals API",
	Description:      "Renewal prioritization: ranks policies by premium at risk, time to expiry and enrichment signals.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
