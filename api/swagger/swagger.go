package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Bills Lifecycle API",
        "description": "Medical reimbursement bill tracking for employees and their dependents",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Bills", "description": "Bill records and the status workflow"},
        {"name": "Employees", "description": "Employee roster and dependents"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/bills": {
            "get": {
                "tags": ["Bills"],
                "summary": "List bills",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Bills"],
                "summary": "Register a new bill",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBillRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate bill number"}
                }
            }
        },
        "/bills/{id}": {
            "get": {
                "tags": ["Bills"],
                "summary": "Get bill",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Bills"],
                "summary": "Update bill record fields",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateBillRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Bills"],
                "summary": "Delete bill",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/bills/{id}/status": {
            "put": {
                "tags": ["Bills"],
                "summary": "Move a bill to its next workflow status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateBillStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing or invalid status field"},
                    "409": {"description": "Stale version token"}
                }
            }
        },
        "/bills/{id}/history": {
            "get": {
                "tags": ["Bills"],
                "summary": "Render status history, most recent first",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bills/status/{status}": {
            "get": {
                "tags": ["Bills"],
                "summary": "List bills currently in a workflow status",
                "parameters": [
                    {"name": "status", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown status"}
                }
            }
        },
        "/bills/statuses": {
            "get": {
                "tags": ["Bills"],
                "summary": "List the workflow statuses in order",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bills/hospitals": {
            "get": {
                "tags": ["Bills"],
                "summary": "List the recognised hospital categories",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bills/filter": {
            "post": {
                "tags": ["Bills"],
                "summary": "Filter bills by AND-combined criteria",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FilterBillsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bills/export": {
            "get": {
                "tags": ["Bills"],
                "summary": "Download the bill register",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "employee_id", "in": "query", "type": "string"},
                    {"name": "date_from", "in": "query", "type": "string"},
                    {"name": "date_to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/bills/export/jobs": {
            "post": {
                "tags": ["Bills"],
                "summary": "Queue an async register export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportJobRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bills/export/jobs/{id}": {
            "get": {
                "tags": ["Bills"],
                "summary": "Get async export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bills/export/download": {
            "get": {
                "tags": ["Bills"],
                "summary": "Download a completed async export",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        },
        "/employees": {
            "get": {
                "tags": ["Employees"],
                "summary": "List employees",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Employees"],
                "summary": "Register an employee",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEmployeeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate employee id"}
                }
            }
        },
        "/employees/subdivisions": {
            "get": {
                "tags": ["Employees"],
                "summary": "List the valid sub-division names",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees/{id}": {
            "get": {
                "tags": ["Employees"],
                "summary": "Get employee",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Employees"],
                "summary": "Update employee",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateEmployeeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Employees"],
                "summary": "Delete employee without bills on file",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Employee still has bills"}
                }
            }
        },
        "/employees/{id}/bills": {
            "get": {
                "tags": ["Employees"],
                "summary": "List the bills referencing an employee",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "StatusUpdate": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "date": {"type": "string"},
                "remarks": {"type": "string"},
                "reference_number": {"type": "string"},
                "approved_amount": {"type": "number"}
            }
        },
        "Bill": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "bill_number": {"type": "string"},
                "receipt_date": {"type": "string"},
                "employee_id": {"type": "string"},
                "employee_name": {"type": "string"},
                "dependent_name": {"type": "string"},
                "relationship": {"type": "string"},
                "treatment_period_from": {"type": "string"},
                "treatment_period_to": {"type": "string"},
                "amount_claimed": {"type": "number"},
                "hospital": {"type": "string"},
                "sub_division": {"type": "string"},
                "current_status": {"type": "string"},
                "status_history": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/StatusUpdate"}
                },
                "latest_reference_number": {"type": "string"},
                "latest_approved_amount": {"type": "number"},
                "version": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "CreateBillRequest": {
            "type": "object",
            "properties": {
                "bill_number": {"type": "string"},
                "receipt_date": {"type": "string"},
                "employee_id": {"type": "string"},
                "employee_name": {"type": "string"},
                "dependent_name": {"type": "string"},
                "relationship": {"type": "string"},
                "treatment_period_from": {"type": "string"},
                "treatment_period_to": {"type": "string"},
                "amount_claimed": {"type": "number"},
                "hospital": {"type": "string"},
                "reference_number": {"type": "string"}
            },
            "required": ["bill_number", "receipt_date", "employee_id", "employee_name", "dependent_name", "relationship", "treatment_period_from", "treatment_period_to", "amount_claimed", "hospital", "reference_number"]
        },
        "UpdateBillRequest": {
            "type": "object",
            "properties": {
                "bill_number": {"type": "string"},
                "receipt_date": {"type": "string"},
                "employee_id": {"type": "string"},
                "employee_name": {"type": "string"},
                "dependent_name": {"type": "string"},
                "relationship": {"type": "string"},
                "treatment_period_from": {"type": "string"},
                "treatment_period_to": {"type": "string"},
                "amount_claimed": {"type": "number"},
                "hospital": {"type": "string"}
            }
        },
        "UpdateBillStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "date": {"type": "string"},
                "remarks": {"type": "string"},
                "reference_number": {"type": "string"},
                "approved_amount": {"type": "string"},
                "version": {"type": "integer"}
            },
            "required": ["status"]
        },
        "FilterBillsRequest": {
            "type": "object",
            "properties": {
                "bill_number": {"type": "string"},
                "employee_id": {"type": "string"},
                "employee_name": {"type": "string"},
                "status": {"type": "string"},
                "date_from": {"type": "string"},
                "date_to": {"type": "string"},
                "amount_from": {"type": "number"},
                "amount_to": {"type": "number"},
                "hospital": {"type": "string"},
                "reference_search": {
                    "type": "object",
                    "properties": {
                        "status": {"type": "string"},
                        "number": {"type": "string"}
                    }
                }
            }
        },
        "Dependent": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "relation": {"type": "string"}
            }
        },
        "Employee": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "employee_id": {"type": "string"},
                "name": {"type": "string"},
                "father_name": {"type": "string"},
                "designation": {"type": "string"},
                "status": {"type": "string"},
                "sub_division": {"type": "string"},
                "phone": {"type": "string"},
                "bank_account": {"type": "string"},
                "bank_name": {"type": "string"},
                "bank_branch": {"type": "string"},
                "life_status": {"type": "string"},
                "retirement_date": {"type": "string"},
                "death_date": {"type": "string"},
                "dependents": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Dependent"}
                },
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "CreateEmployeeRequest": {
            "type": "object",
            "properties": {
                "employee_id": {"type": "string"},
                "name": {"type": "string"},
                "father_name": {"type": "string"},
                "designation": {"type": "string"},
                "status": {"type": "string", "enum": ["WORKING", "RETIRED"]},
                "sub_division": {"type": "string"},
                "phone": {"type": "string"},
                "bank_account": {"type": "string"},
                "bank_name": {"type": "string"},
                "bank_branch": {"type": "string"},
                "life_status": {"type": "string", "enum": ["ALIVE", "DECEASED"]},
                "retirement_date": {"type": "string"},
                "death_date": {"type": "string"},
                "dependents": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Dependent"}
                }
            },
            "required": ["employee_id", "name", "sub_division"]
        },
        "UpdateEmployeeRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "father_name": {"type": "string"},
                "designation": {"type": "string"},
                "status": {"type": "string", "enum": ["WORKING", "RETIRED"]},
                "sub_division": {"type": "string"},
                "phone": {"type": "string"},
                "bank_account": {"type": "string"},
                "bank_name": {"type": "string"},
                "bank_branch": {"type": "string"},
                "life_status": {"type": "string", "enum": ["ALIVE", "DECEASED"]},
                "retirement_date": {"type": "string"},
                "death_date": {"type": "string"},
                "dependents": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Dependent"}
                }
            },
            "required": ["name", "sub_division"]
        },
        "ExportJobRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "filter": {"$ref": "#/definitions/FilterBillsRequest"}
            },
            "required": ["format"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
