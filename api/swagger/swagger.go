package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Appeal Routing API",
        "description": "Hierarchical approval routing for student appeal applications",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Applications", "description": "Submission, role-scoped listing and approver actions"},
        {"name": "Tracking", "description": "Submitter status tracking"},
        {"name": "Observability", "description": "Health and metrics"}
    ],
    "paths": {
        "/applications": {
            "get": {
                "tags": ["Applications"],
                "summary": "List applications visible to the caller",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["all", "pending", "approved", "rejected"]},
                    {"name": "type", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Applications"],
                "summary": "Submit an appeal application",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitApplicationRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/applications/stats": {
            "get": {
                "tags": ["Applications"],
                "summary": "Count visible applications by status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/applications/export": {
            "get": {
                "tags": ["Applications"],
                "summary": "Download the visible listing",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "File", "schema": {"type": "file"}}}
            }
        },
        "/applications/{id}": {
            "get": {
                "tags": ["Applications"],
                "summary": "Get application detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not visible to role", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/applications/{id}/actions": {
            "post": {
                "tags": ["Applications"],
                "summary": "Approve, reject, hold or forward the current stage",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ActionRequest"}}
                ],
                "responses": {
                    "200": {"description": "Applied", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid action or missing rejection reason", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Caller does not govern the current stage", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already decided or locked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/track/{id}": {
            "get": {
                "tags": ["Tracking"],
                "summary": "Track the caller's own application",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "Stage": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "enum": ["Course Coordinator", "Director", "Department Head", "Vice Chancellor"]},
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]},
                "decidedOn": {"type": "string", "format": "date-time"},
                "decidedBy": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "Application": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "studentId": {"type": "string"},
                "studentName": {"type": "string"},
                "studentEmail": {"type": "string"},
                "department": {"type": "string"},
                "type": {"type": "string"},
                "submittedDate": {"type": "string", "format": "date-time"},
                "currentStage": {"type": "string"},
                "status": {"type": "string"},
                "stages": {"type": "array", "items": {"$ref": "#/definitions/Stage"}},
                "rejectionReason": {"type": "string"},
                "details": {"type": "object"}
            }
        },
        "SubmitApplicationRequest": {
            "type": "object",
            "required": ["type", "reason"],
            "properties": {
                "type": {"type": "string", "enum": ["Cross-Department Registration", "Multi-Level Approvals", "Leave Management", "Timetable Clash Detection", "Academic Appeal"]},
                "department": {"type": "string"},
                "courseName": {"type": "string"},
                "courseCode": {"type": "string"},
                "targetDepartment": {"type": "string"},
                "leaveType": {"type": "string"},
                "leaveDuration": {"type": "string"},
                "appealCategory": {"type": "string"},
                "program": {"type": "string"},
                "semester": {"type": "string"},
                "reason": {"type": "string"},
                "additionalInfo": {"type": "string"}
            }
        },
        "ActionRequest": {
            "type": "object",
            "required": ["action"],
            "properties": {
                "action": {"type": "string", "enum": ["approve", "reject", "hold", "forward"]},
                "notes": {"type": "string"}
            }
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
