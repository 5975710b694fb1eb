package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Madrasah Analytics API",
        "description": "Read-only analytics and alerting over madrasah memorization, attendance and staff data.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Analytics",
            "description": "Computed metric views"
        },
        {
            "name": "Alerts",
            "description": "Persisted alert lifecycle"
        },
        {
            "name": "Probes",
            "description": "Health and instrumentation"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": [
                    "Probes"
                ],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": [
                    "Probes"
                ],
                "summary": "Readiness probe",
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "Dependency unavailable"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": [
                    "Probes"
                ],
                "summary": "Prometheus exposition",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/analytics/students": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Per-student metrics",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string",
                        "description": "RFC3339 or YYYY-MM-DD"
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string",
                        "description": "RFC3339 or YYYY-MM-DD"
                    },
                    {
                        "name": "madrasah_id",
                        "in": "query",
                        "type": "string",
                        "description": "Tenant override for superadmins"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "502": {
                        "description": "Critical collection unavailable",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "504": {
                        "description": "Analytics timeout",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/analytics/students/{id}": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Metrics for one student",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string",
                        "description": "RFC3339 or YYYY-MM-DD"
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string",
                        "description": "RFC3339 or YYYY-MM-DD"
                    },
                    {
                        "name": "madrasah_id",
                        "in": "query",
                        "type": "string",
                        "description": "Tenant override for superadmins"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "502": {
                        "description": "Critical collection unavailable",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "504": {
                        "description": "Analytics timeout",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Student not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/analytics/classes": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Per-class metrics",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string",
                        "description": "RFC3339 or YYYY-MM-DD"
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string",
                        "description": "RFC3339 or YYYY-MM-DD"
                    },
                    {
                        "name": "madrasah_id",
                        "in": "query",
                        "type": "string",
                        "description": "Tenant override for superadmins"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "502": {
                        "description": "Critical collection unavailable",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "504": {
                        "description": "Analytics timeout",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/analytics/teachers": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Per-teacher metrics",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string",
                        "description": "RFC3339 or YYYY-MM-DD"
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string",
                        "description": "RFC3339 or YYYY-MM-DD"
                    },
                    {
                        "name": "madrasah_id",
                        "in": "query",
                        "type": "string",
                        "description": "Tenant override for superadmins"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "502": {
                        "description": "Critical collection unavailable",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "504": {
                        "description": "Analytics timeout",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/analytics/program": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Institution-wide metrics",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string",
                        "description": "RFC3339 or YYYY-MM-DD"
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string",
                        "description": "RFC3339 or YYYY-MM-DD"
                    },
                    {
                        "name": "madrasah_id",
                        "in": "query",
                        "type": "string",
                        "description": "Tenant override for superadmins"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "502": {
                        "description": "Critical collection unavailable",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "504": {
                        "description": "Analytics timeout",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/analytics/report": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Every metric view in one payload",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string",
                        "description": "RFC3339 or YYYY-MM-DD"
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string",
                        "description": "RFC3339 or YYYY-MM-DD"
                    },
                    {
                        "name": "madrasah_id",
                        "in": "query",
                        "type": "string",
                        "description": "Tenant override for superadmins"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "502": {
                        "description": "Critical collection unavailable",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "504": {
                        "description": "Analytics timeout",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/analytics/alerts": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Evaluate alert rules against fresh metrics",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string",
                        "description": "RFC3339 or YYYY-MM-DD"
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string",
                        "description": "RFC3339 or YYYY-MM-DD"
                    },
                    {
                        "name": "madrasah_id",
                        "in": "query",
                        "type": "string",
                        "description": "Tenant override for superadmins"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "502": {
                        "description": "Critical collection unavailable",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "504": {
                        "description": "Analytics timeout",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/analytics/export": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Download a metric view",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string",
                        "description": "RFC3339 or YYYY-MM-DD"
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string",
                        "description": "RFC3339 or YYYY-MM-DD"
                    },
                    {
                        "name": "madrasah_id",
                        "in": "query",
                        "type": "string",
                        "description": "Tenant override for superadmins"
                    },
                    {
                        "name": "view",
                        "in": "query",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "students",
                            "classes",
                            "teachers",
                            "program"
                        ]
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf",
                            "xlsx"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "502": {
                        "description": "Critical collection unavailable",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "504": {
                        "description": "Analytics timeout",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "produces": [
                    "text/csv",
                    "application/pdf",
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ]
            }
        },
        "/api/v1/analytics/cache": {
            "delete": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Drop cached analytics views of the madrasah",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/analytics/system": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Instrumentation snapshot",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/alerts": {
            "get": {
                "tags": [
                    "Alerts"
                ],
                "summary": "List persisted alerts",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "status",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "active",
                            "acknowledged",
                            "resolved"
                        ]
                    },
                    {
                        "name": "madrasah_id",
                        "in": "query",
                        "type": "string",
                        "description": "Tenant override for superadmins"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/alerts/{id}/status": {
            "patch": {
                "tags": [
                    "Alerts"
                ],
                "summary": "Acknowledge or resolve an alert",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateAlertStatusRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Alert not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Invalid status transition",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "StudentMetrics": {
            "type": "object",
            "properties": {
                "student_id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "section": {
                    "type": "string"
                },
                "class_id": {
                    "type": "string"
                },
                "attendance_rate": {
                    "type": "number",
                    "x-nullable": true
                },
                "recorded_days": {
                    "type": "integer"
                },
                "absences": {
                    "type": "integer"
                },
                "consecutive_absences": {
                    "type": "integer"
                },
                "pages_memorized": {
                    "type": "number"
                },
                "pace": {
                    "type": "number"
                },
                "days_since_last_progress": {
                    "type": "integer",
                    "x-nullable": true
                },
                "stagnant": {
                    "type": "boolean"
                },
                "revisions": {
                    "type": "integer"
                },
                "average_quality": {
                    "type": "number",
                    "x-nullable": true
                },
                "risk_score": {
                    "type": "number"
                },
                "at_risk": {
                    "type": "boolean"
                },
                "drop_off_probability": {
                    "type": "number"
                },
                "on_track": {
                    "type": "boolean"
                }
            }
        },
        "ClassMetrics": {
            "type": "object",
            "properties": {
                "class_id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "enrolled": {
                    "type": "integer"
                },
                "inactive_members": {
                    "type": "integer"
                },
                "capacity": {
                    "type": "integer",
                    "x-nullable": true
                },
                "capacity_utilization": {
                    "type": "number",
                    "x-nullable": true
                },
                "average_pace": {
                    "type": "number",
                    "x-nullable": true
                },
                "pace_variance": {
                    "type": "number",
                    "x-nullable": true
                },
                "students_above_target": {
                    "type": "integer"
                },
                "students_below_target": {
                    "type": "integer"
                },
                "at_risk_count": {
                    "type": "integer"
                },
                "at_risk_share": {
                    "type": "number",
                    "x-nullable": true
                },
                "attendance_rate": {
                    "type": "number",
                    "x-nullable": true
                },
                "scheduled_sessions": {
                    "type": "integer"
                },
                "conducted_sessions": {
                    "type": "integer"
                },
                "session_ratio": {
                    "type": "number",
                    "x-nullable": true
                },
                "drop_off_rate": {
                    "type": "number",
                    "x-nullable": true
                }
            }
        },
        "TeacherMetrics": {
            "type": "object",
            "properties": {
                "teacher_id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "classes": {
                    "type": "integer"
                },
                "students": {
                    "type": "integer"
                },
                "at_risk_students": {
                    "type": "integer"
                },
                "average_pace": {
                    "type": "number",
                    "x-nullable": true
                },
                "session_reliability": {
                    "type": "number",
                    "x-nullable": true
                },
                "cancellation_rate": {
                    "type": "number",
                    "x-nullable": true
                },
                "grading_turnaround_hours": {
                    "type": "number",
                    "x-nullable": true
                },
                "progress_entries_recorded": {
                    "type": "integer"
                },
                "revisions_recorded": {
                    "type": "integer"
                },
                "communications_sent": {
                    "type": "integer"
                }
            }
        },
        "ProgramMetrics": {
            "type": "object",
            "properties": {
                "total_students": {
                    "type": "integer"
                },
                "active_students": {
                    "type": "integer"
                },
                "teachers": {
                    "type": "integer"
                },
                "classes": {
                    "type": "integer"
                },
                "average_pace": {
                    "type": "number",
                    "x-nullable": true
                },
                "attendance_rate": {
                    "type": "number",
                    "x-nullable": true
                },
                "students_on_track": {
                    "type": "number",
                    "x-nullable": true
                },
                "at_risk_students": {
                    "type": "integer"
                },
                "stagnant_students": {
                    "type": "integer"
                },
                "stagnant_share": {
                    "type": "number",
                    "x-nullable": true
                },
                "progress_entries": {
                    "type": "integer"
                },
                "revisions_completed": {
                    "type": "integer"
                },
                "communications": {
                    "type": "integer"
                },
                "unread_communications": {
                    "type": "integer"
                },
                "capacity_utilization": {
                    "type": "number",
                    "x-nullable": true
                },
                "retention_rate": {
                    "type": "number",
                    "x-nullable": true
                }
            }
        },
        "TimeRange": {
            "type": "object",
            "properties": {
                "from": {
                    "type": "string",
                    "format": "date-time"
                },
                "to": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "AnalyticsReport": {
            "type": "object",
            "properties": {
                "madrasah_id": {
                    "type": "string"
                },
                "range": {
                    "$ref": "#/definitions/TimeRange"
                },
                "degraded": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "students": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/StudentMetrics"
                    }
                },
                "classes": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/ClassMetrics"
                    }
                },
                "teachers": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/TeacherMetrics"
                    }
                },
                "program": {
                    "$ref": "#/definitions/ProgramMetrics"
                }
            }
        },
        "AnalyticsAlert": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "madrasah_id": {
                    "type": "string"
                },
                "type": {
                    "type": "string"
                },
                "severity": {
                    "type": "string",
                    "enum": [
                        "low",
                        "medium",
                        "high",
                        "critical"
                    ]
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "active",
                        "acknowledged",
                        "resolved"
                    ]
                },
                "threshold_value": {
                    "type": "number"
                },
                "current_value": {
                    "type": "number"
                },
                "entity_type": {
                    "type": "string"
                },
                "entity_id": {
                    "type": "string"
                },
                "affected_ids": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "message": {
                    "type": "string"
                },
                "range_from": {
                    "type": "string",
                    "format": "date-time"
                },
                "range_to": {
                    "type": "string",
                    "format": "date-time"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "acknowledged_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "resolved_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "UpdateAlertStatusRequest": {
            "type": "object",
            "required": [
                "status"
            ],
            "properties": {
                "status": {
                    "type": "string",
                    "enum": [
                        "acknowledged",
                        "resolved"
                    ]
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "meta": {
                    "type": "object"
                }
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
