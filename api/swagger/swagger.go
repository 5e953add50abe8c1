package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SchoolHub API",
        "description": "Multi-tenant school management API: schools, classrooms, enrollment and student progress.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Signup, signin and session management"},
        {"name": "Schools", "description": "School registration and lookups"},
        {"name": "Classrooms", "description": "Classroom management and enrollment"},
        {"name": "Progress", "description": "Student progress ledger"},
        {"name": "Reports", "description": "Background grade-sheet exports"}
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
                    "200": {"description": "Ready"},
                    "503": {"description": "A backing store is unavailable"}
                }
            }
        },
        "/auth/signup": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a profile and start a session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignUpRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Validation failure or email taken", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/auth/signin": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and start a session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignInRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/authorization": {
            "get": {
                "tags": ["Auth"],
                "summary": "Resolve the current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "No active session", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Clear the session cookie",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/school/{profileId}/create": {
            "post": {
                "tags": ["Schools"],
                "summary": "Create a school and attach the head profile",
                "parameters": [
                    {"name": "profileId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSchoolRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/school/fetch-all": {
            "get": {
                "tags": ["Schools"],
                "summary": "List every school",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/fetch-school": {
            "get": {
                "tags": ["Schools"],
                "summary": "Fetch a school with classrooms and members",
                "parameters": [
                    {"name": "schoolId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/classrooms/create": {
            "post": {
                "tags": ["Classrooms"],
                "summary": "Create a classroom (head only)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassroomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "403": {"description": "Caller is not the school head", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/classrooms/get-classroom": {
            "get": {
                "tags": ["Classrooms"],
                "summary": "Fetch a classroom with teacher and roster",
                "parameters": [
                    {"name": "classroomId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/classrooms/get-students": {
            "get": {
                "tags": ["Classrooms"],
                "summary": "List the classroom roster",
                "parameters": [
                    {"name": "classroomId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/classrooms/add-student/{classroomId}": {
            "post": {
                "tags": ["Classrooms"],
                "summary": "Enroll a student in the classroom",
                "parameters": [
                    {"name": "classroomId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Student already enrolled here or elsewhere", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/classrooms/remove-student": {
            "delete": {
                "tags": ["Classrooms"],
                "summary": "Remove a student and their progress from the classroom",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UnenrollRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/progress/add": {
            "post": {
                "tags": ["Progress"],
                "summary": "Record a graded subject entry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddProgressRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/progress/edit": {
            "patch": {
                "tags": ["Progress"],
                "summary": "Partially update a progress entry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EditProgressRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "No fields provided", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Entry not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/progress/delete/{progressId}": {
            "delete": {
                "tags": ["Progress"],
                "summary": "Delete a progress entry",
                "parameters": [
                    {"name": "progressId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Entry not found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/get-students-of-same-school": {
            "get": {
                "tags": ["Schools"],
                "summary": "List student profiles in a school",
                "parameters": [
                    {"name": "schoolId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/get-student-full-detail": {
            "get": {
                "tags": ["Progress"],
                "summary": "List a student's progress joined with their profile",
                "parameters": [
                    {"name": "profileId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/fetch-profile": {
            "get": {
                "tags": ["Schools"],
                "summary": "Fetch a single profile",
                "parameters": [
                    {"name": "profileId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/fetch-teachers": {
            "get": {
                "tags": ["Schools"],
                "summary": "List teacher profiles in a school",
                "parameters": [
                    {"name": "schoolId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/reports/classroom-grades": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a classroom grade-sheet export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnqueueReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Fetch export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/reports/download": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a completed export with a signed token",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File bytes"},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "SignUpRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["head", "teacher", "student"]},
                "school_id": {"type": "string"},
                "profileUrl": {"type": "string"},
                "rollnumber": {"type": "string"}
            }
        },
        "SignInRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateSchoolRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "location": {"type": "string"},
                "phone": {"type": "string"},
                "logoUrl": {"type": "string"},
                "bannerUrl": {"type": "string"}
            }
        },
        "CreateClassroomRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "teacher_id": {"type": "string"}
            }
        },
        "EnrollRequest": {
            "type": "object",
            "required": ["student_id"],
            "properties": {
                "student_id": {"type": "string"}
            }
        },
        "UnenrollRequest": {
            "type": "object",
            "required": ["student_id", "classroom_id"],
            "properties": {
                "student_id": {"type": "string"},
                "classroom_id": {"type": "string"}
            }
        },
        "AddProgressRequest": {
            "type": "object",
            "required": ["student_id", "classroom_id", "subject", "score", "remarks"],
            "properties": {
                "student_id": {"type": "string"},
                "classroom_id": {"type": "string"},
                "subject": {"type": "string"},
                "score": {"type": "integer"},
                "remarks": {"type": "string"}
            }
        },
        "EditProgressRequest": {
            "type": "object",
            "required": ["id"],
            "properties": {
                "id": {"type": "string"},
                "subject": {"type": "string"},
                "score": {"type": "integer"},
                "remarks": {"type": "string"}
            }
        },
        "EnqueueReportRequest": {
            "type": "object",
            "required": ["classroom_id"],
            "properties": {
                "classroom_id": {"type": "string"},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {"type": "object"}
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
