package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Placement Portal API",
        "description": "Student directory, skill and course lookups, profiles and recruiter shortlist exports.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Directory", "description": "Filterable student directory"},
        {"name": "Skills", "description": "Skill lookup and creation"},
        {"name": "Courses", "description": "Course lookup and creation"},
        {"name": "Profiles", "description": "Student profiles"},
        {"name": "Account", "description": "Signed-in account"},
        {"name": "Exports", "description": "Recruiter shortlist exports"}
    ],
    "paths": {
        "/students": {
            "get": {
                "tags": ["Directory"],
                "summary": "Filter the student directory",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "q", "in": "query", "type": "string", "description": "Matched against name, headline, skills and field"},
                    {"name": "skills", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "Skill display names; every one is required"},
                    {"name": "type", "in": "query", "type": "string", "enum": ["internship", "job"]},
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"},
                    {"name": "experience", "in": "query", "type": "string", "enum": ["0-6", "6-12", "12-24", "24+"]},
                    {"name": "field", "in": "query", "type": "string"},
                    {"name": "institution", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid criteria", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/all": {
            "get": {
                "tags": ["Directory"],
                "summary": "Every student profile with skills and courses resolved",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/fields": {
            "get": {
                "tags": ["Directory"],
                "summary": "Distinct preferred fields",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/profile": {
            "get": {
                "tags": ["Profiles"],
                "summary": "Public profile of a student",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "userId", "in": "query", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student": {
            "get": {
                "tags": ["Profiles"],
                "summary": "Current student's profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No profile yet", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Profiles"],
                "summary": "Create the current student's profile",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProfileRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Profile exists", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Profiles"],
                "summary": "Partially update the current student's profile",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProfileRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown skill or course ids", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/account": {
            "get": {
                "tags": ["Account"],
                "summary": "Current account",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "patch": {
                "tags": ["Account"],
                "summary": "Update account details or password",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateAccountRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email in use", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/skills": {
            "get": {
                "tags": ["Skills"],
                "summary": "List all skills",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Skills"],
                "summary": "Create a skill",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSkillRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate name", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Name has no letter or digit, or contains a comma", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/skills/search": {
            "get": {
                "tags": ["Skills"],
                "summary": "Search skills by name",
                "parameters": [{"name": "q", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/skills/{id}": {
            "get": {
                "tags": ["Skills"],
                "summary": "Get a skill",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses": {
            "post": {
                "tags": ["Courses"],
                "summary": "Create a course",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate name in category", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/search": {
            "get": {
                "tags": ["Courses"],
                "summary": "Search courses by name",
                "parameters": [{"name": "q", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Get a course",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a shortlist export of the filtered directory",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Recruiters and admins only", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export via signed token",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"name": "token", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/metrics": {
            "get": {
                "summary": "Runtime metrics snapshot",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "CreateSkillRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string", "maxLength": 64}}
        },
        "CreateCourseRequest": {
            "type": "object",
            "required": ["name", "category"],
            "properties": {
                "name": {"type": "string", "maxLength": 128},
                "category": {"type": "string", "enum": ["ug", "pg", "diploma", "phd"]}
            }
        },
        "LookingFor": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["internship", "job"]},
                "from_date": {"type": "string", "format": "date-time"},
                "to_date": {"type": "string", "format": "date-time"}
            }
        },
        "ProfileRequest": {
            "type": "object",
            "properties": {
                "headline": {"type": "string"},
                "about": {"type": "string"},
                "location": {"type": "string"},
                "preferred_field": {"type": "string"},
                "linkedin_url": {"type": "string", "format": "uri"},
                "github_url": {"type": "string", "format": "uri"},
                "resume_link": {"type": "string", "format": "uri"},
                "profile_image": {"type": "string", "format": "uri"},
                "skills": {"type": "array", "items": {"type": "string"}},
                "looking_for": {"$ref": "#/definitions/LookingFor"},
                "education": {"type": "array", "items": {"type": "object"}},
                "experience": {"type": "array", "items": {"type": "object"}},
                "projects": {"type": "array", "items": {"type": "object"}},
                "certificates": {"type": "array", "items": {"type": "object"}}
            }
        },
        "UpdateAccountRequest": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string", "format": "email"},
                "phone": {"type": "string"},
                "password": {"type": "string", "minLength": 6, "maxLength": 72}
            }
        },
        "FilterCriteria": {
            "type": "object",
            "properties": {
                "query": {"type": "string"},
                "skills": {"type": "array", "items": {"type": "string"}},
                "type": {"type": "string", "enum": ["internship", "job"]},
                "dateWindow": {"type": "object"},
                "experience": {"type": "string", "enum": ["0-6", "6-12", "12-24", "24+"]},
                "field": {"type": "string"},
                "institution": {"type": "string"}
            }
        },
        "ExportRequest": {
            "type": "object",
            "required": ["format"],
            "properties": {
                "criteria": {"$ref": "#/definitions/FilterCriteria"},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
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
