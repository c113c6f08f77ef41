package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Skeduler API",
        "description": "Constraint-based department timetable generator",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/schedule/upload": {
            "post": {
                "summary": "Upload a department workbook and generate the weekly timetable",
                "responses": {
                    "200": {
                        "description": "Generated schedule"
                    }
                }
            }
        },
        "/api/v1/timetables": {
            "get": {
                "summary": "List stored timetables",
                "responses": {
                    "200": {
                        "description": "Timetable list"
                    }
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
