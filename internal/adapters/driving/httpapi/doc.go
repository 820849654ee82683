// Package httpapi exposes the RoPA services over a JSON HTTP API built on gin.
//
// Routes:
//
//	POST   /api/analyze               multipart field "datanya", one or more documents
//	POST   /api/brainstorming         {"question": "..."}
//	GET    /api/sessions              session summaries
//	POST   /api/sessions              create and activate a session
//	GET    /api/sessions/active       the active session
//	GET    /api/sessions/:id          one session
//	POST   /api/sessions/:id/activate switch the active session
//	DELETE /api/sessions/:id          delete a session
//	PUT    /api/cells                 {"fileName", "field", "value"} manual edit
//	GET    /api/table                 the flattened table
//	GET    /api/export?format=xlsx    download the table
//
// Every failure answers {"error": "..."} with a status derived from the
// domain error.
package httpapi
