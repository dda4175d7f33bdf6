package http

import (
	"html/template"
	"net/http"

	"portfolio-access-backend/internal/logger"
)

// The approve/decline links arrive by email and are opened in a browser, so
// these endpoints answer with small self-contained HTML pages.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
  <head><title>{{.Title}}</title></head>
  <body style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
    <h1 style="color: {{.Color}};">{{.Heading}}</h1>
    {{range .Lines}}<p>{{.}}</p>
    {{end}}<p><small>You can close this window.</small></p>
  </body>
</html>
`))

type pageData struct {
	Title   string
	Color   string
	Heading string
	Lines   []template.HTML
}

func renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		logger.Error("Failed to render confirmation page", "error", err)
	}
}

func renderApprovedPage(w http.ResponseWriter, name, email string) {
	renderPage(w, http.StatusOK, pageData{
		Title:   "Request Approved",
		Color:   "#10b981",
		Heading: "✅ Request Approved",
		Lines: []template.HTML{
			template.HTML("Access has been granted to <strong>" + template.HTMLEscapeString(name) + "</strong> (" + template.HTMLEscapeString(email) + ")"),
			"Temporary password has been sent to the requester.",
		},
	})
}

func renderDeclinedPage(w http.ResponseWriter, name, email string) {
	renderPage(w, http.StatusOK, pageData{
		Title:   "Request Declined",
		Color:   "#ef4444",
		Heading: "❌ Request Declined",
		Lines: []template.HTML{
			template.HTML("Access has been denied to <strong>" + template.HTMLEscapeString(name) + "</strong> (" + template.HTMLEscapeString(email) + ")"),
			"Decline notification has been sent to the requester.",
		},
	})
}

func renderErrorPage(w http.ResponseWriter, message string) {
	renderPage(w, http.StatusOK, pageData{
		Title:   "Error",
		Color:   "#ef4444",
		Heading: "❌ Error",
		Lines:   []template.HTML{template.HTML(template.HTMLEscapeString(message))},
	})
}

func renderServerErrorPage(w http.ResponseWriter) {
	renderPage(w, http.StatusInternalServerError, pageData{
		Title:   "Error",
		Color:   "#ef4444",
		Heading: "❌ Server Error",
		Lines:   []template.HTML{"An error occurred while processing the request."},
	})
}
