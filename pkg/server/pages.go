package server

import (
	"embed"
	"fmt"
	"html"
	"net/http"
	"path"
	"regexp"
	"strconv"
)

//go:embed www
var www embed.FS

// Page files served by the listener.
const (
	pageAuth     = "auth.html"
	pageLoggedIn = "logged-in.html"
	pageError    = "error.html"
	pageNotFound = "404.html"
	assetStyle   = "style.css"
	assetFavicon = "favicon.ico"
)

const (
	contentTypeHTML = "text/html"
	contentTypeCSS  = "text/css"
	contentTypeIcon = "image/x-icon"
)

// loadPage reads a page from the embedded www directory.
func loadPage(name string) ([]byte, error) {
	content, err := www.ReadFile(path.Join("www", name))
	if err != nil {
		return nil, fmt.Errorf("failed to read page %s: %w", name, err)
	}
	return content, nil
}

// renderTemplate substitutes every {{tag}} placeholder (tag matched case-insensitively)
// with the HTML-escaped value. Placeholders without a value are left untouched.
func renderTemplate(content string, replace map[string]string) string {
	for tag, value := range replace {
		re := regexp.MustCompile(`(?i)\{\{` + regexp.QuoteMeta(tag) + `\}\}`)
		content = re.ReplaceAllLiteralString(content, html.EscapeString(value))
	}
	return content
}

// sendPage writes the named page with the given status and content type.
func sendPage(w http.ResponseWriter, status int, name, contentType string, replace map[string]string) error {
	content, err := loadPage(name)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}
	if len(replace) > 0 {
		content = []byte(renderTemplate(string(content), replace))
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err = w.Write(content)
	return err
}
