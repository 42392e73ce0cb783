package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		replace map[string]string
		want    string
	}{
		{"simple", "<p>{{message}}</p>", map[string]string{"message": "hi"}, "<p>hi</p>"},
		{"case insensitive", "{{Message}} {{MESSAGE}}", map[string]string{"message": "x"}, "x x"},
		{"all occurrences", "{{a}}-{{a}}", map[string]string{"a": "1"}, "1-1"},
		{"unmatched untouched", "{{message}} {{other}}", map[string]string{"message": "x"}, "x {{other}}"},
		{"escaped", "{{message}}", map[string]string{"message": `<b>"x"</b>`}, "&lt;b&gt;&#34;x&#34;&lt;/b&gt;"},
		{"regexp metacharacters in tag", "{{a.b}} {{axb}}", map[string]string{"a.b": "1"}, "1 {{axb}}"},
		{"dollar in value", "{{message}}", map[string]string{"message": "$1"}, "$1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderTemplate(tt.content, tt.replace))
		})
	}
}

func TestSendPage(t *testing.T) {
	rec := httptest.NewRecorder()
	err := sendPage(rec, http.StatusOK, pageError, contentTypeHTML, map[string]string{"message": "Login timeout"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "<p>Login timeout</p>")
	assert.NotContains(t, rec.Body.String(), "{{message}}")
}

func TestSendPage_Missing(t *testing.T) {
	rec := httptest.NewRecorder()
	err := sendPage(rec, http.StatusOK, "missing.html", contentTypeHTML, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestEmbeddedPages(t *testing.T) {
	for _, name := range []string{pageAuth, pageLoggedIn, pageError, pageNotFound, assetStyle, assetFavicon} {
		content, err := loadPage(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, content, name)
	}
}
