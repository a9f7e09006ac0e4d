package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownPages(t *testing.T) {
	pagesHandler := NewPagesHandler()
	r := gin.New()
	r.GET("/how-it-works", pagesHandler.Page("how-it-works"))
	r.GET("/pricing", pagesHandler.Page("pricing"))
	r.GET("/missing", pagesHandler.Page("missing"))

	w, doc := getDocument(t, r, "/how-it-works", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "How it works", doc.Find(".content h1").Text())
	assert.Equal(t, 3, doc.Find(".content ol li").Length())
	assert.Equal(t, 6, doc.Find(".content table tr").Length())

	w, doc = getDocument(t, r, "/pricing", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, doc.Find(".content h2").Length())
	assert.Contains(t, doc.Find(".content h2").Eq(1).Text(), "$19")

	w, _ = getDocument(t, r, "/missing", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
