package handlers

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/russross/blackfriday/v2"
)

//go:embed content/*.md
var pageContent embed.FS

// pages maps a route slug to its markdown file and title
var pages = map[string]struct {
	file  string
	title string
}{
	"how-it-works": {file: "content/how-it-works.md", title: "How it works"},
	"pricing":      {file: "content/pricing.md", title: "Pricing"},
}

// PagesHandler renders the static marketing pages from markdown
type PagesHandler struct{}

func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

// Page returns a handler serving the page registered under slug
func (h *PagesHandler) Page(slug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, exists := pages[slug]
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
			return
		}

		content, err := pageContent.ReadFile(page.file)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
			return
		}

		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, h.wrapWithTheme(renderMarkdown(content), page.title))
	}
}

func renderMarkdown(content []byte) string {
	extensions := blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags,
	})
	return string(blackfriday.Run(content, blackfriday.WithRenderer(renderer), blackfriday.WithExtensions(extensions)))
}

// wrapWithTheme wraps the HTML content with the site styling
func (h *PagesHandler) wrapWithTheme(content, title string) string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>` + title + ` - Reddit Ideas</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            line-height: 1.6;
            color: #333;
            background: #f8fafc;
            padding: 20px;
        }
        .container { max-width: 880px; margin: 0 auto; }
        .content {
            background: white;
            padding: 3rem;
            border-radius: 16px;
            border: 1px solid #e5e7eb;
        }
        .content h1 { font-size: 2rem; margin-bottom: 1rem; color: #111827; }
        .content h2 { font-size: 1.4rem; margin: 2rem 0 0.75rem; color: #ff4500; }
        .content p, .content li { color: #374151; margin-bottom: 0.75rem; }
        .content ul, .content ol { padding-left: 2rem; margin-bottom: 1rem; }
        .content table { width: 100%; border-collapse: collapse; margin-bottom: 1.5rem; }
        .content th, .content td { border: 1px solid #d1d5db; padding: 0.6rem; text-align: left; }
        .content th { background: #f9fafb; }
        .content a { color: #ff4500; text-decoration: none; font-weight: 600; }
        .content a:hover { text-decoration: underline; }
        .back-to-home { margin-top: 2rem; text-align: center; }
        .back-to-home a { color: #6b7280; text-decoration: none; }
        @media (max-width: 768px) {
            .content { padding: 2rem 1.5rem; }
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="content">
            ` + content + `
        </div>
        <div class="back-to-home">
            <a href="/">Back to ideas</a>
        </div>
    </div>
</body>
</html>`
}
