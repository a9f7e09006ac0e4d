package digest

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags end a line in the plain-text rendering
var blockTags = map[string]bool{
	"p": true, "div": true, "h1": true, "h2": true, "h3": true,
	"br": true, "li": true, "tr": true,
}

// PlainText flattens an HTML email into readable text. Link targets are kept
// in parentheses after the link text.
func PlainText(htmlBody string) string {
	z := html.NewTokenizer(strings.NewReader(htmlBody))

	var out strings.Builder
	var line strings.Builder
	var hrefs []string
	skip := 0

	flush := func() {
		text := strings.Join(strings.Fields(line.String()), " ")
		line.Reset()
		if text == "" {
			return
		}
		out.WriteString(text)
		out.WriteString("\n")
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			flush()
			return strings.TrimSpace(out.String())

		case html.TextToken:
			if skip == 0 {
				line.WriteString(" ")
				line.Write(z.Text())
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			switch {
			case tag == "style" || tag == "script" || tag == "title":
				if tt == html.StartTagToken {
					skip++
				}
			case tag == "a":
				href := ""
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					if string(key) == "href" {
						href = string(val)
					}
				}
				hrefs = append(hrefs, href)
			case blockTags[tag]:
				flush()
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case tag == "style" || tag == "script" || tag == "title":
				if skip > 0 {
					skip--
				}
			case tag == "a":
				if n := len(hrefs); n > 0 {
					if href := hrefs[n-1]; href != "" {
						line.WriteString(" (" + href + ")")
					}
					hrefs = hrefs[:n-1]
				}
			case blockTags[tag]:
				flush()
			}
		}
	}
}
