package service

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	ugc = bluemonday.UGCPolicy()

	spaces = regexp.MustCompile(`\s+`)
)

func init() {
	ugc.AllowImages()
	ugc.AddTargetBlankToFullyQualifiedLinks(true)
	ugc.RequireNoReferrerOnLinks(true)
}

// Slugify lowercases and trims name and joins whitespace runs with a single hyphen.
func Slugify(name string) string {
	return spaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// resolveSlug prefers an explicit slug over one derived from name.
func resolveSlug(slug, name string) string {
	if s := strings.TrimSpace(slug); s != "" {
		return s
	}
	return Slugify(name)
}

// RenderHTML converts stored post content (markdown, possibly with inline HTML) into safe HTML.
// Content is stored as written; this is the only place it is sanitized.
func RenderHTML(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return ugc.Sanitize(src)
	}
	return string(ugc.SanitizeBytes(buf.Bytes()))
}
