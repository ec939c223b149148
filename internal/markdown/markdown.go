// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markdown renders user-authored markdown into sanitized HTML.
//
// This is the single trust boundary between text typed by one user and HTML
// shown to another: everything an ad description contains passes through
// Render before it is persisted or displayed. The pipeline is goldmark
// followed by a strict bluemonday allowlist; raw HTML in the source is left
// intact by goldmark precisely so the sanitizer is the only filter.
package markdown

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

// converter turns markdown into HTML. Hard wraps mirror the classic
// newline-to-<br> behavior users expect from a textarea; the Table extension
// covers pipe tables.
var converter = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(
		ghtml.WithHardWraps(),
		ghtml.WithUnsafe(), // sanitizer below is the sole filter
	),
)

// sanitizer strips every tag and attribute outside the allowlist. Stripped
// markup is removed, not escaped and kept. URL schemes on links are limited
// to http, https, and mailto, which neutralizes javascript: hrefs.
var sanitizer = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "strong", "em", "u",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "a",
		"blockquote", "code", "pre", "hr",
		"table", "thead", "tbody", "tr", "th", "td",
	)
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("class").OnElements("code")

	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)

	return p
}

// Render converts markdown source to sanitized HTML. The empty string renders
// to the empty string. Render is deterministic and pure; a conversion failure
// degrades to the escaped plain text instead of failing the caller's save.
func Render(source string) string {
	if source == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := converter.Convert([]byte(source), &buf); err != nil {
		return "<p>" + html.EscapeString(source) + "</p>"
	}

	return strings.TrimSpace(sanitizer.Sanitize(buf.String()))
}
