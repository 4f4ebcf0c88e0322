// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/bureau-foundation/answerview/lib/schema/answer"
)

var (
	htmlInstance goldmark.Markdown
	htmlOnce     sync.Once
)

func htmlMarkdown() goldmark.Markdown {
	htmlOnce.Do(func() {
		htmlInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM, SuperSub),
			goldmark.WithParserOptions(
				parser.WithASTTransformers(util.Prioritized(&linkAttributes{}, 100)),
			),
		)
	})
	return htmlInstance
}

// RenderHTML renders markdown source to an HTML fragment. Raw HTML in
// the source is omitted. External links get target="_blank" and
// rel="noopener noreferrer"; citation links get class="citation" and
// stay in the current page.
func RenderHTML(source string) (string, error) {
	var buffer bytes.Buffer
	if err := htmlMarkdown().Convert([]byte(source), &buffer); err != nil {
		return "", fmt.Errorf("rendering answer HTML: %w", err)
	}
	return buffer.String(), nil
}

// SafeLinkURL reports whether url may be written into an href. It
// applies the same policy goldmark uses for links in the answer body:
// javascript:, vbscript:, file: and non-image data: URLs are rejected.
// The scheme is compared case-insensitively after trimming whitespace
// and control characters, as browsers do.
func SafeLinkURL(url string) bool {
	trimmed := strings.TrimLeftFunc(url, func(character rune) bool {
		return character <= ' '
	})
	if trimmed == "" {
		return false
	}
	return !html.IsDangerousURL([]byte(strings.ToLower(trimmed)))
}

// linkAttributes annotates link nodes before HTML rendering.
type linkAttributes struct{}

func (t *linkAttributes) Transform(document *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch typed := node.(type) {
		case *ast.Link:
			if _, isCitation := answer.ParseCitationTarget(string(typed.Destination)); isCitation {
				typed.SetAttributeString("class", []byte("citation"))
				return ast.WalkContinue, nil
			}
			setExternal(typed)
		case *ast.AutoLink:
			setExternal(typed)
		}
		return ast.WalkContinue, nil
	})
}

func setExternal(node ast.Node) {
	node.SetAttributeString("target", []byte("_blank"))
	node.SetAttributeString("rel", []byte("noopener noreferrer"))
}
