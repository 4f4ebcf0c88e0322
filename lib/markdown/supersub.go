// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindSuperscript is the node kind of [Superscript].
var KindSuperscript = ast.NewNodeKind("Superscript")

// KindSubscript is the node kind of [Subscript].
var KindSubscript = ast.NewNodeKind("Subscript")

// Superscript is an inline node for ^text^.
type Superscript struct {
	ast.BaseInline
}

// Kind implements ast.Node.
func (node *Superscript) Kind() ast.NodeKind { return KindSuperscript }

// Dump implements ast.Node.
func (node *Superscript) Dump(source []byte, level int) {
	ast.DumpHelper(node, source, level, nil, nil)
}

// Subscript is an inline node for ~text~.
type Subscript struct {
	ast.BaseInline
}

// Kind implements ast.Node.
func (node *Subscript) Kind() ast.NodeKind { return KindSubscript }

// Dump implements ast.Node.
func (node *Subscript) Dump(source []byte, level int) {
	ast.DumpHelper(node, source, level, nil, nil)
}

// supersubParser recognizes ^text^ and ~text~ where text is non-empty
// and contains no whitespace. A doubled tilde is left for the
// strikethrough parser, which runs after this one.
type supersubParser struct{}

func (p *supersubParser) Trigger() []byte {
	return []byte{'^', '~'}
}

func (p *supersubParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, segment := block.PeekLine()
	if len(line) < 3 {
		return nil
	}
	delimiter := line[0]
	if line[1] == delimiter {
		return nil
	}

	closing := -1
	for index := 1; index < len(line); index++ {
		character := line[index]
		if character == delimiter {
			closing = index
			break
		}
		if character == ' ' || character == '\t' || character == '\n' || character == '\r' || character == '\\' {
			return nil
		}
	}
	if closing < 2 {
		return nil
	}

	var node ast.Node
	if delimiter == '^' {
		node = &Superscript{}
	} else {
		node = &Subscript{}
	}
	content := text.NewSegment(segment.Start+1, segment.Start+closing)
	node.AppendChild(node, ast.NewTextSegment(content))
	block.Advance(closing + 1)
	return node
}

// supersubHTMLRenderer writes <sup> and <sub> elements.
type supersubHTMLRenderer struct{}

func (r *supersubHTMLRenderer) RegisterFuncs(registerer renderer.NodeRendererFuncRegisterer) {
	registerer.Register(KindSuperscript, r.renderElement("sup"))
	registerer.Register(KindSubscript, r.renderElement("sub"))
}

func (r *supersubHTMLRenderer) renderElement(tag string) renderer.NodeRendererFunc {
	return func(writer util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			_, _ = writer.WriteString("<" + tag + ">")
		} else {
			_, _ = writer.WriteString("</" + tag + ">")
		}
		return ast.WalkContinue, nil
	}
}

// supersubExtension registers the parser and HTML renderer.
type supersubExtension struct{}

// SuperSub is a goldmark extension adding ^superscript^ and
// ~subscript~ inline syntax.
var SuperSub goldmark.Extender = &supersubExtension{}

// Extend implements goldmark.Extender. The parser priority sits ahead
// of strikethrough (500) so single-tilde spans become subscripts.
func (e *supersubExtension) Extend(markdown goldmark.Markdown) {
	markdown.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&supersubParser{}, 450),
	))
	markdown.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&supersubHTMLRenderer{}, 500),
	))
}
