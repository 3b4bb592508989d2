// Copyright 2025 Narada AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package extract turns uploaded files into plain text plus metadata.
// Plain text passes through untouched; markdown is parsed and reduced to its
// text content so formatting syntax never pollutes search indexes.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AishSoni/Narada-AI/core"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrUnsupportedFileType is returned for file extensions no extractor handles.
var ErrUnsupportedFileType = fmt.Errorf("unsupported file type")

// Supported reports whether the file name has an extractable extension.
func Supported(name string) bool {
	switch normalizedExt(name) {
	case ".txt", ".md", ".markdown":
		return true
	}
	return false
}

// FromFile extracts plain text content and metadata from an uploaded file.
func FromFile(name string, data []byte) (string, *core.DocumentMetadata, error) {
	ext := normalizedExt(name)

	var content string
	switch ext {
	case ".txt":
		content = string(data)
	case ".md", ".markdown":
		content = markdownText(data)
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}

	content = strings.TrimSpace(content)
	meta := &core.DocumentMetadata{
		WordCount: len(strings.Fields(content)),
		FileType:  strings.TrimPrefix(ext, "."),
	}
	return content, meta, nil
}

// markdownText parses markdown and walks the AST collecting text nodes, so
// headings, emphasis, and link syntax are dropped while their text survives.
func markdownText(source []byte) string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(source))
			}
		default:
			// Separate block-level nodes so adjacent paragraphs do not
			// run together.
			if n.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})

	return buf.String()
}

func normalizedExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
