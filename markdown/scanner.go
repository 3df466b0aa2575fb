// Package markdown finds diagram code blocks in Markdown documents, so a
// mind map can be read from a README or written back into one.
package markdown

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// DiagramBlock represents a diagram code block found in markdown
type DiagramBlock struct {
	Type        string // mermaid, dot or graphviz
	Content     string // The diagram content without the fence indentation
	StartLine   int    // Line of the opening fence (0-based)
	EndLine     int    // Line of the closing fence
	Indent      string // Indentation before the code fence
	ContentHash string // SHA256 of Content, checked before replacing
}

// Scanner finds and extracts diagram blocks from markdown content
type Scanner struct {
	lines []string
}

// NewScanner creates a new markdown scanner
func NewScanner(content string) *Scanner {
	return &Scanner{lines: strings.Split(content, "\n")}
}

// FindDiagramBlocks returns every closed diagram block in document order.
func (s *Scanner) FindDiagramBlocks() []DiagramBlock {
	var (
		blocks []DiagramBlock
		cur    *DiagramBlock
		body   []string
	)
	for i, line := range s.lines {
		trimmed := strings.TrimLeft(line, " \t")
		if cur == nil {
			if !strings.HasPrefix(trimmed, "```") {
				continue
			}
			lang := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, "```")))
			if IsDiagramLanguage(lang) {
				cur = &DiagramBlock{Type: lang, StartLine: i, Indent: line[:len(line)-len(trimmed)]}
				body = body[:0]
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") {
			cur.EndLine = i
			cur.Content = strings.Join(body, "\n")
			cur.ContentHash = hashOf(cur.Content)
			blocks = append(blocks, *cur)
			cur = nil
			continue
		}
		body = append(body, strings.TrimPrefix(line, cur.Indent))
	}
	return blocks
}

// ReplaceBlock returns the document with the body of block replaced by
// content. It refuses when the fences moved or the body no longer matches
// what was scanned.
func (s *Scanner) ReplaceBlock(block DiagramBlock, content string) (string, error) {
	if block.StartLine < 0 || block.EndLine >= len(s.lines) || block.StartLine >= block.EndLine {
		return "", fmt.Errorf("invalid block boundaries: start=%d, end=%d, total lines=%d",
			block.StartLine, block.EndLine, len(s.lines))
	}
	if start := strings.TrimLeft(s.lines[block.StartLine], " \t"); !strings.HasPrefix(strings.ToLower(start), "```"+block.Type) {
		return "", fmt.Errorf("block start marker has changed at line %d: expected '```%s', found '%s'",
			block.StartLine+1, block.Type, start)
	}
	if end := strings.TrimLeft(s.lines[block.EndLine], " \t"); !strings.HasPrefix(end, "```") {
		return "", fmt.Errorf("block end marker has changed at line %d: expected '```', found '%s'",
			block.EndLine+1, end)
	}

	current := make([]string, 0, block.EndLine-block.StartLine-1)
	for _, line := range s.lines[block.StartLine+1 : block.EndLine] {
		current = append(current, strings.TrimPrefix(line, block.Indent))
	}
	if hashOf(strings.Join(current, "\n")) != block.ContentHash {
		return "", fmt.Errorf("block content has been modified externally (hash mismatch)")
	}

	out := make([]string, 0, len(s.lines))
	out = append(out, s.lines[:block.StartLine+1]...)
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		if line == "" {
			out = append(out, "")
			continue
		}
		out = append(out, block.Indent+line)
	}
	out = append(out, s.lines[block.EndLine:]...)
	return strings.Join(out, "\n"), nil
}

// IsDiagramLanguage reports whether a fence language holds a diagram the
// importers understand.
func IsDiagramLanguage(lang string) bool {
	switch strings.ToLower(lang) {
	case "mermaid", "graphviz", "dot":
		return true
	default:
		return false
	}
}

// FormatBlockInfo returns a human-readable description of a block
func FormatBlockInfo(block DiagramBlock, index int) string {
	preview := ""
	for _, line := range strings.Split(block.Content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			preview = trimmed
			if r := []rune(preview); len(r) > 50 {
				preview = string(r[:47]) + "..."
			}
			break
		}
	}
	return fmt.Sprintf("%d. %s (line %d): %s", index+1, block.Type, block.StartLine+1, preview)
}

func hashOf(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
