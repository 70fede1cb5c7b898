package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stockpitch/pkg/core/utils"
)

// SlideExporter renders a pitch deck to some output format and returns the
// path it wrote.
type SlideExporter interface {
	Export(pitch Pitch, narrative string) (string, error)
}

// MarkdownExporter writes the deck as a markdown file under OutputDir.
type MarkdownExporter struct {
	OutputDir string
}

var _ SlideExporter = (*MarkdownExporter)(nil)

func (e *MarkdownExporter) Export(pitch Pitch, narrative string) (string, error) {
	path := e.outputPath(pitch, "md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(RenderMarkdown(pitch, narrative)), 0o644); err != nil {
		return "", fmt.Errorf("writing pitch: %w", err)
	}
	return path, nil
}

func (e *MarkdownExporter) outputPath(pitch Pitch, ext string) string {
	name := fmt.Sprintf("%s_stock_pitch_%s.%s",
		pitch.Symbol, pitch.GeneratedAt.Format("20060102_150405"), ext)
	return filepath.Join(e.OutputDir, name)
}

// HTMLExporter writes the deck as a standalone HTML file under OutputDir.
type HTMLExporter struct {
	OutputDir string
}

var _ SlideExporter = (*HTMLExporter)(nil)

func (e *HTMLExporter) Export(pitch Pitch, narrative string) (string, error) {
	html, err := utils.RenderHTML(RenderMarkdown(pitch, narrative))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", pitch.Title)
	b.WriteString("</head>\n<body>\n")
	b.WriteString(html)
	b.WriteString("</body>\n</html>\n")

	name := fmt.Sprintf("%s_stock_pitch_%s.html",
		pitch.Symbol, pitch.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(e.OutputDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing pitch: %w", err)
	}
	return path, nil
}

// RenderMarkdown lays the deck out as a markdown document, one section per
// slide, with the narrative appended as an appendix.
func RenderMarkdown(pitch Pitch, narrative string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", pitch.Title)
	for _, line := range strings.Split(pitch.Subtitle, "\n") {
		fmt.Fprintf(&b, "*%s*\n", line)
	}
	b.WriteString("\n")

	for _, slide := range pitch.Slides {
		fmt.Fprintf(&b, "## %s\n\n", slide.Title)
		for _, line := range slide.Body {
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "  - ") {
				fmt.Fprintf(&b, "  %s\n", strings.TrimPrefix(line, "  "))
			} else {
				fmt.Fprintf(&b, "- %s\n", line)
			}
		}
		b.WriteString("\n")
	}

	if narrative != "" {
		b.WriteString("---\n\n## Appendix: Full Analysis\n\n")
		b.WriteString(utils.CleanMarkdown(narrative))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n*Generated %s*\n", pitch.GeneratedAt.Format(time.RFC1123))
	return b.String()
}
