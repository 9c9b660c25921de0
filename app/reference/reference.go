// Package reference serves the shipped reference content: duas and the
// names, authored as a sectioned markdown file in the data directory.
package reference

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/yuin/goldmark"
)

type Entry struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// LoadEntries parses a markdown file where every "## " heading starts one
// entry and the section body is rendered to HTML. Entry order follows the
// file.
func LoadEntries(filePath string) ([]Entry, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening reference file: %w", err)
	}
	defer file.Close()

	md := goldmark.New()
	var entries []Entry
	var currentTitle string
	var currentContent strings.Builder

	flush := func() {
		if currentTitle == "" || currentContent.Len() == 0 {
			return
		}
		var buf bytes.Buffer
		if err := md.Convert([]byte(currentContent.String()), &buf); err != nil {
			slog.Warn("failed to convert markdown section", "title", currentTitle, "err", err)
			return
		}
		entries = append(entries, Entry{Title: currentTitle, HTML: buf.String()})
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "## ") {
			flush()
			currentTitle = strings.TrimSpace(strings.TrimPrefix(line, "## "))
			currentContent.Reset()
		} else if currentTitle != "" {
			currentContent.WriteString(line)
			currentContent.WriteString("\n")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning reference file: %w", err)
	}
	flush()

	return entries, nil
}
