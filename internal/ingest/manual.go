// Package ingest loads repair manual markdown into the corpus: parse
// frontmatter, split into section-scoped chunks, embed, store.
package ingest

import (
	"bufio"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManualMeta is the required frontmatter of every manual file.
type ManualMeta struct {
	ChargerModel string `yaml:"charger_model"`
	Component    string `yaml:"component"`
	Source       string `yaml:"source"`
}

// Section is a heading with its content. Path carries the full heading
// trail, e.g. "Troubleshooting > Coolant Loop".
type Section struct {
	Level   int
	Heading string
	Path    string
	Content string
}

// ManualDoc is a parsed manual file.
type ManualDoc struct {
	Meta     ManualMeta
	Sections []Section
}

// ParseManual parses a manual markdown file. Frontmatter is mandatory;
// a manual without charger_model cannot be scoped for retrieval.
func ParseManual(content string) (*ManualDoc, error) {
	if !strings.HasPrefix(content, "---\n") {
		return nil, fmt.Errorf("missing frontmatter")
	}
	endIdx := strings.Index(content[4:], "\n---")
	if endIdx < 0 {
		return nil, fmt.Errorf("unterminated frontmatter")
	}

	var meta ManualMeta
	if err := yaml.Unmarshal([]byte(content[4:4+endIdx]), &meta); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta.ChargerModel == "" {
		return nil, fmt.Errorf("frontmatter missing charger_model")
	}
	if meta.Source == "" {
		return nil, fmt.Errorf("frontmatter missing source")
	}

	body := strings.TrimPrefix(content[4+endIdx+4:], "\n")
	return &ManualDoc{
		Meta:     meta,
		Sections: parseSections(body),
	}, nil
}

// parseSections splits the body at headings, tracking the heading trail.
// Content before the first heading becomes a section with an empty path.
func parseSections(body string) []Section {
	var sections []Section
	var trail []string
	var levels []int

	current := Section{}
	var content strings.Builder

	flush := func() {
		current.Content = strings.TrimSpace(content.String())
		if current.Content != "" || current.Heading != "" {
			sections = append(sections, current)
		}
		content.Reset()
	}

	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		level, heading := parseHeading(line)
		if level == 0 {
			content.WriteString(line)
			content.WriteString("\n")
			continue
		}

		flush()
		for len(levels) > 0 && levels[len(levels)-1] >= level {
			trail = trail[:len(trail)-1]
			levels = levels[:len(levels)-1]
		}
		trail = append(trail, heading)
		levels = append(levels, level)

		current = Section{
			Level:   level,
			Heading: heading,
			Path:    strings.Join(trail, " > "),
		}
	}
	flush()

	return sections
}

// parseHeading returns the heading level and text, or 0 for non-headings.
func parseHeading(line string) (int, string) {
	if !strings.HasPrefix(line, "#") {
		return 0, ""
	}
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level > 6 || level >= len(line) || line[level] != ' ' {
		return 0, ""
	}
	return level, strings.TrimSpace(line[level:])
}
