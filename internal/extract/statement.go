// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/problem-explorer/pkg/types"
)

// Statement is a problem statement split into its parts.
type Statement struct {
	Description string
	Examples    []types.Example
	Constraints []string
}

// part tracks which section of the statement the parser is in.
type part int

const (
	partDescription part = iota
	partExamples
	partConstraints
	partFollowUp
)

var (
	exampleMarker    = regexp.MustCompile(`(?i)^example\s*\d*\s*:?$`)
	constraintMarker = regexp.MustCompile(`(?i)^constraints\s*:?$`)
	followUpMarker   = regexp.MustCompile(`(?i)^follow[\s-]?up\s*:?`)
	exampleField     = regexp.MustCompile(`(Input|Output|Explanation)\s*:`)
)

// ParseStatement splits the statement HTML fragment into description,
// examples and constraints. Sections are recognized by their marker
// paragraphs ("Example 1:", "Constraints:"); everything before the first
// marker is description, converted to Markdown. A follow-up note is appended
// to the description. A fragment with no description text fails with
// types.ErrParse.
func ParseStatement(fragment string) (*Statement, error) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: parsing statement: %v", types.ErrParse, err)
	}

	var (
		stmt     Statement
		desc     bytes.Buffer
		followUp bytes.Buffer
		current  = partDescription
		example  *types.Example
	)

	flushExample := func() {
		if example != nil && (example.Input != "" || example.Output != "") {
			stmt.Examples = append(stmt.Examples, *example)
		}
		example = nil
	}

	for _, n := range nodes {
		text := collapse(textOf(n))

		switch {
		case exampleMarker.MatchString(text):
			flushExample()
			example = &types.Example{}
			current = partExamples
			continue
		case constraintMarker.MatchString(text):
			flushExample()
			current = partConstraints
			continue
		case followUpMarker.MatchString(text) && current != partDescription:
			flushExample()
			current = partFollowUp
		}

		switch current {
		case partDescription:
			if isBlank(n, text) {
				continue
			}
			html.Render(&desc, n)

		case partExamples:
			if !exampleField.MatchString(text) {
				continue
			}
			if example == nil {
				example = &types.Example{}
			}
			fillExample(example, textOf(n))

		case partConstraints:
			if n.Type != html.ElementNode || (n.DataAtom != atom.Ul && n.DataAtom != atom.Ol) {
				continue
			}
			for li := n.FirstChild; li != nil; li = li.NextSibling {
				if li.Type == html.ElementNode && li.DataAtom == atom.Li {
					if c := collapse(textOf(li)); c != "" {
						stmt.Constraints = append(stmt.Constraints, c)
					}
				}
			}

		case partFollowUp:
			if isBlank(n, text) {
				continue
			}
			html.Render(&followUp, n)
		}
	}
	flushExample()

	description, err := toMarkdown(desc.String())
	if err != nil {
		return nil, err
	}
	if followUp.Len() > 0 {
		note, err := toMarkdown(followUp.String())
		if err != nil {
			return nil, err
		}
		description = strings.TrimSpace(description + "\n\n" + note)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: statement has no description", types.ErrParse)
	}
	stmt.Description = description
	return &stmt, nil
}

// fillExample splits an example block's text on its field labels. Values may
// span several lines; whitespace inside a value is collapsed.
func fillExample(ex *types.Example, text string) {
	locs := exampleField.FindAllStringSubmatchIndex(text, -1)
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		value := collapse(text[loc[1]:end])
		switch text[loc[2]:loc[3]] {
		case "Input":
			ex.Input = value
		case "Output":
			ex.Output = value
		case "Explanation":
			ex.Explanation = value
		}
	}
}

func toMarkdown(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}
	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("%w: converting description: %v", types.ErrParse, err)
	}
	return strings.TrimSpace(strings.ReplaceAll(md, "\u00a0", " ")), nil
}

// textOf returns the visible text under n. Superscripts are written as
// "^n" so that "10<sup>4</sup>" reads "10^4".
func textOf(n *html.Node) string {
	var b strings.Builder
	writeText(&b, n)
	return b.String()
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Img:
			return
		case atom.Br:
			b.WriteString("\n")
			return
		case atom.Sup:
			b.WriteString("^")
		case atom.P, atom.Div, atom.Li:
			defer b.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
}

// isBlank reports an element with no text and no image, such as the
// "<p>&nbsp;</p>" spacers between sections. Text nodes are never blank so
// that whitespace between inline elements survives.
func isBlank(n *html.Node, text string) bool {
	if n.Type != html.ElementNode || text != "" {
		return false
	}
	return findElement(n, func(c *html.Node) bool { return c.DataAtom == atom.Img }) == nil
}

// collapse trims s and reduces every whitespace run, including non-breaking
// spaces, to a single space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
