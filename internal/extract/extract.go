// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns fetched problem content into a ProblemRecord.
//
// Two inputs are understood: the public problem page, whose question data is
// embedded as JSON in the __NEXT_DATA__ script, and the GraphQL question
// payload. Either way the problem statement arrives as an HTML fragment that
// is split into description, examples and constraints.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/problem-explorer/pkg/types"
)

// nextDataID is the id of the script element carrying the page's data.
const nextDataID = "__NEXT_DATA__"

// question mirrors the site's question object.
type question struct {
	QuestionID   string        `json:"questionId"`
	Title        string        `json:"title"`
	TitleSlug    string        `json:"titleSlug"`
	Difficulty   string        `json:"difficulty"`
	Content      *string       `json:"content"`
	TopicTags    []topicTag    `json:"topicTags"`
	CodeSnippets []codeSnippet `json:"codeSnippets"`
}

type topicTag struct {
	Name string `json:"name"`
}

type codeSnippet struct {
	Lang     string `json:"lang"`
	LangSlug string `json:"langSlug"`
	Code     string `json:"code"`
}

type graphQLResponse struct {
	Data struct {
		Question *question `json:"question"`
	} `json:"data"`
}

// Extract parses page into a ProblemRecord. It fails with types.ErrParse
// when the expected structure is absent and types.ErrNotFound when the page
// states that the question does not exist. Extract has no side effects.
func Extract(page *types.Page) (*types.ProblemRecord, error) {
	if page == nil || strings.TrimSpace(page.Body) == "" {
		return nil, fmt.Errorf("%w: empty page", types.ErrParse)
	}

	var (
		q   *question
		err error
	)
	if page.Source == string(types.SourceGraphQL) || strings.HasPrefix(strings.TrimSpace(page.Body), "{") {
		q, err = questionFromGraphQL(page.Body)
	} else {
		q, err = questionFromPage(page.Body, page.Slug)
	}
	if err != nil {
		return nil, err
	}

	return buildRecord(q, page.Slug)
}

func questionFromGraphQL(body string) (*question, error) {
	var resp graphQLResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding GraphQL payload: %v", types.ErrParse, err)
	}
	if resp.Data.Question == nil {
		return nil, fmt.Errorf("%w: GraphQL payload has no question", types.ErrNotFound)
	}
	return resp.Data.Question, nil
}

// questionFromPage locates the __NEXT_DATA__ script and merges the question
// fragments its JSON carries for slug.
func questionFromPage(body, slug string) (*question, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing HTML: %v", types.ErrParse, err)
	}

	script := findElement(doc, func(n *html.Node) bool {
		return n.Data == "script" && attr(n, "id") == nextDataID
	})
	if script == nil || script.FirstChild == nil {
		return nil, fmt.Errorf("%w: page has no %s script", types.ErrParse, nextDataID)
	}

	var data any
	if err := json.Unmarshal([]byte(script.FirstChild.Data), &data); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", types.ErrParse, nextDataID, err)
	}

	var c collector
	c.walk(data, slug, "")
	if c.merged == nil {
		if c.sawNull {
			return nil, fmt.Errorf("%w: page reports no question for %q", types.ErrNotFound, slug)
		}
		return nil, fmt.Errorf("%w: no question data in %s", types.ErrParse, nextDataID)
	}
	if _, ok := c.merged["title"].(string); !ok {
		return nil, fmt.Errorf("%w: question data in %s has no title", types.ErrParse, nextDataID)
	}

	raw, err := json.Marshal(c.merged)
	if err != nil {
		return nil, fmt.Errorf("%w: re-encoding question: %v", types.ErrParse, err)
	}
	var q question
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("%w: decoding question: %v", types.ErrParse, err)
	}
	return &q, nil
}

// collector gathers the question fragments of one problem. The page splits
// a question across several queries (title, content, editor data, topic
// tags), each holding a partial "question" object.
type collector struct {
	merged  map[string]any
	sawNull bool
}

// walk visits decoded JSON depth-first. keySlug is the titleSlug named by
// the nearest enclosing queryKey, if any.
func (c *collector) walk(v any, slug, keySlug string) {
	switch t := v.(type) {
	case map[string]any:
		if k, ok := t["queryKey"]; ok {
			keySlug = slugInKey(k)
		}
		for k, child := range t {
			if k != "question" {
				c.walk(child, slug, keySlug)
				continue
			}
			switch q := child.(type) {
			case nil:
				c.sawNull = true
			case map[string]any:
				if belongsTo(q, slug, keySlug) {
					c.merge(q)
				}
			}
		}
	case []any:
		for _, child := range t {
			c.walk(child, slug, keySlug)
		}
	}
}

// merge copies fields of q not already set to a non-null value.
func (c *collector) merge(q map[string]any) {
	if c.merged == nil {
		c.merged = make(map[string]any, len(q))
	}
	for k, v := range q {
		if v == nil {
			continue
		}
		if _, ok := c.merged[k]; !ok {
			c.merged[k] = v
		}
	}
}

// belongsTo reports whether fragment q describes slug. The fragment's own
// titleSlug decides when present, otherwise the enclosing queryKey. An
// empty slug accepts every fragment.
func belongsTo(q map[string]any, slug, keySlug string) bool {
	if slug == "" {
		return true
	}
	if s, ok := q["titleSlug"].(string); ok {
		return s == slug
	}
	return keySlug == slug
}

// slugInKey returns the titleSlug variable of a query key such as
// ["questionContent", {"titleSlug": "two-sum"}].
func slugInKey(key any) string {
	parts, ok := key.([]any)
	if !ok {
		return ""
	}
	for _, p := range parts {
		if m, ok := p.(map[string]any); ok {
			if s, ok := m["titleSlug"].(string); ok {
				return s
			}
		}
	}
	return ""
}

func buildRecord(q *question, slug string) (*types.ProblemRecord, error) {
	title := strings.TrimSpace(q.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: question has no title", types.ErrParse)
	}
	difficulty, err := types.ParseDifficulty(q.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrParse, err)
	}
	if q.Content == nil || strings.TrimSpace(*q.Content) == "" {
		return nil, fmt.Errorf("%w: %q has no statement (premium-only problems are not public)", types.ErrParse, title)
	}

	stmt, err := ParseStatement(*q.Content)
	if err != nil {
		return nil, err
	}

	if q.TitleSlug != "" {
		slug = q.TitleSlug
	}
	rec := &types.ProblemRecord{
		Slug:        slug,
		ID:          q.QuestionID,
		Title:       title,
		Difficulty:  difficulty,
		Description: stmt.Description,
		Examples:    stmt.Examples,
		Constraints: stmt.Constraints,
	}
	for _, tag := range q.TopicTags {
		rec.Topics = append(rec.Topics, tag.Name)
	}
	for _, s := range q.CodeSnippets {
		rec.CodeSnippets = append(rec.CodeSnippets, types.CodeSnippet{Lang: s.Lang, LangSlug: s.LangSlug, Code: s.Code})
	}
	return rec, nil
}

// findElement returns the first element node in document order for which
// match reports true.
func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
