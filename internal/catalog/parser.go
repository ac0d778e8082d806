package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Skip records one entry node that could not be extracted. Skips are
// diagnostics: the pipeline keeps going and returns whatever it could.
type Skip struct {
	Position int    `json:"position"`
	Reason   string `json:"reason"`
}

// fieldRule is one per-field fallback chain: the child element to read,
// a coercion applied to its text, and the default used when the lookup
// or the coercion fails. Defaults may derive from earlier fields, so
// rule order matters (description uses title and genre).
type fieldRule struct {
	child      string
	coerce     func(raw string) (string, bool)
	defaultFor func(vals map[string]string, id int) string
}

var bookRules = []fieldRule{
	{"title", asText, func(_ map[string]string, id int) string { return fmt.Sprintf("Book %d", id) }},
	{"author", asText, constant(DefaultAuthor)},
	{"genre", asGenre, constant(DefaultGenre)},
	{"price", asPrice, constant(DefaultPrice)},
	{"rating", asRating, constant(DefaultRating)},
	{"description", asText, templatedDescription},
	{"stock", asStock, constant(strconv.Itoa(DefaultStock))},
}

func constant(v string) func(map[string]string, int) string {
	return func(map[string]string, int) string { return v }
}

func templatedDescription(vals map[string]string, _ int) string {
	return fmt.Sprintf("%s is a captivating %s book.", vals["title"], strings.ToLower(vals["genre"]))
}

func asText(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	return s, s != ""
}

// asGenre decodes markup escapes so a genre like "Mystery &amp; Thriller"
// is stored in literal form even when the source double-escaped it.
func asGenre(raw string) (string, bool) {
	s := strings.TrimSpace(html.UnescapeString(raw))
	return s, s != ""
}

func asPrice(raw string) (string, bool)  { return asFixed(raw, 2) }
func asRating(raw string) (string, bool) { return asFixed(raw, 1) }

func asFixed(raw string, prec int) (string, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return "", false
	}
	return strconv.FormatFloat(v, 'f', prec, 64), true
}

func asStock(raw string) (string, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return "", false
	}
	return strconv.Itoa(v), true
}

// parseDocument builds a navigable tree from the repaired text. The
// parser is deliberately lenient: malformed markup yields a partial
// tree rather than an error, which is exactly what we want here.
func parseDocument(doc string) (*html.Node, error) {
	return html.Parse(strings.NewReader(doc))
}

// findBookNodes locates entry nodes. Entries directly under the document
// root are preferred; only when that search comes up empty do we fall
// back to scanning the whole tree for entries nested inside an enclosing
// collection node.
func findBookNodes(root *html.Node) []*html.Node {
	body := findElement(root, "body")
	if body == nil {
		body = root
	}

	var direct []*html.Node
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "book" {
			direct = append(direct, c)
		}
	}
	if len(direct) > 0 {
		return direct
	}

	var nested []*html.Node
	walk(body, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "book" {
			nested = append(nested, n)
		}
	})
	return nested
}

// extractBooks pulls one Book out of every entry node it can. A failure
// inside a single entry is recorded as a Skip and never aborts the rest.
func extractBooks(root *html.Node) ([]Book, []Skip) {
	nodes := findBookNodes(root)
	books := make([]Book, 0, len(nodes))
	var skips []Skip
	for i, n := range nodes {
		b, err := extractBook(n, i)
		if err != nil {
			skips = append(skips, Skip{Position: i, Reason: err.Error()})
			continue
		}
		books = append(books, b)
	}
	return books, skips
}

func extractBook(n *html.Node, pos int) (b Book, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("entry %d: %v", pos, r)
		}
	}()

	id := pos + 1
	if raw, ok := attrValue(n, "id"); ok {
		if v, convErr := strconv.Atoi(strings.TrimSpace(raw)); convErr == nil && v > 0 {
			id = v
		}
	}

	vals := make(map[string]string, len(bookRules))
	for _, rule := range bookRules {
		raw, found := childText(n, rule.child)
		if found {
			if v, ok := rule.coerce(raw); ok {
				vals[rule.child] = v
				continue
			}
		}
		vals[rule.child] = rule.defaultFor(vals, id)
	}

	stock, _ := strconv.Atoi(vals["stock"])
	return Book{
		ID:          id,
		Title:       vals["title"],
		Author:      vals["author"],
		Genre:       vals["genre"],
		Price:       vals["price"],
		Rating:      vals["rating"],
		Description: vals["description"],
		Stock:       stock,
	}, nil
}

// childText returns the text content of the first descendant element
// with the given name, mirroring getElementsByTagName(...)[0] semantics:
// when a field is declared twice, only the first occurrence is read.
func childText(n *html.Node, name string) (string, bool) {
	el := findElement(n, name)
	if el == nil {
		return "", false
	}
	var sb strings.Builder
	walk(el, func(t *html.Node) {
		if t.Type == html.TextNode {
			sb.WriteString(t.Data)
		}
	})
	return sb.String(), true
}

func attrValue(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if el := findElement(c, name); el != nil {
			return el
		}
	}
	return nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
