package corpus

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// Year range for the date attribute; dates outside it are omitted.
const minArticleYear = 2004

// Node types that carry no text of their own. Their children are still
// descended into.
var nonTextTypes = map[string]bool{
	"svt-image":        true,
	"svt-video":        true,
	"svt-scribblefeed": true,
}

// paragraphTag matches node types that open a new paragraph: p-tags and
// headings. Prefix match, so variants like "paragraph" also count.
var paragraphTag = regexp.MustCompile(`^(?:p|h\d)`)

// Transformer flattens article records into shallow, paragraph-oriented XML.
type Transformer struct {
	siteURL string
	now     func() time.Time
}

// NewTransformer creates a transformer that resolves relative article URLs
// against siteURL.
func NewTransformer(siteURL string) *Transformer {
	if siteURL == "" {
		siteURL = "https://www.svt.se"
	}
	return &Transformer{siteURL: siteURL, now: time.Now}
}

// Transform converts one article into its XML text representation: a single
// <text> element with article attributes, a title paragraph, and the
// flattened lead and body.
func (t *Transformer) Transform(article *Article) (string, error) {
	root := etree.NewElement("text")

	// Article date, omitted when the year is implausible.
	thisYear := t.now().Year()
	if article.Published != "" {
		if y := yearOf(article.Published); y >= minArticleYear && y <= thisYear {
			root.CreateAttr("date", article.Published)
		}
	} else if article.Modified != "" {
		if y := yearOf(article.Modified); y >= minArticleYear && y <= thisYear {
			root.CreateAttr("date", article.Modified)
		}
	}

	setAttr(root, "id", article.ID.String())
	setAttr(root, "section", article.SectionDisplayName)
	setAttr(root, "title", article.Title)
	setAttr(root, "subtitle", article.Subtitle)
	setAttr(root, "url", article.URL)
	url := strings.TrimSpace(article.URL)
	if url != "" && !strings.HasPrefix(url, "http") && !strings.HasPrefix(url, "www") {
		root.CreateAttr("url", t.siteURL+url)
	}
	if authors := pipeJoin(article.Authors, true); authors != "" {
		root.CreateAttr("authors", authors)
	}
	if tags := pipeJoin(article.Tags, false); tags != "" {
		root.CreateAttr("tags", tags)
	}

	// The title is always the first paragraph.
	title := root.CreateElement("p")
	title.SetText(strings.TrimSpace(article.Title))
	title.CreateAttr("type", "title")

	for _, node := range article.StructuredLead {
		lead := parseElement(node, root)
		lead.CreateAttr("type", "lead")
	}
	for _, node := range article.StructuredBody {
		parseElement(node, root)
	}

	pruneEmpty(root)

	doc := etree.NewDocument()
	doc.SetRoot(root)
	contents, err := doc.WriteToString()
	if err != nil {
		return "", err
	}
	// Non-breaking spaces become ordinary spaces.
	return strings.ReplaceAll(contents, " ", " "), nil
}

// parseElement flattens one structured node into parent and returns the
// element that received the node's deepest text. Text accumulates
// space-joined into the nearest paragraph ancestor and is never overwritten;
// paragraph-opening tags start a new <p> unless the container already is
// one. Recursion follows the first child chain.
func parseElement(node Node, parent *etree.Element) *etree.Element {
	container := parent
	if !nonTextTypes[node.Type] {
		if parent.Text() != "" {
			parent.SetText(parent.Text() + " " + node.Content)
		} else if strings.TrimSpace(node.Content) != "" {
			parent.SetText(node.Content)
		}
	}
	if node.HasChildren {
		if paragraphTag.MatchString(node.Type) && parent.Tag != "p" {
			container = parent.CreateElement("p")
		}
		for _, child := range node.Children {
			return parseElement(child, container)
		}
	}
	return parent
}

// pruneEmpty removes every descendant element that has no child nodes at
// all, no text included. Attributes do not keep an element alive.
func pruneEmpty(root *etree.Element) {
	var empty []*etree.Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, child := range el.ChildElements() {
			walk(child)
		}
		if el != root && len(el.Child) == 0 {
			empty = append(empty, el)
		}
	}
	walk(root)
	for _, el := range empty {
		if parent := el.Parent(); parent != nil {
			parent.RemoveChild(el)
		}
	}
}

func setAttr(el *etree.Element, name, value string) {
	if v := strings.TrimSpace(value); v != "" {
		el.CreateAttr(name, v)
	}
}

// pipeJoin renders a name list as |name1|name2|, optionally trimming each
// name. Empty lists render as "".
func pipeJoin(names []Name, trim bool) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		name := n.Name
		if trim {
			name = strings.TrimSpace(name)
		}
		parts = append(parts, name)
	}
	joined := strings.Join(parts, "|")
	if joined == "" {
		return ""
	}
	return "|" + joined + "|"
}

// yearOf parses the leading year of an API timestamp; 0 when absent.
func yearOf(timestamp string) int {
	if len(timestamp) < 4 {
		return 0
	}
	year, err := strconv.Atoi(timestamp[:4])
	if err != nil {
		return 0
	}
	return year
}
