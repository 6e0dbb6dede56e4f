// Package split partitions raw document markup into a header prefix, an
// ordered list of paragraph fragments, and a footer suffix.
//
// Fragments are byte-verbatim slices of the input: concatenating
// Header + all fragment markup + Footer reproduces the original markup
// exactly. Content between two paragraph elements (bookmarks, proofing
// marks) rides with the preceding fragment so the reconstruction
// invariant holds even for documents with inter-paragraph material.
package split

import (
	"bytes"
	"encoding/xml"
	"io"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/VinayArora404219/doc-flow-reorder/core/errors"
)

// WordprocessingML main namespace.
const wordNS = "http://schemas.openxmlformats.org/officeDocument/2006/wordprocessingml/main"

// Strategy identifies how paragraph boundaries were located.
// Exactly one strategy is selected per split; the byte-preserving
// structural walk is canonical and the boundary search is only a
// fallback for markup the XML decoder rejects.
type Strategy int

const (
	// StrategyStructural locates paragraphs with a namespace-aware
	// token walk over the markup, slicing fragments out of the original
	// bytes.
	StrategyStructural Strategy = iota
	// StrategyBoundary locates paragraphs by literal tag boundary
	// search. Used only when structural decoding fails.
	StrategyBoundary
)

func (s Strategy) String() string {
	switch s {
	case StrategyStructural:
		return "structural"
	case StrategyBoundary:
		return "boundary"
	default:
		return "unknown"
	}
}

// Fragment is one paragraph element's exact markup plus its derived
// plain display text.
type Fragment struct {
	Markup      string
	DisplayText string
}

// Result is the outcome of a successful split.
type Result struct {
	Header     string
	Footer     string
	Paragraphs []Fragment
	Strategy   Strategy
}

// Split partitions document markup. Paragraphs whose trimmed display
// text is empty are dropped; their markup is not retrievable afterward.
// A split that structurally succeeds but leaves zero surviving
// paragraphs fails with errors.ErrNoParagraphsFound.
func Split(documentXML []byte) (*Result, error) {
	header, fragments, footer, strategy, err := partition(documentXML)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Header:   header,
		Footer:   footer,
		Strategy: strategy,
	}
	for _, markup := range fragments {
		text := strings.TrimSpace(displayText(markup))
		if text == "" {
			// Intentional data-loss boundary: fragments with no
			// text-run content (images, bare breaks) are dropped.
			continue
		}
		result.Paragraphs = append(result.Paragraphs, Fragment{
			Markup:      markup,
			DisplayText: text,
		})
	}

	if len(result.Paragraphs) == 0 {
		return nil, errors.NewSplit(strategy.String(), "no paragraphs with text content", nil)
	}

	return result, nil
}

// partition locates paragraph fragments without dropping any of them.
// Header + concat(fragments) + footer always equals the input.
func partition(data []byte) (header string, fragments []string, footer string, strategy Strategy, err error) {
	spans, serr := structuralSpans(data)
	if serr == nil && len(spans) > 0 {
		header, fragments, footer = slice(data, spans)
		return header, fragments, footer, StrategyStructural, nil
	}

	spans = boundarySpans(data)
	if len(spans) == 0 {
		return "", nil, "", StrategyBoundary,
			errors.NewSplit(StrategyBoundary.String(), "no paragraph markers in markup", serr)
	}
	header, fragments, footer = slice(data, spans)
	return header, fragments, footer, StrategyBoundary, nil
}

// span is a half-open byte range [start, end) within the source markup.
type span struct {
	start, end int
}

// slice cuts the source into header, gap-extended fragments, and footer.
func slice(data []byte, spans []span) (string, []string, string) {
	header := string(data[:spans[0].start])
	footer := string(data[spans[len(spans)-1].end:])

	fragments := make([]string, len(spans))
	for i, sp := range spans {
		end := sp.end
		if i < len(spans)-1 {
			// Attach the gap up to the next paragraph start.
			end = spans[i+1].start
		}
		fragments[i] = string(data[sp.start:end])
	}
	return header, fragments, footer
}

// isParagraph reports whether an element name denotes a paragraph.
// The namespace check accepts the resolved WordprocessingML URI, the
// conventional unbound "w" prefix, and no namespace at all.
func isParagraph(name xml.Name) bool {
	if name.Local != "p" {
		return false
	}
	return name.Space == wordNS || name.Space == "w" || name.Space == ""
}

// structuralSpans walks the markup token by token and records the byte
// range of every top-level paragraph element. Paragraph-like elements
// nested inside a paragraph (text boxes) do not open a new span.
func structuralSpans(data []byte) ([]span, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var spans []span
	depth := 0
	start := 0
	for {
		offset := int(dec.InputOffset())
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if isParagraph(t.Name) {
				if depth == 0 {
					start = offset
				}
				depth++
			}
		case xml.EndElement:
			if isParagraph(t.Name) {
				depth--
				if depth == 0 {
					spans = append(spans, span{start: start, end: int(dec.InputOffset())})
				}
				if depth < 0 {
					return nil, errors.NewSplit(StrategyStructural.String(), "unbalanced paragraph end tag", nil)
				}
			}
		}
	}

	if depth != 0 {
		return nil, errors.NewSplit(StrategyStructural.String(), "unclosed paragraph element", nil)
	}
	return spans, nil
}

// markerPairs are the literal tag boundaries tried by the fallback
// strategy, most specific first.
var markerPairs = []struct {
	start, end string
}{
	{"<w:p", "</w:p>"},
	{"<p", "</p>"},
}

// boundarySpans locates paragraph ranges by literal substring search.
// It is deliberately lenient: stray end tags are skipped rather than
// treated as fatal, since this path only runs on markup the XML
// decoder already rejected.
func boundarySpans(data []byte) []span {
	s := string(data)
	for _, pair := range markerPairs {
		if spans := scanMarkers(s, pair.start, pair.end); len(spans) > 0 {
			return spans
		}
	}
	return nil
}

func scanMarkers(s, startMarker, endMarker string) []span {
	var spans []span
	depth := 0
	fragStart := 0
	pos := 0
	for pos < len(s) {
		nextStart := indexStartTag(s, pos, startMarker)
		nextEnd := strings.Index(s[pos:], endMarker)
		if nextEnd >= 0 {
			nextEnd += pos
		}

		if nextStart < 0 && nextEnd < 0 {
			break
		}

		if nextStart >= 0 && (nextEnd < 0 || nextStart < nextEnd) {
			tagEnd := strings.IndexByte(s[nextStart:], '>')
			if tagEnd < 0 {
				break
			}
			tagEnd += nextStart
			if s[tagEnd-1] == '/' {
				// Self-closing paragraph.
				if depth == 0 {
					spans = append(spans, span{start: nextStart, end: tagEnd + 1})
				}
			} else {
				if depth == 0 {
					fragStart = nextStart
				}
				depth++
			}
			pos = tagEnd + 1
			continue
		}

		if depth > 0 {
			depth--
			if depth == 0 {
				spans = append(spans, span{start: fragStart, end: nextEnd + len(endMarker)})
			}
		}
		pos = nextEnd + len(endMarker)
	}
	return spans
}

// indexStartTag finds the next occurrence of marker at or after pos that
// is a complete tag name (not a prefix of a longer name like <w:pPr>).
func indexStartTag(s string, pos int, marker string) int {
	for pos < len(s) {
		idx := strings.Index(s[pos:], marker)
		if idx < 0 {
			return -1
		}
		idx += pos
		rest := idx + len(marker)
		if rest >= len(s) {
			return -1
		}
		switch s[rest] {
		case ' ', '\t', '\r', '\n', '>', '/':
			return idx
		}
		pos = rest
	}
	return -1
}

// textRunQuery matches text runs plus tab and break placeholders in
// document order, independent of namespace prefix binding.
const textRunQuery = "//*[local-name()='t' or local-name()='tab' or local-name()='br' or local-name()='cr']"

// displayText derives the plain text projection of one fragment: the
// concatenation of all text-run payloads in document order. A fragment
// with no text-run elements falls back to its whole inner text, which
// covers markup that carries paragraph text directly.
func displayText(markup string) string {
	doc, err := xmlquery.Parse(strings.NewReader(markup))
	if err != nil {
		return strippedText(markup)
	}

	nodes, err := xmlquery.QueryAll(doc, textRunQuery)
	if err != nil || len(nodes) == 0 {
		return doc.InnerText()
	}

	var sb strings.Builder
	sawRun := false
	for _, n := range nodes {
		switch n.Data {
		case "t":
			sb.WriteString(n.InnerText())
			sawRun = true
		case "tab":
			sb.WriteString("\t")
		case "br", "cr":
			sb.WriteString("\n")
		}
	}
	if !sawRun && strings.TrimSpace(sb.String()) == "" {
		return doc.InnerText()
	}
	return sb.String()
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// strippedText is the last-resort text projection for markup even the
// lenient parser cannot read: drop tags, unescape the basic entities.
func strippedText(markup string) string {
	text := tagPattern.ReplaceAllString(markup, "")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	text = strings.ReplaceAll(text, "&apos;", "'")
	text = strings.ReplaceAll(text, "&amp;", "&")
	return text
}
