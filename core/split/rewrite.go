package split

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/VinayArora404219/doc-flow-reorder/core/encoding"
)

// isTextRun reports whether an element name denotes a text-run payload.
func isTextRun(name xml.Name) bool {
	if name.Local != "t" {
		return false
	}
	return name.Space == wordNS || name.Space == "w" || name.Space == ""
}

// RewriteFragmentText splices newText into a paragraph fragment's
// original run structure: the first text run receives the whole new
// text and every following run is emptied, so run properties survive
// while the paragraph reads as the edited text. A fragment without
// usable text runs has its whole inner content replaced instead.
// Everything outside the replaced content ranges is preserved verbatim.
func RewriteFragmentText(markup, newText string) (string, error) {
	ranges, err := textRunRanges(markup)
	if err != nil {
		return "", fmt.Errorf("rewriting fragment text: %w", err)
	}

	escaped := encoding.EscapeXMLText(newText)

	if len(ranges) == 0 {
		inner, err := innerContentRange(markup)
		if err != nil {
			return "", fmt.Errorf("rewriting fragment text: %w", err)
		}
		return markup[:inner.start] + escaped + markup[inner.end:], nil
	}

	// Replace back to front so earlier offsets stay valid.
	out := markup
	for i := len(ranges) - 1; i >= 0; i-- {
		replacement := ""
		if i == 0 {
			replacement = escaped
		}
		out = out[:ranges[i].start] + replacement + out[ranges[i].end:]
	}
	return out, nil
}

// textRunRanges returns the content byte ranges of every non-self-closing
// text-run element in the fragment, in document order.
func textRunRanges(markup string) ([]span, error) {
	dec := xml.NewDecoder(bytes.NewReader([]byte(markup)))

	var ranges []span
	var open []int // content start offsets of currently open text runs
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
			if isTextRun(t.Name) {
				open = append(open, int(dec.InputOffset()))
			}
		case xml.EndElement:
			if isTextRun(t.Name) && len(open) > 0 {
				start := open[len(open)-1]
				open = open[:len(open)-1]
				if selfClosing(markup, start) {
					continue
				}
				ranges = append(ranges, span{start: start, end: offset})
			}
		}
	}
	return ranges, nil
}

// selfClosing reports whether the tag ending at contentStart was written
// as <tag/>, in which case there is no content position to splice into.
func selfClosing(markup string, contentStart int) bool {
	return contentStart >= 2 && markup[contentStart-2:contentStart] == "/>"
}

// innerContentRange returns the byte range between the fragment's root
// start tag and its end tag.
func innerContentRange(markup string) (span, error) {
	dec := xml.NewDecoder(bytes.NewReader([]byte(markup)))

	depth := 0
	inner := span{start: -1}
	for {
		offset := int(dec.InputOffset())
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return span{}, err
		}

		switch tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 && inner.start < 0 {
				inner.start = int(dec.InputOffset())
			}
		case xml.EndElement:
			depth--
			if depth == 0 {
				inner.end = offset
				return inner, nil
			}
		}
	}
	return span{}, fmt.Errorf("fragment has no root element")
}
