// Package assemble reconstructs a complete output package from a loaded
// session: the main document part from header + current paragraph order
// + footer, the styles and relationships parts carried through from the
// source, and fixed templates for every remaining mandatory part.
package assemble

import (
	"fmt"
	"strings"
	"time"

	"github.com/VinayArora404219/doc-flow-reorder/core/docpkg"
	"github.com/VinayArora404219/doc-flow-reorder/core/errors"
	"github.com/VinayArora404219/doc-flow-reorder/core/session"
)

// w3cdtf is the timestamp layout required by core document properties.
const w3cdtf = "2006-01-02T15:04:05Z"

// Assemble builds the full part mapping for the session's document in
// its current paragraph order. The result contains exactly the
// mandatory part set; an incomplete set is never returned. Fails with
// errors.ErrNoSession when called without a loaded session.
func Assemble(s *session.Session) (map[string][]byte, error) {
	if s == nil {
		return nil, errors.Wrap(errors.ErrNoSession, "assemble")
	}
	if s.State() != session.StateLoaded {
		return nil, errors.Wrapf(errors.ErrNoSession, "assemble: session already %s", s.State())
	}

	now := time.Now().UTC().Format(w3cdtf)

	parts := map[string][]byte{
		docpkg.PartContentTypes: []byte(contentTypesXML),
		docpkg.PartPackageRels:  []byte(packageRelsXML),
		docpkg.PartDocument:     []byte(documentXML(s)),
		docpkg.PartStyles:       stylesPart(s),
		docpkg.PartDocumentRels: documentRelsPart(s),
		docpkg.PartFontTable:    []byte(fontTableXML),
		docpkg.PartSettings:     []byte(settingsXML),
		docpkg.PartWebSettings:  []byte(webSettingsXML),
		docpkg.PartAppProps:     []byte(appPropsXML),
		docpkg.PartCoreProps:    []byte(fmt.Sprintf(corePropsXML, now, now)),
	}

	return parts, nil
}

// AssembleBytes assembles the session and writes the output archive.
// The session is marked exported only after the write succeeds, so a
// failed export leaves it loaded and retryable.
func AssembleBytes(s *session.Session) ([]byte, error) {
	parts, err := Assemble(s)
	if err != nil {
		return nil, err
	}

	data, err := docpkg.Write(parts)
	if err != nil {
		return nil, err
	}

	if err := s.MarkExported(); err != nil {
		return nil, err
	}
	return data, nil
}

// documentXML rebuilds the main document part: header markup, each
// paragraph fragment verbatim in current order, footer markup.
func documentXML(s *session.Session) string {
	var sb strings.Builder
	sb.WriteString(s.Header())
	for _, p := range s.Paragraphs() {
		sb.WriteString(p.Markup)
	}
	sb.WriteString(s.Footer())
	return sb.String()
}

// stylesPart carries the source styles through unchanged, falling back
// to the fixed template when the source had none.
func stylesPart(s *session.Session) []byte {
	if styles := s.Styles(); len(styles) > 0 {
		return styles
	}
	return []byte(defaultStylesXML)
}

// documentRelsPart carries the source document relationships through
// unchanged, falling back to the fixed template when the source had none.
func documentRelsPart(s *session.Session) []byte {
	if rels := s.DocumentRels(); len(rels) > 0 {
		return rels
	}
	return []byte(defaultDocumentRelsXML)
}
