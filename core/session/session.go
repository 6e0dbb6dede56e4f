// Package session owns the in-memory ordered paragraph list for one
// loaded document, plus the header/footer and auxiliary-part snapshot
// needed to rebuild it.
//
// A session is created by one successful load, mutated by zero or more
// reorders, and consumed by exactly one export. It is never ambient:
// callers hold the only reference, and independent sessions share no
// state.
package session

import (
	"github.com/google/uuid"

	"github.com/VinayArora404219/doc-flow-reorder/core/docpkg"
	"github.com/VinayArora404219/doc-flow-reorder/core/errors"
	"github.com/VinayArora404219/doc-flow-reorder/core/split"
)

// TextEditMode selects what SetText does with the paragraph markup.
// The source behavior (display-only) and the persistent rewrite are
// both supported; the caller must choose explicitly.
type TextEditMode int

const (
	// TextEditsDisplayOnly updates the display text projection only.
	// The markup, which is authoritative for export, is untouched, so
	// the edit does not survive an export.
	TextEditsDisplayOnly TextEditMode = iota
	// TextEditsRewriteMarkup splices the new text into the fragment's
	// original run structure so the edit survives export.
	TextEditsRewriteMarkup
)

// Config controls session behavior.
type Config struct {
	TextEdits TextEditMode
}

// Paragraph is one paragraph record. Markup is the exact byte fragment
// from the source document and is authoritative for export; DisplayText
// is a derived projection. The ID is opaque, unique within the session,
// and immutable once assigned.
type Paragraph struct {
	ID            string
	Markup        string
	DisplayText   string
	OriginalIndex int
}

// State tracks the session lifecycle.
type State int

const (
	// StateLoaded means the session holds a document and accepts
	// reorder, text, and export operations.
	StateLoaded State = iota
	// StateExported means the session has been consumed by a
	// successful export and accepts no further operations.
	StateExported
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateExported:
		return "exported"
	default:
		return "unknown"
	}
}

// Session is the mutable paragraph list plus the immutable snapshot of
// everything outside the paragraphs.
type Session struct {
	header     string
	footer     string
	paragraphs []Paragraph // current order
	byID       map[string]int

	styles       []byte
	documentRels []byte

	strategy    split.Strategy
	fingerprint string
	cfg         Config
	state       State
}

// New loads a session from an opened package. The split, ID assignment,
// and auxiliary-part snapshot all happen here; a failure leaves no
// session behind.
func New(pkg *docpkg.Package, cfg Config) (*Session, error) {
	doc, ok := pkg.Part(docpkg.PartDocument)
	if !ok {
		return nil, errors.NewPackage("load", docpkg.PartDocument, nil)
	}

	result, err := split.Split(doc)
	if err != nil {
		return nil, err
	}

	s := &Session{
		header:       result.Header,
		footer:       result.Footer,
		paragraphs:   make([]Paragraph, 0, len(result.Paragraphs)),
		byID:         make(map[string]int, len(result.Paragraphs)),
		styles:       pkg.PartOrEmpty(docpkg.PartStyles),
		documentRels: pkg.PartOrEmpty(docpkg.PartDocumentRels),
		strategy:     result.Strategy,
		fingerprint:  pkg.Fingerprint(),
		cfg:          cfg,
	}

	for i, frag := range result.Paragraphs {
		id := uuid.NewString()
		s.paragraphs = append(s.paragraphs, Paragraph{
			ID:            id,
			Markup:        frag.Markup,
			DisplayText:   frag.DisplayText,
			OriginalIndex: i,
		})
		s.byID[id] = i
	}

	return s, nil
}

// Reorder replaces the paragraph position list. ids must be a
// permutation of the current ID set; a missing, duplicate, or foreign
// ID fails with errors.ErrInvalidPermutation and leaves the order
// unchanged. Markup, display text, and identity are never touched.
func (s *Session) Reorder(ids []string) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	if len(ids) != len(s.paragraphs) {
		return errors.NewPermutation("", "length mismatch")
	}

	seen := make(map[string]bool, len(ids))
	reordered := make([]Paragraph, 0, len(ids))
	for _, id := range ids {
		pos, ok := s.byID[id]
		if !ok {
			return errors.NewPermutation(id, "foreign id")
		}
		if seen[id] {
			return errors.NewPermutation(id, "duplicate id")
		}
		seen[id] = true
		reordered = append(reordered, s.paragraphs[pos])
	}

	s.paragraphs = reordered
	for i, p := range s.paragraphs {
		s.byID[p.ID] = i
	}
	return nil
}

// SetText updates a paragraph's text. Under TextEditsDisplayOnly the
// markup is untouched and the edit is not persistent; under
// TextEditsRewriteMarkup the new text is spliced into the fragment's
// run structure. The paragraph's ID never changes.
func (s *Session) SetText(id, text string) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	pos, ok := s.byID[id]
	if !ok {
		return errors.NewUnknownID(id)
	}

	if s.cfg.TextEdits == TextEditsRewriteMarkup {
		markup, err := split.RewriteFragmentText(s.paragraphs[pos].Markup, text)
		if err != nil {
			return err
		}
		s.paragraphs[pos].Markup = markup
	}
	s.paragraphs[pos].DisplayText = text
	return nil
}

// Paragraphs returns a read-only snapshot of the paragraphs in their
// current order.
func (s *Session) Paragraphs() []Paragraph {
	out := make([]Paragraph, len(s.paragraphs))
	copy(out, s.paragraphs)
	return out
}

// ParagraphByID returns the paragraph with the given ID.
func (s *Session) ParagraphByID(id string) (Paragraph, error) {
	pos, ok := s.byID[id]
	if !ok {
		return Paragraph{}, errors.NewUnknownID(id)
	}
	return s.paragraphs[pos], nil
}

// IDs returns the paragraph IDs in current order.
func (s *Session) IDs() []string {
	ids := make([]string, len(s.paragraphs))
	for i, p := range s.paragraphs {
		ids[i] = p.ID
	}
	return ids
}

// Header returns the markup before the first paragraph fragment.
func (s *Session) Header() string { return s.header }

// Footer returns the markup after the last paragraph fragment.
func (s *Session) Footer() string { return s.footer }

// Styles returns the styles part snapshot; empty when the source
// package carried none.
func (s *Session) Styles() []byte { return s.styles }

// DocumentRels returns the document relationships part snapshot; empty
// when the source package carried none.
func (s *Session) DocumentRels() []byte { return s.documentRels }

// Strategy reports which split strategy loaded this session.
func (s *Session) Strategy() split.Strategy { return s.strategy }

// SourceFingerprint returns the BLAKE3 fingerprint of the source
// package bytes.
func (s *Session) SourceFingerprint() string { return s.fingerprint }

// State reports the session lifecycle state.
func (s *Session) State() State { return s.state }

// MarkExported consumes the session after a successful export. Further
// operations, including a second export, fail with errors.ErrNoSession.
func (s *Session) MarkExported() error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	s.state = StateExported
	return nil
}

func (s *Session) ensureLoaded() error {
	if s == nil {
		return errors.Wrap(errors.ErrNoSession, "no document loaded")
	}
	if s.state != StateLoaded {
		return errors.Wrapf(errors.ErrNoSession, "session already %s", s.state)
	}
	return nil
}
