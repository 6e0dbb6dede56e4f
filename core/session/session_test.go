package session

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/VinayArora404219/doc-flow-reorder/core/docpkg"
	coreerrors "github.com/VinayArora404219/doc-flow-reorder/core/errors"
	"github.com/VinayArora404219/doc-flow-reorder/core/split"
)

const testDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/officeDocument/2006/wordprocessingml/main"><w:body>` +
	`<w:p><w:r><w:t>Alpha</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Beta</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t xml:space="preserve">   </w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Gamma</w:t></w:r></w:p>` +
	`</w:body></w:document>`

// buildPackage zips the given document part (plus optional extras) into
// an in-memory docx archive and opens it.
func buildPackage(t *testing.T, document string, extra map[string]string) *docpkg.Package {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := map[string]string{docpkg.PartDocument: document}
	for name, content := range extra {
		parts[name] = content
	}
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}

	pkg, err := docpkg.Open(buf.Bytes())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return pkg
}

func loadSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	s, err := New(buildPackage(t, testDocument, nil), cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	s := loadSession(t, Config{})

	paras := s.Paragraphs()
	if len(paras) != 3 {
		t.Fatalf("got %d paragraphs, want 3 (whitespace-only dropped)", len(paras))
	}

	wantTexts := []string{"Alpha", "Beta", "Gamma"}
	seen := make(map[string]bool)
	for i, p := range paras {
		if p.DisplayText != wantTexts[i] {
			t.Errorf("paragraph %d text = %q, want %q", i, p.DisplayText, wantTexts[i])
		}
		if p.OriginalIndex != i {
			t.Errorf("paragraph %d original index = %d, want %d", i, p.OriginalIndex, i)
		}
		if p.ID == "" {
			t.Error("paragraph ID should not be empty")
		}
		if seen[p.ID] {
			t.Errorf("duplicate paragraph ID %s", p.ID)
		}
		seen[p.ID] = true
	}

	if s.Strategy() != split.StrategyStructural {
		t.Errorf("Strategy = %v, want structural", s.Strategy())
	}
	if s.SourceFingerprint() == "" {
		t.Error("source fingerprint should be recorded")
	}
	if s.State() != StateLoaded {
		t.Errorf("State = %v, want loaded", s.State())
	}
}

func TestNew_AuxiliaryParts(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		pkg := buildPackage(t, testDocument, map[string]string{
			docpkg.PartStyles:       "<w:styles>custom</w:styles>",
			docpkg.PartDocumentRels: "<Relationships>custom</Relationships>",
		})
		s, err := New(pkg, Config{})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if !strings.Contains(string(s.Styles()), "custom") {
			t.Error("styles snapshot should carry the source part")
		}
		if !strings.Contains(string(s.DocumentRels()), "custom") {
			t.Error("rels snapshot should carry the source part")
		}
	})

	t.Run("absent is tolerated as empty", func(t *testing.T) {
		s := loadSession(t, Config{})
		if len(s.Styles()) != 0 {
			t.Errorf("Styles = %q, want empty", s.Styles())
		}
		if len(s.DocumentRels()) != 0 {
			t.Errorf("DocumentRels = %q, want empty", s.DocumentRels())
		}
	})
}

func TestNew_NoParagraphs(t *testing.T) {
	doc := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/officeDocument/2006/wordprocessingml/main"><w:body></w:body></w:document>`
	_, err := New(buildPackage(t, doc, nil), Config{})
	if err == nil {
		t.Fatal("expected error for document without paragraphs")
	}
	if !errors.Is(err, coreerrors.ErrNoParagraphsFound) {
		t.Errorf("error = %v, want ErrNoParagraphsFound", err)
	}
}

func TestReorder(t *testing.T) {
	s := loadSession(t, Config{})
	before := s.Paragraphs()

	ids := s.IDs()
	// Move the last paragraph to the front.
	if err := s.Reorder([]string{ids[2], ids[0], ids[1]}); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	after := s.Paragraphs()
	wantTexts := []string{"Gamma", "Alpha", "Beta"}
	for i, p := range after {
		if p.DisplayText != wantTexts[i] {
			t.Errorf("position %d text = %q, want %q", i, p.DisplayText, wantTexts[i])
		}
	}

	// Identity stability: ids, markup, display text unchanged per paragraph.
	byID := make(map[string]Paragraph)
	for _, p := range before {
		byID[p.ID] = p
	}
	for _, p := range after {
		orig, ok := byID[p.ID]
		if !ok {
			t.Fatalf("paragraph ID %s changed during reorder", p.ID)
		}
		if p.Markup != orig.Markup || p.DisplayText != orig.DisplayText {
			t.Errorf("paragraph %s content changed during reorder", p.ID)
		}
		if p.OriginalIndex != orig.OriginalIndex {
			t.Errorf("paragraph %s original index changed during reorder", p.ID)
		}
	}
}

func TestReorder_Invalid(t *testing.T) {
	s := loadSession(t, Config{})
	ids := s.IDs()

	tests := []struct {
		name  string
		order []string
	}{
		{"too short", []string{ids[0], ids[1]}},
		{"too long", append(append([]string{}, ids...), ids[0])},
		{"duplicate id", []string{ids[0], ids[0], ids[2]}},
		{"foreign id", []string{ids[0], ids[1], "not-a-real-id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Reorder(tt.order)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, coreerrors.ErrInvalidPermutation) {
				t.Errorf("error = %v, want ErrInvalidPermutation", err)
			}

			// Failed reorder leaves the order unchanged.
			after := s.IDs()
			for i := range ids {
				if after[i] != ids[i] {
					t.Fatal("failed reorder must not mutate the session")
				}
			}
		})
	}
}

func TestSetText_DisplayOnly(t *testing.T) {
	s := loadSession(t, Config{TextEdits: TextEditsDisplayOnly})
	ids := s.IDs()
	before, _ := s.ParagraphByID(ids[0])

	if err := s.SetText(ids[0], "Edited"); err != nil {
		t.Fatalf("SetText failed: %v", err)
	}

	after, _ := s.ParagraphByID(ids[0])
	if after.DisplayText != "Edited" {
		t.Errorf("DisplayText = %q, want Edited", after.DisplayText)
	}
	if after.Markup != before.Markup {
		t.Error("display-only edit must not touch markup")
	}
	if after.ID != before.ID {
		t.Error("SetText must not change the paragraph ID")
	}
}

func TestSetText_RewriteMarkup(t *testing.T) {
	s := loadSession(t, Config{TextEdits: TextEditsRewriteMarkup})
	ids := s.IDs()

	if err := s.SetText(ids[1], "Rewritten & saved"); err != nil {
		t.Fatalf("SetText failed: %v", err)
	}

	p, _ := s.ParagraphByID(ids[1])
	if p.DisplayText != "Rewritten & saved" {
		t.Errorf("DisplayText = %q, want the new text", p.DisplayText)
	}
	if !strings.Contains(p.Markup, "Rewritten &amp; saved") {
		t.Errorf("Markup = %q, want spliced (escaped) text", p.Markup)
	}
	if strings.Contains(p.Markup, "Beta") {
		t.Errorf("Markup = %q, old text should be gone", p.Markup)
	}
}

func TestSetText_UnknownID(t *testing.T) {
	s := loadSession(t, Config{})
	err := s.SetText("missing-id", "text")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, coreerrors.ErrUnknownID) {
		t.Errorf("error = %v, want ErrUnknownID", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := loadSession(t, Config{})

	if err := s.MarkExported(); err != nil {
		t.Fatalf("MarkExported failed: %v", err)
	}
	if s.State() != StateExported {
		t.Errorf("State = %v, want exported", s.State())
	}

	if err := s.Reorder(s.IDs()); !errors.Is(err, coreerrors.ErrNoSession) {
		t.Errorf("Reorder on exported session = %v, want ErrNoSession", err)
	}
	if err := s.SetText("any", "text"); !errors.Is(err, coreerrors.ErrNoSession) {
		t.Errorf("SetText on exported session = %v, want ErrNoSession", err)
	}
	if err := s.MarkExported(); !errors.Is(err, coreerrors.ErrNoSession) {
		t.Errorf("second MarkExported = %v, want ErrNoSession", err)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	a := loadSession(t, Config{})
	b := loadSession(t, Config{})

	ids := a.IDs()
	if err := a.Reorder([]string{ids[2], ids[1], ids[0]}); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	if b.Paragraphs()[0].DisplayText != "Alpha" {
		t.Error("reordering one session must not affect another")
	}

	// IDs are assigned per load, never shared across sessions.
	if err := b.Reorder(a.IDs()); !errors.Is(err, coreerrors.ErrInvalidPermutation) {
		t.Error("foreign session IDs should be rejected")
	}
}
