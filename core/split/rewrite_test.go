package split

import (
	"strings"
	"testing"
)

func TestRewriteFragmentText(t *testing.T) {
	fragment := `<w:p><w:pPr><w:jc w:val="center"/></w:pPr>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t>Hello</w:t></w:r>` +
		`<w:r><w:t xml:space="preserve"> world</w:t></w:r></w:p>`

	got, err := RewriteFragmentText(fragment, "Edited & new")
	if err != nil {
		t.Fatalf("RewriteFragmentText failed: %v", err)
	}

	want := `<w:p><w:pPr><w:jc w:val="center"/></w:pPr>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t>Edited &amp; new</w:t></w:r>` +
		`<w:r><w:t xml:space="preserve"></w:t></w:r></w:p>`
	if got != want {
		t.Errorf("rewritten fragment:\ngot  %q\nwant %q", got, want)
	}
}

func TestRewriteFragmentText_PreservesRunStructure(t *testing.T) {
	fragment := `<w:p><w:r><w:t>a</w:t></w:r><w:r><w:t>b</w:t></w:r><w:r><w:t>c</w:t></w:r></w:p>`

	got, err := RewriteFragmentText(fragment, "xyz")
	if err != nil {
		t.Fatalf("RewriteFragmentText failed: %v", err)
	}

	if strings.Count(got, "<w:r>") != 3 {
		t.Errorf("all runs should survive the rewrite, got %q", got)
	}
	if !strings.Contains(got, "<w:t>xyz</w:t>") {
		t.Errorf("first run should carry the new text, got %q", got)
	}
	if strings.Contains(got, ">b<") || strings.Contains(got, ">c<") {
		t.Errorf("old text should be gone, got %q", got)
	}
}

func TestRewriteFragmentText_BareParagraph(t *testing.T) {
	got, err := RewriteFragmentText("<p>Alpha</p>", "Beta")
	if err != nil {
		t.Fatalf("RewriteFragmentText failed: %v", err)
	}
	if got != "<p>Beta</p>" {
		t.Errorf("got %q, want <p>Beta</p>", got)
	}
}

func TestRewriteFragmentText_SkipsSelfClosingRuns(t *testing.T) {
	fragment := `<w:p><w:r><w:t/></w:r><w:r><w:t>old</w:t></w:r></w:p>`

	got, err := RewriteFragmentText(fragment, "new")
	if err != nil {
		t.Fatalf("RewriteFragmentText failed: %v", err)
	}
	if !strings.Contains(got, "<w:t/>") {
		t.Errorf("self-closing run should stay untouched, got %q", got)
	}
	if !strings.Contains(got, "<w:t>new</w:t>") {
		t.Errorf("first spliceable run should carry the new text, got %q", got)
	}
}

func TestRewriteFragmentText_Malformed(t *testing.T) {
	if _, err := RewriteFragmentText("<w:p><unclosed", "text"); err == nil {
		t.Error("expected error for malformed fragment")
	}
}
