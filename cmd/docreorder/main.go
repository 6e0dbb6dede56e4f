// Command docreorder edits the paragraph order of word-processing
// documents. It loads a .docx package, exposes its paragraphs as an
// ordered list, and re-emits a package with the paragraphs permuted
// while everything outside them round-trips byte-identically.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/VinayArora404219/doc-flow-reorder/core/assemble"
	"github.com/VinayArora404219/doc-flow-reorder/core/docpkg"
	"github.com/VinayArora404219/doc-flow-reorder/core/session"
	"github.com/VinayArora404219/doc-flow-reorder/internal/logging"
	"github.com/VinayArora404219/doc-flow-reorder/internal/orderspec"
)

const version = "0.1.0"

// CLI defines the command-line interface for docreorder.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"info" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" default:"text" help:"Log format (text, json)"`

	Inspect     InspectCmd     `cmd:"" help:"List the paragraphs of a document"`
	Reorder     ReorderCmd     `cmd:"" help:"Reorder paragraphs and write a new document"`
	Text        TextCmd        `cmd:"" help:"Print the plain paragraph text of a document"`
	Fingerprint FingerprintCmd `cmd:"" help:"Print the BLAKE3 fingerprint of a document package"`
	Version     VersionCmd     `cmd:"" help:"Print version information"`
}

// loadDocument opens a package file and loads a paragraph session from it.
func loadDocument(path string, cfg session.Config) (*docpkg.Package, *session.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	pkg, err := docpkg.Open(data)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}

	s, err := session.New(pkg, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", path, err)
	}

	logging.DocumentLoaded(path, s.Strategy().String(), len(s.Paragraphs()), s.SourceFingerprint())
	return pkg, s, nil
}

// preview shortens display text for terminal listing.
func preview(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= max {
		return text
	}
	return text[:max-1] + "…"
}

// InspectCmd lists the paragraphs of a document.
type InspectCmd struct {
	Path string `arg:"" help:"Path to document package" type:"existingfile"`
	IDs  bool   `help:"Show paragraph IDs"`
}

func (c *InspectCmd) Run() error {
	_, s, err := loadDocument(c.Path, session.Config{})
	if err != nil {
		return err
	}

	paras := s.Paragraphs()
	fmt.Printf("%s: %d paragraphs (%s split)\n", c.Path, len(paras), s.Strategy())
	for i, p := range paras {
		if c.IDs {
			fmt.Printf("%4d  %s  %s\n", i+1, p.ID, preview(p.DisplayText, 60))
		} else {
			fmt.Printf("%4d  %s\n", i+1, preview(p.DisplayText, 72))
		}
	}
	return nil
}

// ReorderCmd reorders paragraphs and writes a new document.
type ReorderCmd struct {
	Path  string `arg:"" help:"Path to document package" type:"existingfile"`
	Order string `required:"" help:"Order expression over 1-based positions, e.g. '3,1-2'"`
	Out   string `short:"o" help:"Output path (default: <input>-reordered.docx)" type:"path"`
}

func (c *ReorderCmd) Run() error {
	_, s, err := loadDocument(c.Path, session.Config{})
	if err != nil {
		return err
	}

	paras := s.Paragraphs()
	order, err := orderspec.Resolve(c.Order, len(paras))
	if err != nil {
		return fmt.Errorf("resolving order: %w", err)
	}

	ids := make([]string, len(order))
	for i, pos := range order {
		ids[i] = paras[pos].ID
	}
	if err := s.Reorder(ids); err != nil {
		return fmt.Errorf("reordering: %w", err)
	}

	data, err := assemble.AssembleBytes(s)
	if err != nil {
		return fmt.Errorf("assembling: %w", err)
	}

	out := c.Out
	if out == "" {
		out = defaultOutputPath(c.Path)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	logging.DocumentExported(out, len(docpkg.MandatoryParts), len(data))
	fmt.Printf("Wrote %s (%d paragraphs)\n", out, len(paras))
	return nil
}

// defaultOutputPath derives the output name from the input name.
func defaultOutputPath(input string) string {
	const ext = ".docx"
	if strings.HasSuffix(strings.ToLower(input), ext) {
		return input[:len(input)-len(ext)] + "-reordered" + ext
	}
	return input + "-reordered" + ext
}

// TextCmd prints the plain paragraph text of a document.
type TextCmd struct {
	Path string `arg:"" help:"Path to document package" type:"existingfile"`
}

func (c *TextCmd) Run() error {
	_, s, err := loadDocument(c.Path, session.Config{})
	if err != nil {
		return err
	}

	for _, p := range s.Paragraphs() {
		fmt.Println(p.DisplayText)
	}
	return nil
}

// FingerprintCmd prints the BLAKE3 fingerprint of a document package.
type FingerprintCmd struct {
	Path string `arg:"" help:"Path to document package" type:"existingfile"`
}

func (c *FingerprintCmd) Run() error {
	pkg, s, err := loadDocument(c.Path, session.Config{})
	if err != nil {
		return err
	}

	fmt.Printf("package:   %s\n", pkg.Fingerprint())
	fmt.Printf("paragraphs: %d\n", len(s.Paragraphs()))
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("docreorder %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("docreorder"),
		kong.Description("Paragraph-order surgery for word-processing documents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	level, err := logging.ParseLevel(CLI.LogLevel)
	if err != nil {
		ctx.FatalIfErrorf(err)
	}
	format, err := logging.ParseFormat(CLI.LogFormat)
	if err != nil {
		ctx.FatalIfErrorf(err)
	}
	logging.InitLogger(level, format)

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}
