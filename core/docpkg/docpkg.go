// Package docpkg provides reading and writing of OPC document packages
// (ZIP archives of named XML parts, as used by .docx files).
package docpkg

import (
	"archive/zip"
	"bytes"
	"encoding/hex"
	"io"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/VinayArora404219/doc-flow-reorder/core/errors"
)

// Well-known part names within a document package.
const (
	PartContentTypes = "[Content_Types].xml"
	PartPackageRels  = "_rels/.rels"
	PartDocument     = "word/document.xml"
	PartStyles       = "word/styles.xml"
	PartDocumentRels = "word/_rels/document.xml.rels"
	PartFontTable    = "word/fontTable.xml"
	PartSettings     = "word/settings.xml"
	PartWebSettings  = "word/webSettings.xml"
	PartAppProps     = "docProps/app.xml"
	PartCoreProps    = "docProps/core.xml"
)

// MandatoryParts is the full part set a self-consistent output package
// must contain, in canonical archive order.
var MandatoryParts = []string{
	PartContentTypes,
	PartPackageRels,
	PartDocument,
	PartStyles,
	PartDocumentRels,
	PartFontTable,
	PartSettings,
	PartWebSettings,
	PartAppProps,
	PartCoreProps,
}

// Package is an opened document package. It holds every part in memory;
// the source archive is not referenced after Open returns.
type Package struct {
	parts       map[string][]byte
	names       []string // archive order
	fingerprint string
}

// Open decodes a document package from raw archive bytes.
// It fails with errors.ErrInvalidPackage if the archive cannot be
// decompressed or does not contain the main document part. No partial
// result is ever returned.
func Open(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.NewPackage("open", "", err)
	}

	p := &Package{parts: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errors.NewPackage("open", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.NewPackage("read", f.Name, err)
		}
		p.parts[f.Name] = content
		p.names = append(p.names, f.Name)
	}

	if _, ok := p.parts[PartDocument]; !ok {
		return nil, errors.NewPackage("open", PartDocument, nil)
	}

	sum := blake3.Sum256(data)
	p.fingerprint = hex.EncodeToString(sum[:])

	return p, nil
}

// Part returns the content of a named part. Missing parts report ok=false;
// optional parts are tolerated as absent rather than treated as errors.
func (p *Package) Part(name string) ([]byte, bool) {
	content, ok := p.parts[name]
	return content, ok
}

// PartOrEmpty returns the content of a named part, or empty content when
// the part is absent.
func (p *Package) PartOrEmpty(name string) []byte {
	return p.parts[name]
}

// PartNames returns the part names in archive order.
func (p *Package) PartNames() []string {
	names := make([]string, len(p.names))
	copy(names, p.names)
	return names
}

// Fingerprint returns the BLAKE3 hash of the raw archive bytes, hex encoded.
func (p *Package) Fingerprint() string {
	return p.fingerprint
}

// Write produces a compliant archive containing every part in the mapping.
// Parts are emitted in canonical order (mandatory parts first, remaining
// names sorted) so output archives are reproducible for identical inputs.
// The write is all-or-nothing: any failure discards the whole archive.
func Write(parts map[string][]byte) ([]byte, error) {
	if len(parts) == 0 {
		return nil, errors.NewPackaging("write", "", io.ErrUnexpectedEOF)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, name := range writeOrder(parts) {
		w, err := zw.Create(name)
		if err != nil {
			return nil, errors.NewPackaging("create", name, err)
		}
		if _, err := w.Write(parts[name]); err != nil {
			return nil, errors.NewPackaging("write", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, errors.NewPackaging("close", "", err)
	}

	return buf.Bytes(), nil
}

// writeOrder returns part names with mandatory parts first in canonical
// order, then any extra parts sorted by name.
func writeOrder(parts map[string][]byte) []string {
	order := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, name := range MandatoryParts {
		if _, ok := parts[name]; ok {
			order = append(order, name)
			seen[name] = true
		}
	}

	var extra []string
	for name := range parts {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)

	return append(order, extra...)
}
