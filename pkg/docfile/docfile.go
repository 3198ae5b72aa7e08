package docfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"inkline/pkg/doctree"
)

type EncryptionOptions struct {
	Enabled  bool
	Password string
	// Iterations is the PBKDF2 cost recorded in the file. Zero means
	// DefaultKDFIterations.
	Iterations int
}

type SaveOptions struct {
	Compression bool
	Encryption  EncryptionOptions
}

type LoadOptions struct {
	Password string
}

type EnvelopeInfo struct {
	Wrapped     bool
	Compressed  bool
	Encrypted   bool
	EnvelopeVer uint16
}

type Metadata struct {
	Author       string
	Title        string
	CreatedUnix  int64
	ModifiedUnix int64
	// BaseStyle is the document-level style declaration list that text
	// without an explicit style resolves to.
	BaseStyle string
}

// Document is a styled document tree with its metadata. Root is the editable
// container; its children are the document content.
type Document struct {
	Metadata Metadata
	Root     *doctree.Node
}

var (
	ErrInvalidMagic      = errors.New("docfile: invalid magic")
	ErrUnsupportedVer    = errors.New("docfile: unsupported version")
	ErrInvalidTOC        = errors.New("docfile: invalid toc")
	ErrInvalidBlockRange = errors.New("docfile: invalid block range")
	ErrOverlappingBlocks = errors.New("docfile: overlapping block ranges")
	ErrMissingBody       = errors.New("docfile: missing body block")
	ErrPasswordRequired  = errors.New("docfile: password required")
	ErrInvalidPassword   = errors.New("docfile: invalid password or altered file")
	ErrInvalidSecureFile = errors.New("docfile: invalid secure file")
	ErrNilDocument       = errors.New("docfile: document is nil")
)

func NewDocument(author, title string) *Document {
	now := time.Now().Unix()
	return &Document{
		Metadata: Metadata{Author: author, Title: title, CreatedUnix: now, ModifiedUnix: now},
		Root:     doctree.NewElement("div", doctree.Style{}),
	}
}

func Save(path string, doc *Document) error {
	return SaveWithOptions(path, doc, SaveOptions{})
}

func SaveWithOptions(path string, doc *Document, opts SaveOptions) error {
	if doc == nil {
		return ErrNilDocument
	}
	now := time.Now().Unix()
	if doc.Metadata.CreatedUnix == 0 {
		doc.Metadata.CreatedUnix = now
	}
	doc.Metadata.ModifiedUnix = now

	blob, err := Encode(doc, opts)
	if err != nil {
		return err
	}
	return writeAtomic(path, blob)
}

// Encode serializes doc into a block container, optionally wrapped in the
// compressed or encrypted envelope.
func Encode(doc *Document, opts SaveOptions) ([]byte, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}
	blob, err := encodeContainer(doc)
	if err != nil {
		return nil, err
	}
	if opts.Encryption.Enabled && strings.TrimSpace(opts.Encryption.Password) == "" {
		return nil, ErrPasswordRequired
	}
	if !opts.Compression && !opts.Encryption.Enabled {
		return blob, nil
	}
	return sealEnvelope(blob, opts)
}

func Load(path string) (*Document, error) {
	return LoadWithOptions(path, LoadOptions{})
}

func LoadWithOptions(path string, opts LoadOptions) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(b, opts)
}

func Decode(b []byte, opts LoadOptions) (*Document, error) {
	var err error
	if isSecureEnvelope(b) {
		b, err = openEnvelope(b, opts)
		if err != nil {
			return nil, err
		}
	}
	doc, err := decodeContainer(b)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func InspectEnvelope(path string) (EnvelopeInfo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return EnvelopeInfo{}, err
	}
	return inspectEnvelopeBytes(b)
}

// ReadHTML loads a bare HTML fragment file as an untitled document.
func ReadHTML(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := doctree.ParseHTML(string(b))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	doc := NewDocument("", strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	doc.Root = root
	return doc, nil
}

// WriteHTML writes the document content as a bare HTML fragment.
func WriteHTML(path string, doc *Document) error {
	if err := Validate(doc); err != nil {
		return err
	}
	return writeAtomic(path, []byte(doctree.RenderHTML(doc.Root)))
}

// IsHTMLPath reports whether path names a bare HTML file rather than a
// document container.
func IsHTMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// Open loads path as HTML or as a document container, going by its
// extension.
func Open(path string, opts LoadOptions) (*Document, error) {
	if IsHTMLPath(path) {
		return ReadHTML(path)
	}
	return LoadWithOptions(path, opts)
}

// Store is the counterpart of Open. HTML files carry no metadata and ignore
// opts.
func Store(path string, doc *Document, opts SaveOptions) error {
	if IsHTMLPath(path) {
		return WriteHTML(path, doc)
	}
	return SaveWithOptions(path, doc, opts)
}

func Validate(doc *Document) error {
	if doc == nil {
		return ErrNilDocument
	}
	if !utf8.ValidString(doc.Metadata.Author) || !utf8.ValidString(doc.Metadata.Title) {
		return errors.New("docfile: metadata fields must be valid UTF-8")
	}
	if doc.Root == nil {
		return ErrMissingBody
	}
	if !doc.Root.IsElement() {
		return errors.New("docfile: document root must be an element")
	}
	if !utf8.ValidString(doc.Root.TextContent()) {
		return errors.New("docfile: document text is not valid UTF-8")
	}
	return nil
}

func writeAtomic(path string, blob []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
