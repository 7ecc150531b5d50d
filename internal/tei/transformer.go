// Package tei renders TEI XML documents to HTML with an XSLT stylesheet and
// extracts catalog metadata from their headers.
package tei

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	xslt "github.com/wamuir/go-xslt"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"github.com/starford/codex/internal/apperr"
	"github.com/starford/codex/internal/models"
)

// Transformer applies one compiled stylesheet to any number of documents.
// The stylesheet is compiled once in New and is read-only afterwards, so a
// Transformer may be shared between goroutines.
type Transformer struct {
	stylesheetPath string
	sheet          *xslt.Stylesheet
}

// New reads and compiles the stylesheet at path. A missing or malformed
// stylesheet is reported as apperr.ErrConfig.
func New(stylesheetPath string) (*Transformer, error) {
	xsl, err := os.ReadFile(stylesheetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: stylesheet not found: %s: %v", apperr.ErrConfig, stylesheetPath, err)
	}
	sheet, err := xslt.NewStylesheet(xsl)
	if err != nil {
		return nil, fmt.Errorf("%w: compile stylesheet %s: %v", apperr.ErrConfig, stylesheetPath, err)
	}
	return &Transformer{stylesheetPath: stylesheetPath, sheet: sheet}, nil
}

// StylesheetPath returns the path the stylesheet was loaded from.
func (t *Transformer) StylesheetPath() string {
	return t.stylesheetPath
}

// Close releases the compiled stylesheet.
func (t *Transformer) Close() {
	if t.sheet != nil {
		t.sheet.Close()
		t.sheet = nil
	}
}

// Transform renders the document at documentPath and returns an HTML fragment.
func (t *Transformer) Transform(documentPath string) (string, error) {
	data, err := readDocument(documentPath)
	if err != nil {
		return "", err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", fmt.Errorf("%w: failed to parse XML file: %s: document is empty", apperr.ErrParse, documentPath)
	}

	out, err := t.sheet.Transform(data)
	if err != nil {
		if errors.Is(err, xslt.ErrXMLParseFailure) || errors.Is(err, xslt.ErrUTF8Validation) {
			return "", fmt.Errorf("%w: failed to parse XML file: %s: %v", apperr.ErrParse, documentPath, err)
		}
		return "", fmt.Errorf("%w: XSLT transformation failed for: %s: %v", apperr.ErrTransform, documentPath, err)
	}

	frag, err := fragment(out)
	if err != nil {
		return "", fmt.Errorf("%w: unreadable stylesheet output for: %s: %v", apperr.ErrTransform, documentPath, err)
	}
	return frag, nil
}

// ExtractMetadata parses the document at documentPath on its own (no state is
// shared with Transform) and evaluates the header field queries.
func (t *Transformer) ExtractMetadata(documentPath string) (models.Metadata, error) {
	data, err := readDocument(documentPath)
	if err != nil {
		return models.Metadata{}, err
	}
	doc, err := parse(documentPath, data)
	if err != nil {
		return models.Metadata{}, err
	}
	return metadataOf(doc), nil
}

func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: XML file not found: %s", apperr.ErrDocumentNotFound, path)
		}
		return nil, fmt.Errorf("tei: read %s: %w", path, err)
	}
	return data, nil
}

// parse builds the XML tree, rejecting malformed input and documents
// without a root element. General entities declared in the internal DTD
// subset are resolved; any other undeclared entity is an error.
func parse(path string, data []byte) (*xmlquery.Node, error) {
	doc, err := xmlquery.ParseWithOptions(bytes.NewReader(data), xmlquery.ParserOptions{
		Decoder: &xmlquery.DecoderOptions{
			Strict:        true,
			Entity:        internalEntities(data),
			CharsetReader: charset.NewReaderLabel,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse XML file: %s: %v", apperr.ErrParse, path, err)
	}
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return doc, nil
		}
	}
	return nil, fmt.Errorf("%w: failed to parse XML file: %s: document is empty", apperr.ErrParse, path)
}

// fragment trims stylesheet output down to embeddable markup. An XML
// declaration is dropped and a full HTML document is reduced to the
// children of its body.
func fragment(out []byte) (string, error) {
	s := strings.TrimSpace(string(out))
	if strings.HasPrefix(s, "<?xml") {
		if end := strings.Index(s, "?>"); end >= 0 {
			s = strings.TrimSpace(s[end+2:])
		}
	}

	head := strings.ToLower(s[:min(len(s), 16)])
	if !strings.HasPrefix(head, "<!doctype") && !strings.HasPrefix(head, "<html") {
		return s, nil
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return "", err
	}
	body := findElement(doc, atom.Body)
	if body == nil {
		return s, nil
	}
	var b strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
