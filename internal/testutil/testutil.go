// Package testutil provides shared fixtures for archive tests: TEI documents,
// a small XSLT stylesheet and temporary document directories.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/codex/internal/tei"
)

// Stylesheet renders a TEI document as a <div class="manuscript"> fragment.
const Stylesheet = `<?xml version="1.0" encoding="UTF-8"?>
<xsl:stylesheet version="1.0"
    xmlns:xsl="http://www.w3.org/1999/XSL/Transform"
    xmlns:tei="http://www.tei-c.org/ns/1.0"
    exclude-result-prefixes="tei">
  <xsl:output method="html" encoding="UTF-8" indent="no"/>
  <xsl:template match="/">
    <div class="manuscript">
      <h1 class="ms-title"><xsl:value-of select="//tei:titleStmt/tei:title[@type='main']"/></h1>
      <div class="ms-body"><xsl:apply-templates select="//tei:text/tei:body"/></div>
    </div>
  </xsl:template>
  <xsl:template match="tei:p">
    <p><xsl:apply-templates/></p>
  </xsl:template>
</xsl:stylesheet>
`

// FailingStylesheet compiles but aborts every transform via xsl:message.
const FailingStylesheet = `<?xml version="1.0" encoding="UTF-8"?>
<xsl:stylesheet version="1.0" xmlns:xsl="http://www.w3.org/1999/XSL/Transform">
  <xsl:template match="/">
    <xsl:message terminate="yes">cannot render this document</xsl:message>
  </xsl:template>
</xsl:stylesheet>
`

// Doc describes the header fields of a generated TEI document.
// Empty fields are omitted from the output.
type Doc struct {
	Title       string
	Subtitle    string
	Forename    string
	Surname     string
	Idno        string
	Repository  string
	Date        string
	Extent      string
	Description string
	Body        string
}

// XML renders d as a TEI P5 document.
func (d Doc) XML() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<TEI xmlns="` + tei.Namespace + `"><teiHeader><fileDesc><titleStmt>`)
	elem(&b, `title type="main"`, "title", d.Title)
	elem(&b, `title type="sub"`, "title", d.Subtitle)
	if d.Forename != "" || d.Surname != "" {
		b.WriteString("<author><persName>")
		elem(&b, "forename", "forename", d.Forename)
		elem(&b, "surname", "surname", d.Surname)
		b.WriteString("</persName></author>")
	}
	b.WriteString("</titleStmt><sourceDesc><msDesc><msIdentifier>")
	elem(&b, "repository", "repository", d.Repository)
	elem(&b, "idno", "idno", d.Idno)
	b.WriteString("</msIdentifier>")
	if d.Description != "" {
		b.WriteString("<msContents><msItem>")
		elem(&b, "note", "note", d.Description)
		b.WriteString("</msItem></msContents>")
	}
	b.WriteString("<physDesc><objectDesc><supportDesc>")
	elem(&b, "extent", "extent", d.Extent)
	b.WriteString("</supportDesc></objectDesc></physDesc><history><origin>")
	elem(&b, "origDate", "origDate", d.Date)
	b.WriteString("</origin></history></msDesc></sourceDesc></fileDesc></teiHeader>")
	fmt.Fprintf(&b, "<text><body><p>%s</p></body></text></TEI>\n", d.Body)
	return b.String()
}

func elem(b *strings.Builder, open, closeName, text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(b, "<%s>%s</%s>", open, text, closeName)
}

// Malformed is a document with mismatched tags.
const Malformed = `<?xml version="1.0"?><TEI xmlns="http://www.tei-c.org/ns/1.0"><teiHeader></TEI>`

// WriteFile writes content to dir/name and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// DocumentsDir creates a temporary directory holding the given files.
func DocumentsDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
	return dir
}

// Transformer compiles xsl into a Transformer that is closed at test end.
func Transformer(t *testing.T, xsl string) *tei.Transformer {
	t.Helper()
	path := WriteFile(t, t.TempDir(), "style.xsl", xsl)
	tr, err := tei.New(path)
	if err != nil {
		t.Fatalf("tei.New: %v", err)
	}
	t.Cleanup(tr.Close)
	return tr
}

// Ruskin returns the two-document archive used across tests: a letter
// titled "Letter on Art" and a diary titled "Diary Entries".
func Ruskin() map[string]string {
	return map[string]string{
		"ruskin-letter-1.xml": Doc{
			Title:       "Letter on Art",
			Subtitle:    "To his father",
			Forename:    "John",
			Surname:     "Ruskin",
			Idno:        "MS 54",
			Repository:  "Ruskin Library",
			Date:        "1845",
			Extent:      "4 leaves",
			Description: "A letter written from Venice.",
			Body:        "My dear father.",
		}.XML(),
		"ruskin-diary.xml": Doc{
			Title:       "Diary Entries",
			Forename:    "John",
			Surname:     "Ruskin",
			Idno:        "MS 7",
			Description: "Notes from the Alps.",
			Body:        "Fine weather at Chamouni.",
		}.XML(),
	}
}
