package tei

import (
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/starford/codex/internal/models"
)

// Namespace is the TEI P5 namespace URI, bound to the "tei" prefix in queries.
const Namespace = "http://www.tei-c.org/ns/1.0"

// Field queries against the TEI header. Each yields the first match only.
var (
	qTitle       = mustCompile(`//tei:titleStmt/tei:title[@type="main"]`)
	qSubtitle    = mustCompile(`//tei:titleStmt/tei:title[@type="sub"]`)
	qForename    = mustCompile(`//tei:titleStmt/tei:author/tei:persName/tei:forename`)
	qSurname     = mustCompile(`//tei:titleStmt/tei:author/tei:persName/tei:surname`)
	qManuscript  = mustCompile(`//tei:msIdentifier/tei:idno`)
	qRepository  = mustCompile(`//tei:msIdentifier/tei:repository`)
	qDate        = mustCompile(`//tei:origDate`)
	qExtent      = mustCompile(`//tei:extent`)
	qDescription = mustCompile(`//tei:msContents/tei:msItem/tei:note`)
)

func mustCompile(expr string) *xpath.Expr {
	e, err := xpath.CompileWithNS(expr, map[string]string{"tei": Namespace})
	if err != nil {
		panic("tei: compile " + expr + ": " + err.Error())
	}
	return e
}

// metadataOf evaluates the field queries against a parsed document.
func metadataOf(doc *xmlquery.Node) models.Metadata {
	return models.Metadata{
		Title:       value(doc, qTitle),
		Subtitle:    value(doc, qSubtitle),
		Author:      strings.TrimSpace(value(doc, qForename) + " " + value(doc, qSurname)),
		Manuscript:  value(doc, qManuscript),
		Repository:  value(doc, qRepository),
		Date:        value(doc, qDate),
		Extent:      value(doc, qExtent),
		Description: value(doc, qDescription),
	}
}

// value returns the trimmed text content of the first node matching expr,
// or "" when nothing matches.
func value(doc *xmlquery.Node, expr *xpath.Expr) string {
	n := xmlquery.QuerySelector(doc, expr)
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.InnerText())
}
