package mcpserver

// MetadataFieldsURI identifies the metadata field reference resource.
const MetadataFieldsURI = "codex://metadata-fields"

// MetadataFields describes the metadata record returned by the manuscript
// tools and where each field comes from in a TEI P5 header.
const MetadataFields = `# Manuscript Metadata Fields

Every manuscript exposes the same eight string fields. A field is the
whitespace-trimmed text of the first matching element, or an empty string
when the document has no such element. The prefix ` + "`tei`" + ` is bound to
` + "`http://www.tei-c.org/ns/1.0`" + `.

| Field | Source |
|---|---|
| title | ` + "`//tei:titleStmt/tei:title[@type=\"main\"]`" + ` |
| subtitle | ` + "`//tei:titleStmt/tei:title[@type=\"sub\"]`" + ` |
| author | forename and surname under ` + "`//tei:titleStmt/tei:author/tei:persName`" + `, joined by a space |
| manuscript | ` + "`//tei:msIdentifier/tei:idno`" + ` |
| repository | ` + "`//tei:msIdentifier/tei:repository`" + ` |
| date | ` + "`//tei:origDate`" + ` |
| extent | ` + "`//tei:extent`" + ` |
| description | ` + "`//tei:msContents/tei:msItem/tei:note`" + ` |

## Slugs

A manuscript is addressed by its slug: the document filename without the
extension. Slugs in URLs match ` + "`[a-z0-9_-]+`" + `.

## Search

` + "`search_manuscripts`" + ` matches a case-insensitive substring against
title, subtitle, description and author. An empty query returns the whole
catalog. Results keep catalog order (case-insensitive by title).
`
