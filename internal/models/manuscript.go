// Package models defines the domain types for the manuscript archive.
package models

import "time"

// Metadata is the flat set of fields extracted from a TEI header.
// Every field is empty when the document does not carry it.
type Metadata struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Author      string `json:"author"`
	Manuscript  string `json:"manuscript"`
	Repository  string `json:"repository"`
	Date        string `json:"date"`
	Extent      string `json:"extent"`
	Description string `json:"description"`
}

// Entry is one indexed document in the catalog.
type Entry struct {
	Slug     string   `json:"slug"`
	Filename string   `json:"filename"`
	Path     string   `json:"path"`
	Metadata Metadata `json:"metadata"`
}

// DocumentFile is a document as listed by the storage provider.
type DocumentFile struct {
	Filename string    `json:"filename"`
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Checksum string    `json:"checksum"`
	ModTime  time.Time `json:"mod_time"`
}
