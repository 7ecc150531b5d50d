// Package apperr holds the error kinds shared across the archive packages.
package apperr

import "errors"

var (
	// ErrConfig marks a bad documents directory or stylesheet. Fatal at startup.
	ErrConfig = errors.New("configuration error")
	// ErrDocumentNotFound marks a document path that does not exist on disk.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrParse marks a document that is not well-formed XML.
	ErrParse = errors.New("parse error")
	// ErrTransform marks a stylesheet application failure.
	ErrTransform = errors.New("transform error")
	// ErrNotFound marks a catalog lookup miss surfaced through the service layer.
	ErrNotFound = errors.New("not found")
)
