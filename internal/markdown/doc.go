// Package markdown renders Markdown fields and loads Markdown documents from
// a filesystem. The loader backs the filesystem content backend; the parser
// backs Page.FieldHTML.
package markdown
