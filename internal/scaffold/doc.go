// Package scaffold materializes a new web extension project from the
// embedded template tree. Files whose name ends in .tmpl are rendered with
// text/template against the answers and written without the suffix; every
// other file, including .vue single-file components whose {{ }} would
// collide with Go templates, is copied verbatim. A filter.Set decides which
// files are emitted.
package scaffold
