// Package readtext extracts the main article text from HTML pages.
// It locates the article body in an arbitrary DOM tree, removes residual
// boilerplate, flattens the result into plain text with a map from text
// offsets back to source text nodes, and follows next-page links so that
// paginated articles are reassembled into one text.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, rod/).
package readtext
