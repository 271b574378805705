// Package wikiscrape turns a fetched Wikipedia article page into a
// normalized record: title, body text, summary, and optionally metadata,
// links, images and tables.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, htmltomarkdown/).
package wikiscrape
