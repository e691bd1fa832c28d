// Package bookdex builds a searchable catalog of books harvested from
// heterogeneous sources (listing pages, catalog feeds, channel archives),
// resolves free-form natural language queries to exact catalog entries
// using a constrained language-model call, and produces a delivery
// reference (direct link or archive pointer) for the resolved entry.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, goquery/).
package bookdex
