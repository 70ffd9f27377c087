// Package postharvest extracts structured records from blog posts published
// on a single Substack-style platform. It discovers post URLs from the
// site's year-partitioned sitemap pages, extracts title, body text,
// metadata, code snippets and images from each post, and batch-processes
// the inventory with resumability and partial-failure accounting.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, http/).
package postharvest
