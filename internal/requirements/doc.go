// Package requirements turns a supplier category into the ordered list of
// documents the supplier must provide.
//
// Every non-blank category yields the two baseline documents first, followed
// by whatever the Document Catalog lists for it. When the catalog cannot be
// reached the baseline alone is returned and the resolution is tagged as
// degraded; the caller never sees the catalog error.
package requirements
