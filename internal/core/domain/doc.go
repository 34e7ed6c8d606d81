// Package domain contains the core entities and business rules for the
// retrieval pipeline: documents, chunks, per-user retrieval configuration,
// search results, and analytics records.
package domain
