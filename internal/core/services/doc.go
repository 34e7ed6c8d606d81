// Package services contains the application orchestrators: the ingestion
// pipeline, the hybrid search pipeline, analytics recording, and the
// component health probe. Services depend only on the driven ports and are
// wired with concrete adapters by the hosting application.
package services
