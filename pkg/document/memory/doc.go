// Package memory provides an in-memory implementation of document.Store.
//
// It is used by unit tests and by `kennelctl seed --memory` for dry runs.
// Data does not survive the process.
package memory
