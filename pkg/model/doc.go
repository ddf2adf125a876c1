// Package model defines the database models for the kennel CMS.
//
// All content lives in a single documents table. The collection column
// holds the content type UID and the data column holds the document body
// as jsonb, so new content types need no schema migration.
//
// # Database Schema
//
//   - documents: every content document, roles and permissions included
//   - audit_messages: provisioning audit trail (optional, see pkg/audit)
package model
