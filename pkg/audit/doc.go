// Package audit provides audit logging for provisioning operations.
//
// Every change the startup provisioner makes to the store is reported as
// an RFC5424 syslog line on facility local0:
//
//   - permission-grant: a permission created for the public role
//   - seed: an empty collection or missing singleton populated
//   - seed-patch: an existing document corrected (featured puppies)
//   - seed-skip: a step skipped, e.g. the public role is missing
//
// # Usage
//
//	audit.Log(audit.SeedEvent{Collection: "api::puppy.puppy", Count: 6})
//
// Events are also written to the audit_messages table when
// KENNEL_AUDIT_DATABASE_URL is set. KENNEL_AUDIT_ENABLED=false turns
// auditing off.
package audit
