// Package sanitize turns untrusted, user-authored HTML into markup that can be
// handed to a rendering sink without further checks.
//
// # Profiles
//
// Two independent policies coexist and are never merged:
//   - [Strict] is a single-pass scanner with per-tag attribute allowlists,
//     URL protocol rejection, style scrubbing and automatic
//     rel="noopener noreferrer" on target="_blank" anchors.
//   - [Legacy] is a regular-expression chain for constrained description
//     fields. It keeps twelve formatting tags and drops every attribute.
//
// [Profile] selects one of them by name.
//
// # Diagnostics
//
// [ContainsDangerous] and [MatchDangerous] test raw input against known XSS
// signatures. They never mutate input and neither profile consults them.
//
// # Failure model
//
// Nothing in this package returns an error. Malformed input degrades to a
// safe result: unknown tags are dropped, unterminated constructs are absorbed
// and unparseable attribute fragments are skipped.
//
// # Thread Safety
//
// Every function is safe for concurrent use. The allowlist tables are built
// once at package initialisation and never written afterwards.
package sanitize
