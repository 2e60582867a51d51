// Package todo loads, validates, and updates the task file.
//
// A task file holds an ordered list of tasks. Order is insertion order and
// every mutation rewrites the whole file before the call returns, so a
// mutation visible in memory has already been flushed to disk.
//
// # Line Format
//
// The default format stores one task per line:
//
//	Write report | False | High | 31-12-2099
//
// Fields are text, completed (True or False), priority (High, Medium or
// Low) and due date (DD-MM-YYYY), joined by " | ". Lines are split from the
// right into at most four parts, so task text may itself contain " | " as
// long as the last three fields are well formed. Lines that do not split
// into exactly four parts are dropped on load. There is no header and no
// versioning.
//
// # JSON Format
//
// Files ending in .json (or any file when the format is set explicitly)
// use a structured document:
//
//	{
//	  "schema_version": 1,
//	  "tasks": [
//	    {"text": "Write report", "completed": false, "priority": "High", "due_date": "31-12-2099"}
//	  ]
//	}
//
// The document is validated against an embedded JSON Schema on load.
// Task objects that fail the task subschema are dropped individually; a
// document that fails as a whole is an error.
//
// # Identity
//
// Tasks carry an ID assigned by the Store: a counter starting at 1 in file
// order and incremented for every added task. IDs are never reused by a
// Store and are not written to the line format. Index-based mutators treat
// an out-of-range index as a no-op; ID-based mutators return
// ErrTaskNotFound for unknown IDs.
//
// # Strict Loading
//
// With strict loading enabled, records whose priority or due date is
// malformed are not loaded. They are appended to <path>.rejected in line
// format and listed in the load report.
package todo
