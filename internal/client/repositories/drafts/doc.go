// Package drafts persists unfinished day edits in the client's local SQLite
// database so an interrupted edit can be resumed.
//
// A draft is keyed by (user id, calendar day) and stores the JSON encoding of
// attendance.Snapshot. Saving a draft for the same key overwrites it; Get on a
// missing key returns (nil, nil).
package drafts
