// Package persist is the persistence gateway for dashboard state.
//
// Three channels feed a session, consulted in order at startup:
//
//  1. Transport link: the URL fragment holds base64(JSON(state)).
//  2. Durable record: the single named record in the local store.
//  3. Default: one "MEU DASHBOARD" quadrant, 1x10.
//
// The first channel that yields a well-formed dashboard (a JSON object with
// a non-empty quadrants array) wins. A malformed channel is logged and
// skipped; Load itself never fails.
//
// Manual backup goes through Export (pretty JSON, dated filename) and
// Import (schema-checked, geometry clamped).
package persist
