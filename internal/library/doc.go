// Package library models candidate destination libraries on the video host
// and provides the HTTP client for its library and collection endpoints.
// Matching consumes the Directory interface; anything that can produce the
// current candidate list (the remote client, a cached snapshot, a test
// fixture) satisfies it.
package library
