// Package anki drives one-shot sessions against an Anki sync server. A
// Session owns an ephemeral local working copy of the remote collection (a
// sqlite database in the system temp directory), moves through a strict
// authenticate/pull/mutate/push lifecycle, and guarantees the working copy
// is released on every exit path.
//
// The sync server itself is a black-box peer reached through the four
// operations of the SyncClient interface: Login, SyncChanges, FullDownload
// and Upload. Wire-level protocol details stay inside the client
// implementation.
package anki
