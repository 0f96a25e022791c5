// Package savemymind is the Composition Root for the SaveMyMind note app.
//
// It connects the note domain (store, categorization, editor sessions)
// with the infrastructure adapters (persistence, device auth, asset
// provisioning) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// SaveMyMind is a local-first personal note store. The whole collection is
// one durable unit behind a pluggable blob adapter; every mutation is
// written through before it is acknowledged, so the in-memory state never
// drifts from disk.
//
// Features:
//
//   - **Write-through store**: every create/update/delete persists the
//     collection and rolls back in memory on failure.
//   - **Debounced editing**: editor sessions auto-save after a quiet
//     period, with the buffer surviving failed saves.
//   - **Calendar categorization**: notes project into Today / Yesterday /
//     This week / This month / Older, recomputed on demand.
//   - **Pluggable persistence**: BadgerDB by default, with SQLite,
//     filesystem, and in-memory adapters behind core.BlobStore.
//   - **Gated extras**: optional device-auth lock and a provisioning gate
//     for the voice transcription model.
//
// Usage:
//
//	app, err := savemymind.Open(ctx, "",
//		savemymind.WithAdapter("badger"),
//		savemymind.WithLogger(logger),
//	)
//
//	// Create a note through an editor session
//	s := app.NewEditor()
//	s.SetContent("Buy milk")
//	err = s.Close(ctx)
package savemymind
