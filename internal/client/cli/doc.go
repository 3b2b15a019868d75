// Package cli provides the interactive shopfront command-line client.
//
// It wires configuration, the local session database, the API client and
// an interactive REPL. A session saved by an earlier run is restored on
// start as long as its token has not expired.
//
// Key features:
//   - Register / Login / Logout / WhoAmI
//   - Browse the catalog and buy a product
//   - Add products and upload product images via presigned URLs
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
