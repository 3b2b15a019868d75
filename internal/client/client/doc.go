// Package client contains client-side building blocks for the shopfront CLI.
//
// # Overview
//
// The package provides:
//  1. The API contract the CLI depends on (see the Client interface):
//     Register, Login, Products, AddProduct, RequestImageUpload, BuyNow
//     and LookupUser.
//  2. A concrete REST implementation (see HTTPClient) with a per-request
//     timeout and bearer token injection.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// HTTP statuses are mapped to sentinel errors that callers match with
// errors.Is: 401 is ErrUnauthorized, 409 ErrConflict, 404 ErrNotFound,
// other 4xx ErrBadRequest. Transport failures are ErrUnavailable. The
// server's message, when present, is appended to the error text.
package client
