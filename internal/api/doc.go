// Package api provides the REST client used to load state snapshots from
// the hotel operations backend.
//
// The real-time channel carries incremental updates; this client covers the
// paged snapshot endpoints used to seed and reconcile local state:
//   - GET /rooms
//   - GET /reservations
//   - GET /service-requests
package api
