// Package database provides the PostgreSQL connection pool used by the
// durable offline operation store.
package database
