// Package model defines shared data types used across the opsync client core.
//
// Conventions:
//   - Timestamps: time.Time in UTC; wire formats serialize RFC 3339
//   - IDs: string room numbers, uuid.UUID for reservations and service requests
//   - Status enums: lowercase snake_case strings matching the platform API
package model
