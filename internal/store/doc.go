// Package store holds the persistence contracts for the task tracker:
// entity store interfaces, the shared error taxonomy, and the ports for
// blob storage and outbound notifications. Implementations live under
// internal/platform; services depend only on this package.
package store
