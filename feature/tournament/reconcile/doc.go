// Package reconcile binds tournament events to the generic reconciliation engine.
//
// EventAdapter joins canonical events with platform events by dedup key and
// compares the mapped fields (title, start, end, description). Mutator applies
// create and update actions through the platform.
package reconcile
