// Package models defines the data types shared by the tournament feature:
// raw feed records, canonical tournament events, platform events and sync results.
package models
