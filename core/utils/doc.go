// Package utils provides small conversion helpers shared across packages.
// They are used to read loosely typed JSON values and query parameters.
package utils
