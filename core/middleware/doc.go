// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation for the admin API.
//   - rayid: assigns every request a ray id, stored in locals and echoed in
//     the X-Ray-ID response header for log correlation.
package middleware
