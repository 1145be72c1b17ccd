// Package loader registers features on the HTTP server.
//
// A feature bundles a service with its routes and implements Feature. The
// start command registers each assembled feature on a Manager, and LoadAll
// mounts the enabled ones in registration order. A name registered twice is
// an error, as is any feature whose Load fails.
package loader
