// Package server builds the HTTP server shared by all features.
//
// New returns a fiber application with the common middleware chain: ray ids,
// request logging, public health, metrics and swagger endpoints, and API key
// authentication for everything registered afterwards.
//
// # Usage
//
//	app := server.New(cfg.Server, log)
//	_, err := mgr.LoadAll(app)
//	go app.Listen(cfg.Server.Address())
package server
