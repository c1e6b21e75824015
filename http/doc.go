// Package http provides the HTTP server for the ikauth token service.
//
// The service exists so that a browser can upload files straight to the image
// vendor without ever holding the private key. The page asks GET /auth for a
// fresh set of upload parameters, the server signs them with the private key
// and returns only the derived values.
//
// # Routes
//
//	GET /auth     {"signature": "...", "token": "...", "expire": 1700001800}
//	GET /healthz  {"status": "ok"}
//	GET /         showcase page, when HandlerConfig.Showcase is set
//
// # Cross-origin access
//
// Every response carries Access-Control-Allow-Origin: * and the configured
// Access-Control-Allow-Headers, including error responses and preflight
// answers. The go-chi/cors handler runs in pass-through mode and
// CrossOriginMiddleware finishes the job.
//
// # Usage
//
//	signer, err := ikauth.NewSigner(privateKey)
//	if err != nil {
//	    return err
//	}
//
//	handler, err := http.NewHandler(&http.HandlerConfig{
//	    Public:   cfg.Public(),
//	    Showcase: true,
//	}, signer)
//	if err != nil {
//	    return err
//	}
//	nethttp.ListenAndServe(":3001", handler.Router())
//
// The issuer passed to NewHandler must implement TokenIssuer. HandlerConfig
// only accepts an ikauth.PublicConfig so the private key has no path into a
// rendered page.
package http
