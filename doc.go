// Package ikauth issues short-lived upload authentication parameters for the
// ImageKit upload API and composes ImageKit delivery URLs.
//
// The package has no durable state. A Signer holds the account private key and
// produces a fresh AuthParams value per call; the HTTP layer in the http package
// exposes it as GET /auth. The URL helpers only ever see public identifiers.
//
// # Key Components
//
//   - Signer: produces {signature, token, expire} per the vendor contract
//   - AuthParams: the capability bundle handed to one upload attempt
//   - URLBuilder: chained transformation URLs (tr=h-300,w-200:rt-90)
//   - Image: low-quality placeholder and lazy-loading state for one image
//   - PublicConfig: the only configuration that may reach a browser or CLI
//
// # Example Usage
//
//	signer, err := ikauth.NewSigner(privateKey)
//	if err != nil {
//	    log.Fatal(err) // ErrConfiguration
//	}
//	params, err := signer.Issue(ctx)
//
//	builder, err := ikauth.NewURLBuilder("https://ik.imagekit.io/demo")
//	src, err := builder.URL(ikauth.ImageOptions{
//	    Path: "default-image.jpg",
//	    Transformation: ikauth.Transformation{
//	        {"height": 300, "width": 200},
//	        {"rt": 90},
//	    },
//	})
//	// https://ik.imagekit.io/demo/default-image.jpg?tr=h-300,w-200:rt-90
//
// See the http package for the token endpoint and the client package for the
// authenticator and direct uploads.
package ikauth
