// Package client uploads files directly to ImageKit and builds delivery URLs
// using only public configuration.
//
// The private key never reaches this package. Each upload first asks the token
// service for a fresh signature, token and expiry, then posts the file to the
// vendor with those values and the public key.
//
// # Basic Usage
//
//	c, err := client.New(&client.Config{
//		URLEndpoint:  "https://ik.imagekit.io/demo",
//		PublicKey:    "public_...",
//		AuthEndpoint: "http://localhost:3001/auth",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res := c.Upload(ctx, client.UploadRequest{
//		File:    data,
//		Options: client.UploadOptions{FileName: "test-upload.png"},
//	})
//	if res.Err != nil {
//		log.Fatal(res.Err)
//	}
//
// # Events
//
// Start returns a handle instead of taking callbacks:
//
//	up := c.Start(ctx, req)
//	for ev := range up.Events() {
//		switch ev.Type {
//		case client.EventProgress:
//			fmt.Println(ev.Loaded, "/", ev.Total)
//		case client.EventError:
//			fmt.Println(ev.Err)
//		}
//	}
//
// Abort cancels one upload without touching others. If the token service is
// unreachable the upload ends with an *AuthFetchError and the vendor is never
// contacted.
//
// # Profile Configuration
//
// Profiles live in ~/.ikauth/config.yaml and hold the URL endpoint, public key
// and auth endpoint:
//
//	configFile, err := client.LoadConfigFile(client.DefaultConfigPath())
//	profile, err := configFile.GetProfile("production")
//	c, err := client.New(client.ConfigFromProfile(profile))
package client
