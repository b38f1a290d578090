// Package httpclient provides a small configurable HTTP client for reading
// JSON APIs.
//
// Every call issues exactly one request. Failures are returned as *Error,
// classified as timeout, connection, or by response status, so callers can
// decide how to report them.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    Timeout:   30 * time.Second,
//	    UserAgent: "kanko-export/1.0",
//	})
//
//	body, err := client.Fetch(ctx, "https://api.example.com/items?limit=50")
package httpclient
