// Package powertrack provides types, interfaces, and helpers for working with
// the PowerTrack solar fleet monitoring API.
//
// # Overview
//
// The powertrack package defines the domain types (e.g., Hardware,
// AlertTrigger, SiteOverview, ModelingData) and the interfaces for the
// resource-oriented clients (SitesClient, HardwareClient, AlertsClient, and
// so on). A concrete implementation is provided by the ptclient package,
// which wires configuration, transport, and session authentication. Most
// consumers should import ptclient to construct a client and then interact
// with the interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/sunwatt-io/powertrack/pkg/powertrack"
//	  "github.com/sunwatt-io/powertrack/pkg/ptclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := ptclient.New(&powertrack.Config{
//	    Endpoint: "https://apps.alsoenergy.com",
//	    Cookie:   "...",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  devices, err := cli.Hardware().List(ctx, "S1234")
//	  if err != nil { log.Fatal(err) }
//	  _ = devices
//	}
//
// # Errors
//
// Terminal API failures are represented by APIError (with status code,
// content type, and a bounded body snippet) and network failures by
// TransportError. Helpers such as IsNotFound, IsAuthenticationFailed,
// IsForbidden, and IsTransport make it easy to branch on common cases.
//
// # Updates
//
// Configuration writes use a read-merge-write cycle: the current server state
// is fetched, the caller's partial changes are deep-merged onto it, and the
// full document is written back. The outcome is always an UpdateResult;
// update operations never return a Go error.
//
// # Resilience
//
// Retry wraps any operation with exponential backoff; ParallelMap runs an
// operation over many items with a bounded worker pool, one result per item,
// without aborting the batch on individual failures. The transport itself
// retries 429 and 5xx responses.
package powertrack
