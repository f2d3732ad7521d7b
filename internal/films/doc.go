// Package films provides the domain type and HTTP client for the films
// collection of the backend.
//
// # Overview
//
// The backend exposes a single REST resource:
//
//   - GET  {base}/films: JSON array of film objects (an empty array is valid)
//   - POST {base}/films: create a film from {"title", "year", "watched"}
//
// Both views of the application read the same collection; the watch list is
// derived client-side with WatchList.
//
// # Client Usage
//
//	client, err := films.NewClient("http://localhost:8080", 5*time.Second)
//	if err != nil {
//		return err
//	}
//	items, err := client.ListFilms(ctx)
//
// Views depend on the Fetcher interface rather than *Client so tests can inject
// a fake backend.
//
// # Request Handling
//
// Requests carry Accept: application/json and User-Agent: flimmer/0.1. GET
// requests are retried twice on transport errors and 5xx answers; POST is never
// retried. Non-2xx answers are reported as *StatusError.
//
// # Years
//
// Backends disagree on whether the year is a number or a string. Year accepts
// both and re-encodes purely numeric years as JSON numbers.
package films
