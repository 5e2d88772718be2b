// Package main provides the pokefinder CLI.
//
// It runs the same lookups as the HTTP service once and prints the result as
// JSON. Upstream endpoints and tuning come from the same environment variables
// as the server.
//
// Usage:
//
//	pokefinder name <name>
//	pokefinder body --height 40 --weight 6 [--tolerance 0.1]
package main

func main() {
	Execute()
}
