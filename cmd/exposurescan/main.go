// Package main provides the entry point for the exposurescan CLI.
//
// exposurescan estimates the digital exposure of an email address,
// username, or public image URL. It checks known breach corpora, probes
// a panel of platforms for matching profiles, and produces a weighted
// exposure score with remediation guidance.
//
// Usage:
//
//	exposurescan scan <email|username|image-url>
//	exposurescan serve --addr :8080
//
// See --help for all available options.
package main

// main is the entry point for exposurescan.
func main() {
	Execute()
}
