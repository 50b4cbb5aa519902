// Package main provides a minimal HTTP probe binary for container
// health checks, where the image may carry no shell or curl. It GETs
// the readiness endpoint and exits 0 on a 2xx response, 1 otherwise.
//
// The URL defaults to the scheduler server's /readyz on localhost and
// can be overridden by argument or by BOOM_HEALTHCHECK_URL.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

const defaultURL = "http://localhost:8080/readyz"

func probeURL() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	if v := os.Getenv("BOOM_HEALTHCHECK_URL"); v != "" {
		return v
	}
	return defaultURL
}

func main() {
	url := probeURL()
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "healthcheck %s: %v\n", url, err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Fprintf(os.Stderr, "healthcheck %s: status %d\n", url, resp.StatusCode)
		os.Exit(1)
	}
}
