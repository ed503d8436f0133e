// Command lemons runs a small demo server built on the lemons package.
//
// Run:
//
//	go run ./cmd/lemons serve                   # listen on :4000
//	go run ./cmd/lemons serve -c lemons.yaml    # load a config file
//	LEMONS_PORT=5000 go run ./cmd/lemons serve  # override the port
//
// Then explore:
//
//	GET http://localhost:4000/greet?name=Lemons  # validated greeting
//	GET http://localhost:4000/greet              # 400 with validation errors
//	GET http://localhost:4000/status             # health check
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
