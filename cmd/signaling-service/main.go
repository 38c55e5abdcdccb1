// Package main is the entry point for signaling-service (HTTP + WebSocket).
package main

import (
	"log"

	"github.com/AdityaKulkarniXD/webdoc-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
