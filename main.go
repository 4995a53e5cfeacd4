package main

import (
	"log"

	"github.com/arialabs/aria/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatalf("aria: %v", err)
	}
}
