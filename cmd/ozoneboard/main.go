package main

import (
	"log"

	"github.com/aouyang1/ozone-forecaster/commands"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}
