package main

import (
	"log"

	"ghmirror/cmd/ghm/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatal(err)
	}
}
