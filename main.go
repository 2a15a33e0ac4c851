package main

import (
	"log"

	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
