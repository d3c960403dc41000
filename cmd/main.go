package main

import (
	"log"

	"github.com/MuyiwaOlatunji/My-AI-Scheduling-Model/cmd/bootstrap"
)

func main() {
	if err := bootstrap.Run(); err != nil {
		log.Fatalf("application failed: %+v", err)
	}
}
