package main

import (
	"log"

	"dashboard-cache/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("dashboard-cache: %v", err)
	}
}
