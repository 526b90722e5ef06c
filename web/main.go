package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-scanline-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes-dir", "scenes", "Directory with .json scene files")
	flag.Parse()

	webServer := server.NewServer(*port, *scenesDir)

	log.Printf("Scanline Raytracer Web Server")
	log.Printf("Try http://localhost:%d/api/render?scene=default&width=400&spp=20", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
