package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-photon-renderer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	static := flag.String("static", "", "Directory of static files to serve at / (default: none)")
	flag.Parse()

	// Create and start web server
	webServer := server.NewServer(*port, *static)

	log.Printf("Photon Renderer Web Server")
	log.Printf("Render with http://localhost:%d/api/render?scene=cornell", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
