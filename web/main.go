package main

import (
	"flag"
	"log"
	"os"

	"github.com/kallidan/restir-di-renderer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	flag.Parse()

	// Create and start web server
	webServer := server.NewServer(*port)

	log.Printf("ReSTIR DI Renderer Web Server")
	log.Printf("Visit http://localhost:%d to watch the live render", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
