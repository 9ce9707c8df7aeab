// feedsim serves a canned targets feed for local end-to-end runs:
//
//	go run ./cmd/feedsim -addr :8085 -file testdata/targets.json
//	TARGETS_URL=http://localhost:8085/targets go run ./cmd/watcher
package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const sampleFeed = `{
  "targets": [
    {"host": "api.example.com", "path": "/login", "method": "POST", "port": 443, "request_id": "sim-1"},
    {"host": "www.example.com", "path": "/", "method": "GET", "port": 443},
    {"host": "unrelated.org", "path": "/x", "type": "tcp", "port": 8080, "request_id": "sim-3"}
  ]
}`

func main() {
	addr := flag.String("addr", ":8085", "listen address")
	file := flag.String("file", "", "JSON file to serve as the feed (default: built-in sample)")
	flag.Parse()

	body := []byte(sampleFeed)
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("failed to read feed file: %v", err)
		}
		body = data
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/targets", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	log.Printf("feedsim listening on %s (feed at /targets)", *addr)
	if err := http.ListenAndServe(*addr, r); err != nil {
		log.Fatalf("feedsim failed: %v", err)
	}
}
