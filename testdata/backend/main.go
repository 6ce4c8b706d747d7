// main.go is a minimal upstream for trying bodyguard by hand. GET returns a
// page containing an email address; POST and PUT echo the request body.
// Usage: go run ./testdata/backend [-listen 127.0.0.1:8081]
package main

import (
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
)

func main() {
	listen := flag.String("listen", "127.0.0.1:8081", "listen address")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			logger.Info("received GET request", "path", r.URL.Path)
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			io.WriteString(w, "GET response from backend, contact admin@example.com\n")

		case http.MethodPost, http.MethodPut:
			data, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			logger.Info("received body", "method", r.Method, "path", r.URL.Path, "bytes", len(data))
			w.Header().Set("Content-Type", r.Header.Get("Content-Type"))
			w.Write(data)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	logger.Info("backend listening", "listen", *listen)
	if err := http.ListenAndServe(*listen, nil); err != nil {
		logger.Error("backend stopped", "error", err)
		os.Exit(1)
	}
}
