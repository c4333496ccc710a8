// Command mockapi serves the fixture dataset over the same HTTP paths the
// real flood-monitoring backend exposes. It is meant for local development
// and demos when no backend is reachable.
package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"time"

	"floodwatch/internal/cfg"
	"floodwatch/internal/mockdata"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const mapHTML = `<!DOCTYPE html>
<html>
<head><title>Flood Extent Map</title>
<style>
  body { margin: 0; font-family: sans-serif; background: #e6f2ff;
         display: flex; align-items: center; justify-content: center; height: 100vh; }
  .placeholder { text-align: center; color: #1a365d; }
</style>
</head>
<body>
<div class="placeholder">
  <h2>Flood Extent Map</h2>
  <p>Ravi River basin &mdash; Madhopur Station</p>
</div>
</body>
</html>`

func main() {
	addr := flag.String("addr", ":5000", "listen address")
	flag.Parse()

	paths := cfg.DefaultEndpointPaths()

	r := mux.NewRouter()
	r.HandleFunc(paths[cfg.EndpointFloodRisk], serveJSON(func() any { return mockdata.FloodRisk() })).Methods("GET")
	r.HandleFunc(paths[cfg.EndpointRiverLevel], serveJSON(func() any { return mockdata.RiverLevel() })).Methods("GET")
	r.HandleFunc(paths[cfg.EndpointForecastRain], serveJSON(func() any { return mockdata.RainForecast() })).Methods("GET")
	r.HandleFunc(paths[cfg.EndpointForecastRiver], serveJSON(func() any { return mockdata.RiverForecast() })).Methods("GET")
	r.HandleFunc(paths[cfg.EndpointHistoryRiver], serveJSON(func() any { return mockdata.RiverHistory() })).Methods("GET")
	r.HandleFunc(paths[cfg.EndpointRainfallComparison], serveJSON(func() any { return mockdata.RainfallComparison() })).Methods("GET")
	r.HandleFunc(paths[cfg.EndpointMap], func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(mapHTML))
	}).Methods("GET")

	server := &http.Server{
		Addr:         *addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info().Str("address", *addr).Msg("starting mock flood API")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("mock flood API failed")
	}
}

func serveJSON(data func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(data()); err != nil {
			log.Error().Err(err).Msg("failed to encode response")
		}
	}
}
