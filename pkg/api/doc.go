// Package api assembles the modsearch HTTP server.
//
// Server wires the search handlers into a gorilla/mux router behind the
// request ID, logging, recovery, CORS, Prometheus and OpenTelemetry
// middleware:
//
//	svc := search.NewService(indexClient)
//	server := api.NewServer(svc, api.Options{Logger: logger, Metrics: metrics})
//	http.ListenAndServe(":8080", server)
//
// Unknown routes answer with a JSON 404 body.
package api
