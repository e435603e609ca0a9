package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"

	"github.com/gorilla/mux"
)

// Route is a single registered path and the methods it accepts
type Route struct {
	Methods string
	Path    string
}

// Routes walks through all routes registered in the router
func Routes(r *mux.Router) []Route {
	var routes []Route
	_ = r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			pathTemplate = "<unknown>"
		}

		// If no methods are specified, assume all methods
		methodStr := "ANY"
		if methods, err := route.GetMethods(); err == nil && len(methods) > 0 {
			methodStr = strings.Join(methods, ",")
		}

		// Subrouter prefixes show up as their own walk entries without a handler
		if route.GetHandler() == nil {
			return nil
		}
		routes = append(routes, Route{Methods: methodStr, Path: pathTemplate})
		return nil
	})
	return routes
}

// PrintRoutes writes the route table to w
func PrintRoutes(w io.Writer, r *mux.Router) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH")
	for _, route := range Routes(r) {
		fmt.Fprintf(tw, "%s\t%s\n", route.Methods, route.Path)
	}
	tw.Flush()
}

// PrintRoutesHandler returns a handler function to print all routes
func PrintRoutesHandler(router *mux.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		PrintRoutes(w, router)
	}
}
