package pointshandlers

import "net/http"

// Handlers is the points HTTP surface.
type Handlers interface {
	Me(w http.ResponseWriter, r *http.Request)
	UserPoints(w http.ResponseWriter, r *http.Request)
	UserChart(w http.ResponseWriter, r *http.Request)
	Adjust(w http.ResponseWriter, r *http.Request)
	Ranking(w http.ResponseWriter, r *http.Request)
}
