package specialtyhandlers

import "net/http"

// Handlers is the specialty HTTP surface.
type Handlers interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	My(w http.ResponseWriter, r *http.Request)
	Pending(w http.ResponseWriter, r *http.Request)
	Dashboard(w http.ResponseWriter, r *http.Request)
	ExportDashboard(w http.ResponseWriter, r *http.Request)

	Answer(w http.ResponseWriter, r *http.Request)
	SetStatus(w http.ResponseWriter, r *http.Request)
	Award(w http.ResponseWriter, r *http.Request)
	Assign(w http.ResponseWriter, r *http.Request)

	ClassRequirements(w http.ResponseWriter, r *http.Request)
	AddClassRequirement(w http.ResponseWriter, r *http.Request)
	ClassProgress(w http.ResponseWriter, r *http.Request)
}
