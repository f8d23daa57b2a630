package clubhandlers

import "net/http"

// Handlers is the club HTTP surface.
type Handlers interface {
	CreateClub(w http.ResponseWriter, r *http.Request)
	GetClub(w http.ResponseWriter, r *http.Request)
	ListMembers(w http.ResponseWriter, r *http.Request)
	AddMember(w http.ResponseWriter, r *http.Request)
	UpdateMemberRole(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}
