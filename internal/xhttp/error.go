package xhttp

import "net/http"

type statusBody struct {
	Message string `json:"message"`
}

// Error writes the bare status text in the same JSON shape xerrors uses,
// for paths that fail before a request-scoped error is available.
func Error(w http.ResponseWriter, status int) {
	WriteJSON(w, status, statusBody{Message: http.StatusText(status)})
}
