package xhttp

import (
	"bytes"
	"net/http"
	"strconv"

	go_json "github.com/goccy/go-json"
)

// WriteJSON encodes data before touching w, so an encoding failure turns
// into a plain 500 rather than a truncated body under a success status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := go_json.NewEncoder(&buf).Encode(data); err != nil {
		Error(w, http.StatusInternalServerError)
		return
	}
	SetHeaderContentTypeApplicationJSON(w)
	w.Header().Set(ContentLength, strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func WriteOK(w http.ResponseWriter, data any)      { WriteJSON(w, http.StatusOK, data) }
func WriteCreated(w http.ResponseWriter, data any) { WriteJSON(w, http.StatusCreated, data) }

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
