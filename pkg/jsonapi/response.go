package jsonapi

import (
	"encoding/json"
	"net/http"
)

// WriteError writes an error document. The HTTP status is taken from
// the first error.
func WriteError(w http.ResponseWriter, errs ...Error) {
	if len(errs) == 0 {
		errs = []Error{ErrInternal("")}
	}
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(errs[0].StatusCode())
	json.NewEncoder(w).Encode(Document{Errors: errs})
}

// WriteMeta writes a document carrying only metadata.
func WriteMeta(w http.ResponseWriter, status int, meta Meta) {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Document{Meta: meta})
}
