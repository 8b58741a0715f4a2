// Package jsonapi provides the JSON:API error envelope used by every
// gateway endpoint. Data responses stay plain JSON; errors follow the
// JSON:API error object shape so clients get a stable code/detail pair.
package jsonapi

// Document is a JSON:API top-level document carrying errors or metadata.
type Document struct {
	Errors []Error `json:"errors,omitempty"`
	Meta   Meta    `json:"meta,omitempty"`
}

// Error represents a JSON:API error object.
type Error struct {
	Status string       `json:"status"`
	Code   string       `json:"code"`
	Title  string       `json:"title"`
	Detail string       `json:"detail,omitempty"`
	Source *ErrorSource `json:"source,omitempty"`
}

// ErrorSource indicates the request element that caused an error.
type ErrorSource struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
	Header    string `json:"header,omitempty"`
}

// Meta represents arbitrary metadata.
type Meta map[string]any

// ContentType is the JSON:API media type.
const ContentType = "application/vnd.api+json"
