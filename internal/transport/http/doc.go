// Package http contains the HTTP transport layer: chi handlers that decode
// requests, call the service layer and render JSON responses or file
// downloads. Errors are mapped to RFC 7807 problem responses.
package http
