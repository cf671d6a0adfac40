package handler

import (
	"context"
	"net/http"
)

// Context is the request context handed to a HandlerFunc. Deadlines,
// cancellation and values are those of the request the handler serves, so it
// can be passed straight to the service layer.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
}

// NewContext binds w and r. Later changes to r's context are not observed.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return &requestContext{Context: r.Context(), w: w, r: r}
}

type requestContext struct {
	context.Context
	w http.ResponseWriter
	r *http.Request
}

func (c *requestContext) Request() *http.Request              { return c.r }
func (c *requestContext) ResponseWriter() http.ResponseWriter { return c.w }
