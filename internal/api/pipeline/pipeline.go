// Package pipeline runs the ordered checks that guard a request before its
// handler: rate limits, authentication and payload validation. Stages work on
// a framework-independent Request so they can be tested without HTTP.
package pipeline

import (
	"context"
	"net/http"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// Request is the view of an inbound request shared by all stages.
type Request struct {
	Method    string
	Path      string
	ClientKey string
	Header    http.Header
	Body      []byte

	// ResponseHeader collects headers that must be sent with the response,
	// whatever its outcome.
	ResponseHeader http.Header

	// Identity is set by the authentication stage.
	Identity *domain.Identity
	// Payload is set by a validation stage.
	Payload any
}

func NewRequest(method, path, clientKey string, header http.Header, body []byte) *Request {
	if header == nil {
		header = http.Header{}
	}
	return &Request{
		Method:         method,
		Path:           path,
		ClientKey:      clientKey,
		Header:         header,
		Body:           body,
		ResponseHeader: http.Header{},
	}
}

// Stage is a single named check. A nil error continues the pipeline; any
// error stops it and becomes the response.
type Stage struct {
	Name string
	Run  func(ctx context.Context, req *Request) error
}

// Pipeline is an immutable ordered list of stages.
type Pipeline struct {
	stages []Stage
}

func New(stages ...Stage) Pipeline {
	return Pipeline{stages: append([]Stage(nil), stages...)}
}

// Then returns a new pipeline with stages appended; p is left unchanged.
func (p Pipeline) Then(stages ...Stage) Pipeline {
	out := make([]Stage, 0, len(p.stages)+len(stages))
	out = append(out, p.stages...)
	out = append(out, stages...)
	return Pipeline{stages: out}
}

// Names lists the stage names in execution order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

func (p Pipeline) Len() int { return len(p.stages) }

// Run executes the stages in order and stops at the first error.
func (p Pipeline) Run(ctx context.Context, req *Request) error {
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Run(ctx, req); err != nil {
			return err
		}
	}
	return nil
}
