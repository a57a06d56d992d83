package errors

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type of problem responses.
const ContentTypeProblemJSON = "application/problem+json"

// Mapper translates a service error into a problem. The bool reports whether
// the mapper recognised err.
type Mapper func(err error) (ProblemDetail, bool)

// Responder writes problems, consulting its mappers in order for errors.
type Responder struct {
	baseURI string
	mappers []Mapper
}

// NewResponder builds a responder. A non-empty baseURI is prefixed to relative problem types.
func NewResponder(baseURI string, mappers ...Mapper) *Responder {
	return &Responder{baseURI: strings.TrimSuffix(baseURI, "/"), mappers: mappers}
}

// Respond writes problem, defaulting its instance to the request path.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && strings.HasPrefix(problem.Type, "/") {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError writes the problem for err. Unmapped errors become 500s.
func (r *Responder) RespondError(c *gin.Context, err error) {
	_ = c.Error(err)
	r.Respond(c, r.Resolve(err))
}

// Resolve returns the problem RespondError would write for err.
func (r *Responder) Resolve(err error) ProblemDetail {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			return problem
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem
	}
	return ErrInternal.WithDetail(err.Error())
}
