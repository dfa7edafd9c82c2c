package batch

import "github.com/google/uuid"

const (
	DefaultConcurrency     = 4
	DefaultCheckpointEvery = 20
	DefaultPreviewLength   = 100
	logPreviewLength       = 40
)

type Option func(*Controller)

// WithConcurrency bounds the number of judge calls in flight.
func WithConcurrency(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithStartLine skips the rows before the 1-based data row n.
func WithStartLine(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.startLine = n
		}
	}
}

// WithCheckpointEvery sets how many written rows trigger a flush of the
// output table, the audit buffer and the score aggregate.
func WithCheckpointEvery(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.checkpointEvery = n
		}
	}
}

func WithRunID(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.runID = id
		}
	}
}

// WithPreviewLength sets how many runes of the question text are kept in
// audit entries.
func WithPreviewLength(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.previewLength = n
		}
	}
}

func defaults(c *Controller) {
	c.concurrency = DefaultConcurrency
	c.startLine = 1
	c.checkpointEvery = DefaultCheckpointEvery
	c.previewLength = DefaultPreviewLength
	c.runID = uuid.NewString()
}
