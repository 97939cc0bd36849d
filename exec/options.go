package exec

import (
	"context"
	"io"
)

// Option is a function that configures a Command at creation time.
type Option func(*Command)

// WithEnv returns an Option that adds environment variables.
func WithEnv(env map[string]string) Option {
	return func(c *Command) {
		c.WithEnv(env)
	}
}

// WithDir returns an Option that sets the working directory.
func WithDir(dir string) Option {
	return func(c *Command) {
		c.WithDir(dir)
	}
}

// WithContext returns an Option that sets the context.
func WithContext(ctx context.Context) Option {
	return func(c *Command) {
		c.WithContext(ctx)
	}
}

// WithStdout returns an Option that sets the stdout writer.
func WithStdout(w io.Writer) Option {
	return func(c *Command) {
		c.WithStdout(w)
	}
}

// WithStderr returns an Option that sets the stderr writer.
func WithStderr(w io.Writer) Option {
	return func(c *Command) {
		c.WithStderr(w)
	}
}

// WithStdin returns an Option that sets the stdin reader.
func WithStdin(r io.Reader) Option {
	return func(c *Command) {
		c.WithStdin(r)
	}
}

// WithLineHandler returns an Option that sets the line handler.
func WithLineHandler(h LineHandler) Option {
	return func(c *Command) {
		c.WithLineHandler(h)
	}
}

// config holds the process settings that are copied on Clone.
type config struct {
	env map[string]string
	dir string
}

func newConfig() *config {
	return &config{
		env: make(map[string]string),
	}
}

func (c *config) clone() *config {
	clone := &config{
		env: make(map[string]string, len(c.env)),
		dir: c.dir,
	}
	for k, v := range c.env {
		clone.env[k] = v
	}
	return clone
}

// environ returns nil when the child should inherit the environment unchanged.
func (c *config) environ(base []string) []string {
	if len(c.env) == 0 {
		return nil
	}
	env := append([]string{}, base...)
	for k, v := range c.env {
		env = append(env, k+"="+v)
	}
	return env
}
