// Package logging builds the JSON slog logger shared by both binaries.
package logging

import (
	"io"
	"log/slog"

	"github.com/go-chi/httplog/v3"
)

// New returns a JSON logger whose attribute names follow the ECS schema used
// by httplog, tagged with the application name, version and environment.
func New(w io.Writer, app, version, env string, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app),
		slog.String("version", version),
		slog.String("env", env),
	)
}
