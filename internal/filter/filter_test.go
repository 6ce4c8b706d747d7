package filter

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/tkingovr/body-guard/internal/body"
	"github.com/tkingovr/body-guard/internal/body/bodytest"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// inspect materializes a chain built from layout and parts and runs f on it.
func inspect(t *testing.T, f Inspector, layout string, parts ...string) Decision {
	t.Helper()
	head := bodytest.Build(t, layout, parts...)
	var d Decision
	err := body.NewReader(nil).Scan(context.Background(), head, func(b *body.Body) error {
		var err error
		d, err = f.Inspect(context.Background(), &Subject{
			Method:      "POST",
			Path:        "/upload",
			ContentType: "application/octet-stream",
			Body:        b,
		})
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	return d
}
