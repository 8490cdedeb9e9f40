package hooks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

func quietRunner() *Runner {
	return NewRunner(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRun_FailureDoesNotStopLaterHooks(t *testing.T) {
	runner := quietRunner()

	var ran []string
	runner.Run(context.Background(),
		Named("first", func(ctx context.Context) error {
			ran = append(ran, "first")
			return errors.New("boom")
		}),
		Named("second", func(ctx context.Context) error {
			ran = append(ran, "second")
			return nil
		}),
	)

	if len(ran) != 2 || ran[1] != "second" {
		t.Errorf("expected both hooks to run, got %v", ran)
	}
}

func TestRun_PanicIsContained(t *testing.T) {
	runner := quietRunner()

	var secondRan bool
	runner.Run(context.Background(),
		Named("panics", func(ctx context.Context) error {
			panic("unexpected state")
		}),
		Named("second", func(ctx context.Context) error {
			secondRan = true
			return nil
		}),
	)

	if !secondRan {
		t.Error("expected hook after panic to run")
	}
}

func TestRun_NoHooks(t *testing.T) {
	// Just must not blow up.
	quietRunner().Run(context.Background())
}
