package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

type countingSource struct {
	calls atomic.Int32
	err   error
}

func (s *countingSource) Token() (*oauth2.Token, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &oauth2.Token{AccessToken: "access", Expiry: time.Now().Add(time.Hour)}, nil
}

func TestCheck(t *testing.T) {
	ok := NewCredentialsChecker(&countingSource{}, time.Minute)
	if !ok.check(context.Background()) {
		t.Error("check() = false with a working token source")
	}

	bad := NewCredentialsChecker(&countingSource{err: errors.New("invalid_grant")}, time.Minute)
	if bad.check(context.Background()) {
		t.Error("check() = true with a failing token source")
	}
}

func TestCheckSkipsCanceledContext(t *testing.T) {
	src := &countingSource{}
	c := NewCredentialsChecker(src, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if c.check(ctx) {
		t.Error("check() = true after cancel")
	}
	if src.calls.Load() != 0 {
		t.Errorf("token source called %d times", src.calls.Load())
	}
}

func TestStartRunsUntilCanceled(t *testing.T) {
	src := &countingSource{}
	c := NewCredentialsChecker(src, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for src.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d checks ran", src.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
