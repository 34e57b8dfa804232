package scheduler_test

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/scheduler"
)

type countingExpirer struct {
	calls atomic.Int32
	err   error
	ran   chan struct{}
}

func (e *countingExpirer) ExpireJobs(context.Context) (int64, error) {
	e.calls.Add(1)
	select {
	case e.ran <- struct{}{}:
	default:
	}
	return 3, e.err
}

func discardLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func TestStart_SweepsImmediately(t *testing.T) {
	expirer := &countingExpirer{ran: make(chan struct{}, 1)}
	s := scheduler.New(expirer, "@every 1h", discardLogger())

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-expirer.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("no sweep at startup")
	}

	s.Stop()
	if n := expirer.calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestStart_SweepFailureIsNotFatal(t *testing.T) {
	expirer := &countingExpirer{ran: make(chan struct{}, 1), err: errors.New("store down")}
	s := scheduler.New(expirer, "@every 1h", discardLogger())

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-expirer.ran
	s.Stop()
}

func TestStart_RejectsInvalidSpec(t *testing.T) {
	expirer := &countingExpirer{ran: make(chan struct{}, 1)}
	s := scheduler.New(expirer, "every now and then", discardLogger())

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("Start accepted an invalid spec")
	}
	if n := expirer.calls.Load(); n != 0 {
		t.Errorf("calls = %d, want 0", n)
	}
}
