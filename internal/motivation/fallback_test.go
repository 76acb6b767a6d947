package motivation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type stubProvider struct {
	msg   string
	err   error
	block bool
}

func (p *stubProvider) Message(ctx context.Context, _ Request) (string, error) {
	if p.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return p.msg, p.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFallback_PrimarySucceeds(t *testing.T) {
	f := WithFallback(&stubProvider{msg: "generated"}, &stubProvider{msg: "canned"}, discardLogger())
	msg, err := f.Message(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Message: %v", err)
	}
	if msg != "generated" {
		t.Errorf("msg = %q, want primary answer", msg)
	}
}

func TestFallback_PrimaryFails(t *testing.T) {
	f := WithFallback(&stubProvider{err: errors.New("rate limited")}, &stubProvider{msg: "canned"}, discardLogger())
	msg, err := f.Message(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Message: %v", err)
	}
	if msg != "canned" {
		t.Errorf("msg = %q, want fallback answer", msg)
	}
}

func TestFallback_PrimaryTimesOut(t *testing.T) {
	f := WithFallback(&stubProvider{block: true}, &stubProvider{msg: "canned"}, discardLogger()).
		WithTimeout(20 * time.Millisecond)
	msg, err := f.Message(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Message: %v", err)
	}
	if msg != "canned" {
		t.Errorf("msg = %q, want fallback answer after timeout", msg)
	}
}

func TestSelect_StaticWithoutCredential(t *testing.T) {
	p := Select(ModeAuto, "", "", 0, discardLogger())
	if _, ok := p.(*Static); !ok {
		t.Errorf("auto mode without key should select the static provider, got %T", p)
	}
}

func TestSelect_GenerativeWithCredential(t *testing.T) {
	p := Select(ModeAuto, "sk-test", "", 0, discardLogger())
	if _, ok := p.(*Fallback); !ok {
		t.Errorf("auto mode with key should select the wrapped OpenAI provider, got %T", p)
	}
}

func TestSelect_ExplicitStatic(t *testing.T) {
	p := Select(ModeStatic, "sk-test", "", 0, discardLogger())
	if _, ok := p.(*Static); !ok {
		t.Errorf("static mode should ignore the credential, got %T", p)
	}
}
