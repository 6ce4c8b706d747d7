package host

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tkingovr/body-guard/internal/body"
)

func TestPipeline_AccessOrder(t *testing.T) {
	var calls []string
	handler := func(name string, code Code) AccessHandler {
		return func(context.Context, *Request) Code {
			calls = append(calls, name)
			return code
		}
	}

	p := NewPipeline(nil)
	p.AddAccess(handler("a", Declined))
	p.AddAccess(handler("b", Status(403)))
	p.AddAccess(handler("c", Declined))
	p.Start()

	code := p.Access(context.Background(), NewRequest("POST", "/", 0))
	if code != Status(403) {
		t.Errorf("expected 403, got %s", code)
	}
	if strings.Join(calls, ",") != "a,b" {
		t.Errorf("expected handlers a,b to run, got %v", calls)
	}
}

func TestPipeline_AllDeclined(t *testing.T) {
	p := NewPipeline(nil)
	p.AddAccess(func(context.Context, *Request) Code { return Declined })
	p.Start()

	if code := p.Access(context.Background(), NewRequest("GET", "/", 0)); code != Declined {
		t.Errorf("expected declined, got %s", code)
	}
}

func TestPipeline_BodyFilterOrder(t *testing.T) {
	var calls []string
	p := NewPipeline(nil)
	for _, name := range []string{"first", "second"} {
		p.PushBodyFilter(func(next BodyFilter) BodyFilter {
			return func(ctx context.Context, r *Request, in *body.Link) Code {
				calls = append(calls, name)
				return next(ctx, r, in)
			}
		})
	}
	p.Start()

	r := NewRequest("GET", "/", 0)
	in := body.MemoryLink([]byte("x"))
	if code := p.Filter(context.Background(), r, in); code != OK {
		t.Fatalf("expected ok, got %s", code)
	}
	// The last pushed filter is the top of the chain.
	if strings.Join(calls, ",") != "second,first" {
		t.Errorf("unexpected order %v", calls)
	}
	if r.Output != in {
		t.Error("expected Emit to store the chain as output")
	}
}

func TestPipeline_SealedAfterStart(t *testing.T) {
	p := NewPipeline(nil)
	p.Start()
	p.Start()

	if err := p.AddAccess(func(context.Context, *Request) Code { return OK }); !errors.Is(err, ErrStarted) {
		t.Errorf("expected ErrStarted, got %v", err)
	}
	err := p.PushBodyFilter(func(next BodyFilter) BodyFilter { return next })
	if !errors.Is(err, ErrStarted) {
		t.Errorf("expected ErrStarted, got %v", err)
	}
}

func TestPipeline_NotStarted(t *testing.T) {
	p := NewPipeline(nil)
	if code := p.Access(context.Background(), NewRequest("GET", "/", 0)); code != Error {
		t.Errorf("expected error before start, got %s", code)
	}
	if code := p.Filter(context.Background(), NewRequest("GET", "/", 0), nil); code != Error {
		t.Errorf("expected error before start, got %s", code)
	}
}

func TestArena_Limit(t *testing.T) {
	a := NewArena(10)
	if _, err := a.Alloc(6); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Alloc(5); err == nil {
		t.Error("expected allocation past the limit to fail")
	}
	b, err := a.Alloc(4)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 4 || a.Used() != 10 {
		t.Errorf("expected 4 bytes and 10 used, got %d and %d", len(b), a.Used())
	}
	if _, err := NewArena(0).Alloc(1 << 20); err != nil {
		t.Errorf("unbounded arena refused allocation: %v", err)
	}
	if _, err := a.Alloc(-1); err == nil {
		t.Error("expected negative size to fail")
	}
}

func TestResponse_Framing(t *testing.T) {
	r := NewRequest("GET", "/", 0)
	if r.Response.ContentLength != -1 {
		t.Errorf("expected unknown length, got %d", r.Response.ContentLength)
	}
	r.Response.SetContentLength(12)
	r.Response.MarkHeadersSent()
	if !r.Response.HeadersSent() || r.Response.ContentLength != 12 {
		t.Errorf("unexpected framing state %+v", r.Response)
	}
}

func TestCode_String(t *testing.T) {
	tests := map[Code]string{
		OK:          "ok",
		Error:       "error",
		Declined:    "declined",
		Status(403): "403 Forbidden",
		Code(-3):    "code(-3)",
	}
	for code, want := range tests {
		if got := code.String(); got != want {
			t.Errorf("Code(%d).String() = %q, want %q", int(code), got, want)
		}
	}
}
