package filter

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

type upperTransformer struct {
	from, to string
}

func (f *upperTransformer) Name() string { return "replace_" + f.from }

func (f *upperTransformer) Transform(_ context.Context, data []byte) ([]byte, bool) {
	if !bytes.Contains(data, []byte(f.from)) {
		return nil, false
	}
	return bytes.ReplaceAll(data, []byte(f.from), []byte(f.to)), true
}

type staticInspector struct {
	name   string
	reject bool
	err    error
	calls  int
}

func (f *staticInspector) Name() string { return f.name }

func (f *staticInspector) Inspect(context.Context, *Subject) (Decision, error) {
	f.calls++
	if f.err != nil {
		return Decision{}, f.err
	}
	if f.reject {
		return Reject(f.name + " says no"), nil
	}
	return Allow(), nil
}

func TestTransformChain_Sequential(t *testing.T) {
	chain := NewTransformChain(newTestLogger(),
		&upperTransformer{from: "a", to: "b"},
		&upperTransformer{from: "b", to: "c"},
	)

	out, changed := chain.Transform(context.Background(), []byte("aXb"))
	if !changed {
		t.Fatal("expected changed")
	}
	if string(out) != "cXc" {
		t.Errorf("expected cXc, got %s", out)
	}
}

func TestTransformChain_Unchanged(t *testing.T) {
	chain := NewTransformChain(newTestLogger(), &upperTransformer{from: "a", to: "b"})
	out, changed := chain.Transform(context.Background(), []byte("xyz"))
	if changed || out != nil {
		t.Errorf("expected unchanged, got %q %v", out, changed)
	}
}

func TestTransformChain_Empty(t *testing.T) {
	chain := NewTransformChain(newTestLogger())
	if _, changed := chain.Transform(context.Background(), []byte("a@b.cd")); changed {
		t.Error("expected empty chain to leave payload alone")
	}
	if chain.Len() != 0 {
		t.Errorf("expected 0 filters, got %d", chain.Len())
	}
}

func TestTransformChain_Name(t *testing.T) {
	chain := NewTransformChain(newTestLogger(), &upperTransformer{from: "a"})
	chain.AddFilter(NewEmailRedactor())
	if chain.Name() != "replace_a+email_redactor" {
		t.Errorf("unexpected name %q", chain.Name())
	}
}

func TestInspectChain_FirstRejectWins(t *testing.T) {
	first := &staticInspector{name: "first"}
	second := &staticInspector{name: "second", reject: true}
	third := &staticInspector{name: "third", reject: true}
	chain := NewInspectChain(newTestLogger(), first, second, third)

	d, err := chain.Inspect(context.Background(), &Subject{})
	if err != nil {
		t.Fatal(err)
	}
	if !d.Rejected() {
		t.Fatal("expected rejected")
	}
	if d.Filter != "second" {
		t.Errorf("expected filter second, got %s", d.Filter)
	}
	if third.calls != 0 {
		t.Errorf("expected third filter to be skipped, ran %d times", third.calls)
	}
}

func TestInspectChain_AllAllow(t *testing.T) {
	chain := NewInspectChain(newTestLogger(), &staticInspector{name: "a"}, &staticInspector{name: "b"})
	d, err := chain.Inspect(context.Background(), &Subject{})
	if err != nil {
		t.Fatal(err)
	}
	if d.Rejected() {
		t.Errorf("expected allow, got reject by %s", d.Filter)
	}
}

func TestInspectChain_Error(t *testing.T) {
	boom := errors.New("boom")
	after := &staticInspector{name: "after", reject: true}
	chain := NewInspectChain(newTestLogger(), &staticInspector{name: "broken", err: boom}, after)

	_, err := chain.Inspect(context.Background(), &Subject{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if after.calls != 0 {
		t.Error("expected chain to stop at the error")
	}
}

func TestInspectChain_KeepsInnerFilterName(t *testing.T) {
	inner := NewInspectChain(newTestLogger(), &staticInspector{name: "inner", reject: true})
	outer := NewInspectChain(newTestLogger(), inner)

	d, err := outer.Inspect(context.Background(), &Subject{})
	if err != nil {
		t.Fatal(err)
	}
	if d.Filter != "inner" {
		t.Errorf("expected filter inner, got %s", d.Filter)
	}
}
