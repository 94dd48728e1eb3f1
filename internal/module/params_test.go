package module

import (
	"errors"
	"testing"
)

func TestParamsString(t *testing.T) {
	p := Params{"name": "happy", "n": float64(3)}

	if got := p.String("name", "x"); got != "happy" {
		t.Errorf("String(name) = %q", got)
	}
	if got := p.String("missing", "fallback"); got != "fallback" {
		t.Errorf("String(missing) = %q", got)
	}
	if got := p.String("n", "fallback"); got != "fallback" {
		t.Errorf("String on number = %q, want fallback", got)
	}
}

func TestParamsInt(t *testing.T) {
	// JSON numbers decode as float64.
	p := Params{"x": float64(5), "frac": 2.5, "native": 7}

	if got := p.Int("x", 0); got != 5 {
		t.Errorf("Int(x) = %d, want 5", got)
	}
	if got := p.Int("frac", -1); got != -1 {
		t.Errorf("Int(frac) = %d, want default for fractional value", got)
	}
	if got := p.Int("native", 0); got != 7 {
		t.Errorf("Int(native) = %d, want 7", got)
	}
	if got := p.Int("missing", 42); got != 42 {
		t.Errorf("Int(missing) = %d, want 42", got)
	}
}

func TestParamsFloat(t *testing.T) {
	p := Params{"f": 1.5, "i": 3}

	if got := p.Float("f", 0); got != 1.5 {
		t.Errorf("Float(f) = %v", got)
	}
	if got := p.Float("i", 0); got != 3.0 {
		t.Errorf("Float(i) = %v", got)
	}
	if got := p.Float("missing", 9.9); got != 9.9 {
		t.Errorf("Float(missing) = %v", got)
	}
}

func TestParamsBool(t *testing.T) {
	p := Params{"on": true}

	if !p.Bool("on", false) {
		t.Error("Bool(on) = false")
	}
	if p.Bool("missing", false) {
		t.Error("Bool(missing) = true")
	}
}

func TestParamsRequireString(t *testing.T) {
	p := Params{"name": "happy", "n": float64(1)}

	if got, err := p.RequireString("name"); err != nil || got != "happy" {
		t.Errorf("RequireString(name) = %q, %v", got, err)
	}
	if _, err := p.RequireString("missing"); !errors.Is(err, ErrMissingParam) {
		t.Errorf("RequireString(missing) error = %v, want ErrMissingParam", err)
	}
	if _, err := p.RequireString("n"); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("RequireString(n) error = %v, want ErrInvalidParam", err)
	}
}

func TestParamsRequireInt(t *testing.T) {
	p := Params{"x": float64(4), "s": "nope"}

	if got, err := p.RequireInt("x"); err != nil || got != 4 {
		t.Errorf("RequireInt(x) = %d, %v", got, err)
	}
	if _, err := p.RequireInt("missing"); !errors.Is(err, ErrMissingParam) {
		t.Errorf("RequireInt(missing) error = %v, want ErrMissingParam", err)
	}
	if _, err := p.RequireInt("s"); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("RequireInt(s) error = %v, want ErrInvalidParam", err)
	}
}

func TestResponseHelpers(t *testing.T) {
	ok := OK(map[string]any{"pong": true})
	if !ok.OK || ok.Data["pong"] != true {
		t.Errorf("OK() = %+v", ok)
	}

	e := Errf("unknown action: %s", "jump")
	if e.OK || e.Error != "unknown action: jump" {
		t.Errorf("Errf() = %+v", e)
	}
}
