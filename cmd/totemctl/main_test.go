package main

import (
	"reflect"
	"testing"
)

func TestBuildRequest_SystemVerbs(t *testing.T) {
	for _, verb := range []string{"ping", "status", "capabilities"} {
		req, err := buildRequest(verb, nil)
		if err != nil {
			t.Fatalf("buildRequest(%q) error: %v", verb, err)
		}
		want := map[string]any{"action": verb}
		if !reflect.DeepEqual(req, want) {
			t.Errorf("buildRequest(%q) = %v, want %v", verb, req, want)
		}
	}
}

func TestBuildRequest_EventsPeek(t *testing.T) {
	req, err := buildRequest("events", []string{"--peek"})
	if err != nil {
		t.Fatalf("buildRequest error: %v", err)
	}
	params, ok := req["params"].(map[string]any)
	if !ok || params["peek"] != true {
		t.Errorf("expected peek param, got %v", req)
	}

	req, err = buildRequest("events", nil)
	if err != nil {
		t.Fatalf("buildRequest error: %v", err)
	}
	if _, ok := req["params"]; ok {
		t.Errorf("events without --peek should omit params, got %v", req)
	}
}

func TestBuildRequest_Express(t *testing.T) {
	req, err := buildRequest("express", []string{"happy", "--message", "Hi there", "--duration", "3"})
	if err != nil {
		t.Fatalf("buildRequest error: %v", err)
	}
	if req["module"] != "totem" || req["action"] != "express" {
		t.Fatalf("wrong shape: %v", req)
	}
	params := req["params"].(map[string]any)
	if params["emotion"] != "happy" || params["message"] != "Hi there" || params["duration"] != 3.0 {
		t.Errorf("wrong params: %v", params)
	}

	if _, err := buildRequest("express", nil); err == nil {
		t.Error("express without emotion should fail")
	}
}

func TestBuildRequest_Batch(t *testing.T) {
	req, err := buildRequest("batch", []string{`[{"module":"face","action":"clear"}]`})
	if err != nil {
		t.Fatalf("buildRequest error: %v", err)
	}
	batch, ok := req["batch"].([]map[string]any)
	if !ok || len(batch) != 1 || batch[0]["module"] != "face" {
		t.Errorf("wrong batch: %v", req)
	}

	if _, err := buildRequest("batch", []string{"not json"}); err == nil {
		t.Error("invalid batch JSON should fail")
	}
}

func TestBuildRequest_GenericModuleCommand(t *testing.T) {
	req, err := buildRequest("face", []string{"pixel", "x=3", "y=4", "on=1"})
	if err != nil {
		t.Fatalf("buildRequest error: %v", err)
	}
	if req["module"] != "face" || req["action"] != "pixel" {
		t.Fatalf("wrong shape: %v", req)
	}
	params := req["params"].(map[string]any)
	if params["x"] != 3.0 || params["y"] != 4.0 || params["on"] != 1.0 {
		t.Errorf("wrong params: %v", params)
	}

	if _, err := buildRequest("face", nil); err == nil {
		t.Error("module without action should fail")
	}
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want map[string]any
	}{
		{
			name: "strings stay strings",
			args: []string{"name=happy", "align=center"},
			want: map[string]any{"name": "happy", "align": "center"},
		},
		{
			name: "numbers and booleans keep their type",
			args: []string{"x=3", "delay=0.25", "loop=true"},
			want: map[string]any{"x": 3.0, "delay": 0.25, "loop": true},
		},
		{
			name: "json arrays parse",
			args: []string{`bitmap=[0,10,31]`},
			want: map[string]any{"bitmap": []any{0.0, 10.0, 31.0}},
		},
		{
			name: "value may contain equals sign",
			args: []string{"line1=a=b"},
			want: map[string]any{"line1": "a=b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseParams(tt.args)
			if err != nil {
				t.Fatalf("parseParams error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseParams(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}

	if _, err := parseParams([]string{"novalue"}); err == nil {
		t.Error("bare argument without = should fail")
	}
}
