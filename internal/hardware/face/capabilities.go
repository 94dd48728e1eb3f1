package face

import "github.com/dannybabbev/totem/internal/module"

// Capabilities implements module.Module.
func (f *Face) Capabilities() []module.Capability {
	coords := func() map[string]module.ParamSpec {
		return map[string]module.ParamSpec{
			"x1":    {Type: "int", Required: true},
			"y1":    {Type: "int", Required: true},
			"x2":    {Type: "int", Required: true},
			"y2":    {Type: "int", Required: true},
			"flush": {Type: "bool", Default: true},
		}
	}
	withFill := func() map[string]module.ParamSpec {
		p := coords()
		p["fill"] = module.ParamSpec{Type: "bool", Default: false}
		return p
	}

	return []module.Capability{
		{
			Action:      "expression",
			Description: "Set a named facial expression",
			Params: map[string]module.ParamSpec{
				"name": {Type: "string", Required: true, Enum: Expressions()},
			},
		},
		{
			Action:      "animate",
			Description: "Start a named background animation",
			Params: map[string]module.ParamSpec{
				"name":     {Type: "string", Required: true, Enum: animationNames},
				"duration": {Type: "float", Default: 0},
			},
		},
		{
			Action:      "stop",
			Description: "Stop any running animation",
		},
		{
			Action:      "blink",
			Description: "Single eye blink",
			Params: map[string]module.ParamSpec{
				"duration_ms": {Type: "int", Default: 150},
			},
		},
		{
			Action:      "custom",
			Description: "Draw an arbitrary 8x8 bitmap grid",
			Params: map[string]module.ParamSpec{
				"grid": {Type: "list", Required: true},
			},
		},
		{
			Action:      "pixel",
			Description: "Set or clear a single pixel",
			Params: map[string]module.ParamSpec{
				"x":     {Type: "int", Required: true, Min: fptr(0), Max: fptr(7)},
				"y":     {Type: "int", Required: true, Min: fptr(0), Max: fptr(7)},
				"on":    {Type: "int", Default: 1},
				"flush": {Type: "bool", Default: true},
			},
		},
		{
			Action:      "line",
			Description: "Draw a line between two points",
			Params:      coords(),
		},
		{
			Action:      "rect",
			Description: "Draw a rectangle",
			Params:      withFill(),
		},
		{
			Action:      "ellipse",
			Description: "Draw an ellipse or circle",
			Params:      withFill(),
		},
		{
			Action:      "text",
			Description: "Draw a character at a position (tiny pixel font)",
			Params: map[string]module.ParamSpec{
				"x":     {Type: "int", Required: true},
				"y":     {Type: "int", Required: true},
				"char":  {Type: "string", Required: true},
				"flush": {Type: "bool", Default: true},
			},
		},
		{
			Action:      "clear",
			Description: "Clear the display (all pixels off)",
			Params: map[string]module.ParamSpec{
				"flush": {Type: "bool", Default: true},
			},
		},
		{
			Action:      "invert",
			Description: "Invert all pixels on the display",
			Params: map[string]module.ParamSpec{
				"flush": {Type: "bool", Default: true},
			},
		},
		{
			Action:      "brightness",
			Description: "Set LED brightness",
			Params: map[string]module.ParamSpec{
				"value": {Type: "int", Required: true, Min: fptr(0), Max: fptr(255)},
			},
		},
		{
			Action:      "flush",
			Description: "Flush the internal pixel buffer to the display",
		},
		{
			Action:      "sequence",
			Description: "Play a custom animation (list of frames with timing)",
			Params: map[string]module.ParamSpec{
				"frames": {Type: "list", Required: true},
				"loop":   {Type: "bool", Default: false},
			},
		},
	}
}

func fptr(v float64) *float64 { return &v }
