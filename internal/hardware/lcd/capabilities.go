package lcd

import "github.com/dannybabbev/totem/internal/module"

// Capabilities implements module.Module.
func (l *LCD) Capabilities() []module.Capability {
	position := map[string]module.ParamSpec{
		"row": {Type: "int", Required: true, Min: fptr(0), Max: fptr(float64(l.rows - 1))},
		"col": {Type: "int", Required: true, Min: fptr(0), Max: fptr(float64(l.cols - 1))},
	}
	byteValue := map[string]module.ParamSpec{
		"value": {Type: "int", Required: true, Min: fptr(0), Max: fptr(255)},
	}
	slotOnly := map[string]module.ParamSpec{
		"slot": {Type: "int", Required: true, Min: fptr(0), Max: fptr(7)},
	}

	return []module.Capability{
		{
			Action:      "write",
			Description: "Write text to the display with optional alignment",
			Params: map[string]module.ParamSpec{
				"line1": {Type: "string", Required: true},
				"line2": {Type: "string", Default: ""},
				"align": {Type: "string", Default: "left", Enum: []string{"left", "center", "right"}},
			},
		},
		{
			Action:      "scroll",
			Description: "Scroll long text across one row (background animation)",
			Params: map[string]module.ParamSpec{
				"text":  {Type: "string", Required: true},
				"row":   {Type: "int", Default: 0},
				"delay": {Type: "float", Default: 0.3},
			},
		},
		{
			Action:      "progress",
			Description: "Display a progress bar on line 2 with optional label on line 1",
			Params: map[string]module.ParamSpec{
				"percentage": {Type: "int", Required: true, Min: fptr(0), Max: fptr(100)},
				"label":      {Type: "string", Default: ""},
			},
		},
		{
			Action:      "write_at",
			Description: "Write a string starting at any (row, col) position",
			Params: merge(position, map[string]module.ParamSpec{
				"text": {Type: "string", Required: true},
			}),
		},
		{
			Action:      "clear",
			Description: "Clear the display and reset cursor",
		},
		{
			Action:      "home",
			Description: "Reset cursor to (0,0) without clearing",
		},
		{
			Action:      "cursor",
			Description: "Move cursor to a specific position",
			Params:      position,
		},
		{
			Action:      "cursor_mode",
			Description: "Set cursor display mode",
			Params: map[string]module.ParamSpec{
				"mode": {Type: "string", Required: true, Enum: []string{"hide", "line", "blink"}},
			},
		},
		{
			Action:      "display",
			Description: "Toggle character display on/off (hides text without erasing)",
			Params: map[string]module.ParamSpec{
				"on": {Type: "bool", Required: true},
			},
		},
		{
			Action:      "backlight",
			Description: "Toggle LCD backlight on/off",
			Params: map[string]module.ParamSpec{
				"on": {Type: "bool", Required: true},
			},
		},
		{
			Action:      "shift",
			Description: "Shift entire display content left or right",
			Params: map[string]module.ParamSpec{
				"amount": {Type: "int", Required: true},
			},
		},
		{
			Action:      "create_char",
			Description: "Define a custom 5x8 character in CGRAM (8 slots: 0-7)",
			Params: merge(slotOnly, map[string]module.ParamSpec{
				"bitmap": {Type: "list", Required: true},
			}),
		},
		{
			Action:      "write_char",
			Description: "Write a custom character from a CGRAM slot at the cursor",
			Params:      slotOnly,
		},
		{
			Action:      "raw_command",
			Description: "Send a raw HD44780 command byte",
			Params:      byteValue,
		},
		{
			Action:      "raw_write",
			Description: "Write a raw byte to the display data register",
			Params:      byteValue,
		},
		{
			Action:      "stop_scroll",
			Description: "Stop any running scroll animation",
		},
	}
}

func merge(maps ...map[string]module.ParamSpec) map[string]module.ParamSpec {
	out := make(map[string]module.ParamSpec)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func fptr(v float64) *float64 { return &v }
