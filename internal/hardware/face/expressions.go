package face

import "sort"

// Built-in expressions. All share the same round-head outline so that
// switching between them reads as one face changing, not as different
// sprites.
var (
	Neutral = Frame{
		{0, 0, 1, 1, 1, 1, 0, 0},
		{0, 1, 0, 0, 0, 0, 1, 0},
		{1, 0, 1, 0, 0, 1, 0, 1}, // eyes open
		{1, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 1, 0, 0, 1, 0, 1}, // smile corners
		{1, 0, 0, 1, 1, 0, 0, 1}, // smile bottom
		{0, 1, 0, 0, 0, 0, 1, 0},
		{0, 0, 1, 1, 1, 1, 0, 0},
	}

	Happy = Frame{
		{0, 0, 1, 1, 1, 1, 0, 0},
		{0, 1, 0, 0, 0, 0, 1, 0},
		{1, 0, 1, 0, 0, 1, 0, 1},
		{1, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 1, 0, 0, 1, 0, 1},
		{1, 0, 1, 1, 1, 1, 0, 1}, // wide grin
		{0, 1, 0, 0, 0, 0, 1, 0},
		{0, 0, 1, 1, 1, 1, 0, 0},
	}

	Sad = Frame{
		{0, 0, 1, 1, 1, 1, 0, 0},
		{0, 1, 0, 0, 0, 0, 1, 0},
		{1, 0, 1, 0, 0, 1, 0, 1},
		{1, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 0, 1, 1, 0, 0, 1}, // frown top
		{1, 0, 1, 0, 0, 1, 0, 1}, // frown corners
		{0, 1, 0, 0, 0, 0, 1, 0},
		{0, 0, 1, 1, 1, 1, 0, 0},
	}

	Surprised = Frame{
		{0, 0, 1, 1, 1, 1, 0, 0},
		{0, 1, 0, 0, 0, 0, 1, 0},
		{1, 0, 1, 0, 0, 1, 0, 1}, // wide eyes
		{1, 0, 1, 0, 0, 1, 0, 1},
		{1, 0, 0, 1, 1, 0, 0, 1}, // round mouth
		{1, 0, 0, 1, 1, 0, 0, 1},
		{0, 1, 0, 0, 0, 0, 1, 0},
		{0, 0, 1, 1, 1, 1, 0, 0},
	}

	Angry = Frame{
		{0, 0, 1, 1, 1, 1, 0, 0},
		{0, 1, 1, 0, 0, 1, 1, 0}, // brows
		{1, 0, 1, 0, 0, 1, 0, 1},
		{1, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 1, 1, 1, 1, 0, 1}, // flat mouth
		{0, 1, 0, 0, 0, 0, 1, 0},
		{0, 0, 1, 1, 1, 1, 0, 0},
	}

	Blink = Frame{
		{0, 0, 1, 1, 1, 1, 0, 0},
		{0, 1, 0, 0, 0, 0, 1, 0},
		{1, 0, 0, 0, 0, 0, 0, 1},
		{1, 1, 1, 0, 0, 1, 1, 1}, // eyes closed
		{1, 0, 1, 0, 0, 1, 0, 1},
		{1, 0, 0, 1, 1, 0, 0, 1},
		{0, 1, 0, 0, 0, 0, 1, 0},
		{0, 0, 1, 1, 1, 1, 0, 0},
	}

	TalkClosed = Frame{
		{0, 0, 1, 1, 1, 1, 0, 0},
		{0, 1, 0, 0, 0, 0, 1, 0},
		{1, 0, 1, 0, 0, 1, 0, 1},
		{1, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 1, 1, 1, 1, 0, 1},
		{0, 1, 0, 0, 0, 0, 1, 0},
		{0, 0, 1, 1, 1, 1, 0, 0},
	}

	TalkOpen = Frame{
		{0, 0, 1, 1, 1, 1, 0, 0},
		{0, 1, 0, 0, 0, 0, 1, 0},
		{1, 0, 1, 0, 0, 1, 0, 1},
		{1, 0, 0, 0, 0, 0, 0, 1},
		{1, 0, 0, 1, 1, 0, 0, 1},
		{1, 0, 0, 1, 1, 0, 0, 1},
		{0, 1, 0, 0, 0, 0, 1, 0},
		{0, 0, 1, 1, 1, 1, 0, 0},
	}
)

var expressions = map[string]Frame{
	"neutral":     Neutral,
	"happy":       Happy,
	"sad":         Sad,
	"surprised":   Surprised,
	"angry":       Angry,
	"blink":       Blink,
	"talk_closed": TalkClosed,
	"talk_open":   TalkOpen,
}

// Expression looks up a named expression.
func Expression(name string) (Frame, bool) {
	f, ok := expressions[name]
	return f, ok
}

// Expressions returns all expression names in sorted order.
func Expressions() []string {
	names := make([]string, 0, len(expressions))
	for name := range expressions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
