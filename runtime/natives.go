package runtime

import (
	"time"

	"github.com/sergev/lox/lang"
)

// clockNow is replaced in tests.
var clockNow = time.Now

func installNatives(in *lang.Interpreter) {
	env := in.Globals
	define := func(name string, arity int, fn func(*lang.Interpreter, []lang.Value) (lang.Value, error)) {
		env.Define(name, lang.NativeValue(name, arity, fn))
	}

	define("clock", 0, nativeClock)
}

// nativeClock returns the wall-clock time in seconds, with a fractional part.
func nativeClock(_ *lang.Interpreter, _ []lang.Value) (lang.Value, error) {
	now := clockNow()
	return lang.NumberValue(float64(now.UnixNano()) / float64(time.Second)), nil
}
