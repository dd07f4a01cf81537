package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Field helpers for solver runs
func Component(name string) Field {
	return String("component", name)
}

func Scheme(name string) Field {
	return String("scheme", name)
}

func Quantity(name string) Field {
	return String("quantity", name)
}

func Step(n int) Field {
	return Int("step", n)
}

func SimTime(t float64) Field {
	return Float64("t", t)
}

func Residual(r float64) Field {
	return Float64("residual", r)
}

func Iterations(n int) Field {
	return Int("iterations", n)
}

func Pores(n int) Field {
	return Int("pores", n)
}

func Throats(n int) Field {
	return Int("throats", n)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}
