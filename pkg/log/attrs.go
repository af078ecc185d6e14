package log

import (
	"log/slog"
	"time"
)

func Pipeline(name string) slog.Attr {
	return slog.String("pipeline", name)
}

func Step(name string) slog.Attr {
	return slog.String("step", name)
}

func Path(path string) slog.Attr {
	return slog.String("path", path)
}

func RunID(id string) slog.Attr {
	return slog.String("run_id", id)
}

func Pass(pass int) slog.Attr {
	return slog.Int("pass", pass)
}

func Depth(depth int) slog.Attr {
	return slog.Int("depth", depth)
}

func Status[T ~string](status T) slog.Attr {
	return slog.String("status", string(status))
}

func Signal(sig interface{ String() string }) slog.Attr {
	return slog.String("signal", sig.String())
}

// Duration renders d in seconds with millisecond precision.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64("duration", d.Round(time.Millisecond).Seconds())
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}

	return slog.String("error", msg)
}
