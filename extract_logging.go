package docref

import "time"

// ExtractEvent describes one completed decomposition for logging.
type ExtractEvent struct {
	Path     string
	Fields   int
	Refs     int
	Duration time.Duration
}

// ExtractLogger records extraction events.
type ExtractLogger interface {
	LogExtraction(ExtractEvent)
}

// ExtractLoggerFunc adapts a function to ExtractLogger.
type ExtractLoggerFunc func(ExtractEvent)

// LogExtraction implements ExtractLogger.
func (f ExtractLoggerFunc) LogExtraction(event ExtractEvent) {
	if f != nil {
		f(event)
	}
}

type noopExtractLogger struct{}

func (noopExtractLogger) LogExtraction(ExtractEvent) {}
