package core

// LogFields carries structured context alongside a log message.
type LogFields map[string]interface{}

// Logger is any service that can record application events.
// expected args: error | LogFields | anything printable
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
