package logging

import "context"

type fileOutputKey struct{}

// ContextWithFileOutput records whether the context logger writes to a log
// file rather than the terminal.
func ContextWithFileOutput(ctx context.Context, toFile bool) context.Context {
	return context.WithValue(ctx, fileOutputKey{}, toFile)
}

// LogsToFile reports whether the context logger writes to a log file. It is
// false when unknown.
func LogsToFile(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	toFile, _ := ctx.Value(fileOutputKey{}).(bool)
	return toFile
}
