package repo

import "context"

// HistoryRepo persists the interactive command history across sessions.
// Failures here are local I/O problems: logged, never fatal.
type HistoryRepo interface {
	// Append records one accepted command line.
	Append(ctx context.Context, line string) error

	// Recent returns up to limit lines, oldest first.
	Recent(ctx context.Context, limit int) ([]string, error)

	Close() error
}
