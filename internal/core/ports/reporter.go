package ports

// Reporter prints user-facing progress of a run.
//
//go:generate mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	// Section announces the start of a pipeline stage.
	Section(title string)
	// Success reports a completed step.
	Success(msg string)
	// Command echoes an external command before it runs.
	Command(argv []string)
}
