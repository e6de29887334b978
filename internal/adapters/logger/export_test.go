// export_test.go exposes the error formatting helpers to the external test package.
package logger

var (
	CollectErrorEntriesExported = collectErrorEntries
	FormatErrorEntriesExported  = formatErrorEntries
)
