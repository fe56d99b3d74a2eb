// Package wizard provides the interactive configuration wizard for
// amphorad.
//
// It uses charmbracelet/huh for form-based input collection. The main
// entry point is RunWizard, which walks the question groups and returns
// a Result. Use BuildConfig to convert a Result into a config.Config and
// WriteConfig to render the YAML output file.
package wizard
