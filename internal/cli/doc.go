// Package cli is responsible for the strata command tree: parsing flags and
// environment overrides, validating user input, and handling process-level
// concerns like exit codes. It translates CLI input into the application's
// internal configuration and hands resolved output handles to realizers.
package cli
