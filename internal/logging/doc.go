// Package logging builds the zap logger shared by every clippycheck command.
//
// Logs go to stderr so that stdout stays free for workflow commands and
// local reports.
package logging
