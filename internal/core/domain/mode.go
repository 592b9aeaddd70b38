package domain

import "strings"

// Mode selects which stage chain the pipeline runs.
type Mode string

const (
	// ModeBrowser transpiles into the build tree, injects script references
	// into the HTML entry document and serves the result with live reload.
	ModeBrowser Mode = "browser"
	// ModeTerminal bundles all scripts into a single file and executes it
	// in a command-line runtime.
	ModeTerminal Mode = "terminal"
)

// ParseMode classifies a process argument list into a pipeline mode.
// Only the final argument is inspected and a leading "--" is stripped.
// Any value other than the literal "browser", including an empty argument
// list, selects terminal mode. Malformed arguments are not an error.
func ParseMode(args []string) Mode {
	if len(args) == 0 {
		return ModeTerminal
	}
	last := strings.TrimPrefix(args[len(args)-1], "--")
	if last == string(ModeBrowser) {
		return ModeBrowser
	}
	return ModeTerminal
}
