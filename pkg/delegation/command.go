package delegation

import "strings"

// ValidateCommand checks that cmd is rooted at "/" (§3.3).
func ValidateCommand(cmd string) error {
	if !strings.HasPrefix(cmd, "/") {
		return &MalformedCommandError{Command: cmd}
	}
	return nil
}

// commandSegments splits a rooted command string into its path segments,
// with the root "/" itself yielding no segments.
func commandSegments(cmd string) []string {
	trimmed := strings.Trim(cmd, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Extends reports whether child is the same command as parent, or a
// path-extension of it (§4.3(3)): parent's segments must be a prefix of
// child's. The root command "/" matches any child.
func Extends(child, parent string) bool {
	parentSegs := commandSegments(parent)
	if len(parentSegs) == 0 {
		return true
	}
	childSegs := commandSegments(child)
	if len(childSegs) < len(parentSegs) {
		return false
	}
	for i, seg := range parentSegs {
		if childSegs[i] != seg {
			return false
		}
	}
	return true
}
