// Package envsubst expands ${VAR} references from the environment in
// configuration and descriptor file contents before parsing.
package envsubst

import (
	"os"
	"strings"
)

// Expand replaces every ${VAR_NAME} occurrence with the value of the
// environment variable. Unset variables expand to the empty string.
func Expand(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		envValue := os.Getenv(varName)
		content = content[:start] + envValue + content[end+1:]
	}
	return content
}
