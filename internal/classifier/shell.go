package classifier

import (
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

var shellShebang = regexp.MustCompile(`(?m)^#!\s*(?:/\S+/)?(?:env\s+)?(?:ba|z|k|da)?sh\b`)

// isShellScript reports whether text carries a POSIX shell shebang and the
// script from that line on parses into at least one command.
func isShellScript(text string) bool {
	location := shellShebang.FindStringIndex(text)
	if location == nil {
		return false
	}

	parser := syntax.NewParser()
	file, parseError := parser.Parse(strings.NewReader(text[location[0]:]), "")
	if parseError != nil {
		return false
	}

	commands := 0
	syntax.Walk(file, func(node syntax.Node) bool {
		if _, ok := node.(*syntax.CallExpr); ok {
			commands++
		}
		return true
	})
	return commands > 0
}
