package templates

import (
	"fmt"
	"strings"
)

// Lang is the language generated scripts are written in
type Lang string

const (
	Python     Lang = "python"
	Bash       Lang = "bash"
	JavaScript Lang = "javascript"
	TypeScript Lang = "typescript"
)

// Langs lists the accepted --lang values
var Langs = []Lang{Python, Bash, JavaScript, TypeScript}

// ParseLang validates a --lang value
func ParseLang(s string) (Lang, error) {
	l := Lang(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case Python, Bash, JavaScript, TypeScript:
		return l, nil
	case "py":
		return Python, nil
	case "sh":
		return Bash, nil
	case "js":
		return JavaScript, nil
	case "ts":
		return TypeScript, nil
	}
	return "", fmt.Errorf("unknown language %q: must be python, bash, javascript, or typescript", s)
}

// Extension is the script file extension without the dot
func (l Lang) Extension() string {
	switch l {
	case Bash:
		return "sh"
	case JavaScript:
		return "js"
	case TypeScript:
		return "ts"
	default:
		return "py"
	}
}

// Shebang is the interpreter line scripts start with
func (l Lang) Shebang() string {
	switch l {
	case Bash:
		return "#!/usr/bin/env bash"
	case JavaScript:
		return "#!/usr/bin/env node"
	case TypeScript:
		return "#!/usr/bin/env -S npx ts-node"
	default:
		return "#!/usr/bin/env python3"
	}
}

// FileName appends the extension to name
func (l Lang) FileName(name string) string {
	return name + "." + l.Extension()
}
