package shell

import (
	"os"
	"regexp"
	"sort"
)

var varRe = regexp.MustCompile(`\$(?:\{([A-Za-z_][A-Za-z0-9_]*)\}|([A-Za-z_][A-Za-z0-9_]*))`)

// ExpandVars substitutes $NAME and ${NAME} in template from vars, falling
// back to the environment. References to names that are neither, and shell
// forms such as $1 or $@, are left exactly as written.
func ExpandVars(template string, vars map[string]string) string {
	return varRe.ReplaceAllStringFunc(template, func(ref string) string {
		m := varRe.FindStringSubmatch(ref)
		name := m[1] + m[2]
		if v, ok := vars[name]; ok {
			return v
		}
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return ref
	})
}

// ExpandArgs expands every argument with ExpandVars.
func ExpandArgs(args []string, vars map[string]string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = ExpandVars(a, vars)
	}
	return out
}

// BuildEnv returns the caller's environment with extra set on top, or nil
// when there is nothing to add so the child inherits as is. Values are
// expanded against the caller's environment.
func BuildEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return nil
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := os.Environ()
	for _, k := range keys {
		env = append(env, k+"="+ExpandVars(extra[k], nil))
	}
	return env
}
