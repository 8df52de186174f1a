package shell

import (
	"fmt"
	"os/exec"
	"strings"
)

// Preflight checks that the program of every command is available on PATH.
func Preflight(commands ...[]string) error {
	needed := make(map[string]bool)
	var order []string
	for _, args := range commands {
		if len(args) == 0 || needed[args[0]] {
			continue
		}
		needed[args[0]] = true
		order = append(order, args[0])
	}

	var missing []string
	for _, bin := range order {
		if _, err := exec.LookPath(bin); err != nil {
			missing = append(missing, bin)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("required binaries not found in PATH: %s", strings.Join(missing, ", "))
	}
	return nil
}
