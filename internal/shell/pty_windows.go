//go:build windows

package shell

import "context"

func runPTY(context.Context, Command) (*Result, error) {
	return nil, ErrPTYUnsupported
}
