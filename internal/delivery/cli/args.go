package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NormalizeArgs переводит аргументы key=value во флаги --key=value,
// а help и h во флаг --help. Имена подкоманд и флаги проходят как есть.
func NormalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		switch {
		case a == "help" || a == "h":
			out = append(out, "--help")
		case strings.HasPrefix(a, "-"):
			out = append(out, a)
		case strings.Index(a, "=") > 0:
			out = append(out, "--"+a)
		default:
			out = append(out, a)
		}
	}
	return out
}

// usageError - ошибка аргументов: печатается вместе с usage в stderr
type usageError struct {
	cmd *cobra.Command
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func newUsageError(cmd *cobra.Command, err error) error {
	return &usageError{cmd: cmd, err: err}
}

func asUsageError(err error) (*usageError, bool) {
	var ue *usageError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// noPositional - подкоманды принимают только key=value
func noPositional(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return newUsageError(cmd, fmt.Errorf("unexpected argument %q, expected key=value", args[0]))
	}
	return nil
}
