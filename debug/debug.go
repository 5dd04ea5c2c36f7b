package debug

import (
	"fmt"
	"os"
	"strconv"

	"github.com/signadot/projdiff/ir"
)

type debug struct {
	Diff   bool
	Revert bool
	Load   bool
	Select bool
}

var d *debug

func init() {
	d = &debug{}
	d.Diff = boolEnv("PROJDIFF_DEBUG_DIFF")
	d.Revert = boolEnv("PROJDIFF_DEBUG_REVERT")
	d.Load = boolEnv("PROJDIFF_DEBUG_LOAD")
	d.Select = boolEnv("PROJDIFF_DEBUG_SELECT")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Diff() bool {
	return d.Diff
}
func Revert() bool {
	return d.Revert
}
func Load() bool {
	return d.Load
}
func Select() bool {
	return d.Select
}

// Logf writes a formatted line to stderr. *ir.Node arguments are
// formatted as JSON.
func Logf(format string, args ...any) {
	for i, a := range args {
		if n, ok := a.(*ir.Node); ok && n != nil {
			if d, err := ir.ToJSON(n); err == nil {
				args[i] = string(d)
			}
		}
	}
	fmt.Fprintf(os.Stderr, format, args...)
	if n := len(format); n == 0 || format[n-1] != '\n' {
		os.Stderr.Write([]byte{'\n'})
	}
}
