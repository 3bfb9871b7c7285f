// Package banner prints the toolchain startup banner.
package banner

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ezrec/stackmac/translate"
)

var f = translate.From

// Version of the stackmac toolchain.
const Version = "1.0.0"

const compact = `
  ┌──────────────────────────────────┐
  │  STACK MAC  v%-20s│
  │  ┌───┐                           │
  │  │ █ │  Stack-Based VM           │
  │  ├───┤  12 Base Opcodes          │
  │  │ █ │  Extension Support        │
  │  └───┘                           │
  │  stackc | stackr | stackp        │
  └──────────────────────────────────┘
`

// Show writes the banner, and optionally the running tool's name.
func Show(w io.Writer, tool string) {
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintf(w, compact, Version)
	if len(tool) != 0 {
		fmt.Fprintf(w, "\n %v\n\n", f("Running: %v", tool))
	}
}

// Enabled reports whether the banner should be shown. The --no-banner
// flag takes precedence, then the STACKMAC_NO_BANNER and CI environment
// variables, then whether stdout is a terminal.
func Enabled(noBanner bool) bool {
	if noBanner {
		return false
	}

	for _, key := range []string{"STACKMAC_NO_BANNER", "CI"} {
		switch strings.ToLower(os.Getenv(key)) {
		case "1", "true", "yes":
			return false
		}
	}

	stat, err := os.Stdout.Stat()
	if err != nil || stat.Mode()&os.ModeCharDevice == 0 {
		return false
	}

	return true
}
