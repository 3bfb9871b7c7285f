// stackc compiles stack machine source files into STKM bytecode.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezrec/stackmac/banner"
	"github.com/ezrec/stackmac/extension"
	"github.com/ezrec/stackmac/vm"
)

func main() {
	var output string
	var extdir string
	var noBanner bool
	var verbose bool

	flag.StringVar(&output, "o", "", "Output file (default: source with .stkm suffix)")
	flag.StringVar(&extdir, "x", "extensions", "Extension script directory")
	flag.BoolVar(&noBanner, "no-banner", false, "Suppress startup banner")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %v [options] <source>", os.Args[0])
	}
	source := flag.Arg(0)

	if banner.Enabled(noBanner) {
		banner.Show(os.Stdout, "Compiler (stackc)")
	}

	if len(output) == 0 {
		output = strings.TrimSuffix(source, filepath.Ext(source)) + ".stkm"
	}

	reg := vm.NewRegistry()
	if _, err := extension.LoadDir(reg, extdir); err != nil {
		log.Fatalf("%v: %v", extdir, err)
	}

	asm := &vm.Assembler{Registry: reg, Verbose: verbose}
	prog, err := asm.ParseFile(source)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	codec := &vm.Codec{Registry: reg}
	data, err := codec.Encode(prog)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	// The program is encoded fully in memory before the output file is
	// touched, so a failed compile leaves no partial file behind.
	err = os.WriteFile(output, data, 0o644)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	fmt.Printf("Compiled %d instructions from '%v' to '%v'\n", len(prog), source, output)
}
