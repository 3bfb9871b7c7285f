// stackp disassembles STKM bytecode files back to source.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/stackmac/banner"
	"github.com/ezrec/stackmac/extension"
	"github.com/ezrec/stackmac/vm"
)

func main() {
	var output string
	var extdir string
	var addresses bool
	var verbose bool
	var noBanner bool

	flag.StringVar(&output, "o", "", "Output file (default: stdout)")
	flag.StringVar(&extdir, "x", "extensions", "Extension script directory")
	flag.BoolVar(&addresses, "a", false, "Annotate instructions with file offsets")
	flag.BoolVar(&verbose, "v", false, "Annotate with offsets, raw bytes and opcode hex")
	flag.BoolVar(&noBanner, "no-banner", false, "Suppress startup banner")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %v [options] <bytecode>", os.Args[0])
	}
	path := flag.Arg(0)

	if banner.Enabled(noBanner) {
		banner.Show(os.Stdout, "Disassembler (stackp)")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	reg := vm.NewRegistry()
	if _, err := extension.LoadDir(reg, extdir); err != nil {
		log.Fatalf("%v: %v", extdir, err)
	}

	mode := vm.ANNOTATE_NONE
	switch {
	case verbose:
		mode = vm.ANNOTATE_VERBOSE
	case addresses:
		mode = vm.ANNOTATE_ADDRESSES
	}

	disasm := &vm.Disassembler{Registry: reg}
	text, err := disasm.Disassemble(data, path, mode)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	if len(output) != 0 {
		err = os.WriteFile(output, []byte(text), 0o644)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		fmt.Printf("Disassembled '%v' to '%v'\n", path, output)
	} else {
		fmt.Print(text)
	}
}
