// stackr executes compiled STKM bytecode files.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/ezrec/stackmac/banner"
	"github.com/ezrec/stackmac/extension"
	"github.com/ezrec/stackmac/vm"
)

func main() {
	var extdir string
	var trace bool
	var step bool
	var stats bool
	var noBanner bool
	var verbose bool

	flag.StringVar(&extdir, "x", "extensions", "Extension script directory")
	flag.BoolVar(&trace, "t", false, "Trace each instruction before execution")
	flag.BoolVar(&step, "s", false, "Single-step execution (implies -t)")
	flag.BoolVar(&stats, "stats", false, "Report instruction and cycle counts")
	flag.BoolVar(&noBanner, "no-banner", false, "Suppress startup banner")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %v [options] <bytecode>", os.Args[0])
	}
	path := flag.Arg(0)

	if banner.Enabled(noBanner) {
		banner.Show(os.Stdout, "Runtime (stackr)")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	reg := vm.NewRegistry()
	if _, err := extension.LoadDir(reg, extdir); err != nil {
		log.Fatalf("%v: %v", extdir, err)
	}

	codec := &vm.Codec{Registry: reg}
	prog, err := codec.Decode(data)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	machine := vm.NewMachine(reg)
	machine.Verbose = verbose
	machine.Load(prog)

	if trace || step {
		machine.Tracer = func(ev vm.TraceEvent) {
			fmt.Printf("PC:%3d %-12v Stack: %v\n", ev.Pc, ev.Inst, ev.Stack)
		}
	}

	if step {
		machine.Resume = stepper()
	}

	fmt.Printf("Loaded %d instructions from '%v'\n", len(prog), path)

	err = machine.Execute()
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	if machine.Cancelled {
		fmt.Println("Execution interrupted by user")
	}

	if stats {
		instructions, cycles := machine.Stats()
		fmt.Printf("Executed %d instructions in %d cycles\n", instructions, cycles)
	}
}

// stepper feeds the machine's resume channel from stdin: a line
// continues, end of input or an interrupt cancels the run.
func stepper() <-chan bool {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	resume := make(chan bool)
	go func() {
		defer close(resume)

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Fprint(os.Stderr, "Press Enter to continue (Ctrl+C to exit)...")
			if !scanner.Scan() {
				return
			}
			select {
			case resume <- true:
			case <-interrupt:
				return
			}
		}
	}()

	return resume
}
