// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/ternvm/cpu"
	"github.com/ezrec/ternvm/emulator"
	"github.com/ezrec/ternvm/image"
)

func main() {
	var load string
	var memWords int
	var maxSteps int
	var dump bool
	var verbose bool

	flag.StringVar(&load, "l", "", ".tvm image file to load")
	flag.IntVar(&memWords, "m", 0, "Memory size in words (0 for default)")
	flag.IntVar(&maxSteps, "n", 1_000_000, "Maximum instructions to execute")
	flag.BoolVar(&dump, "d", false, "Dump machine state after the run")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	emu := emulator.NewEmulator(memWords)
	emu.Verbose = verbose

	img := &image.Image{}

	// Load a memory image.
	if len(load) != 0 {
		inf, err := os.Open(load)
		if err != nil {
			log.Fatalf("%v: %v", load, err)
		}
		defer inf.Close()

		p := &image.Parser{Verbose: verbose}
		for key, value := range emu.Defines() {
			p.Predefine(key, value)
		}
		img, err = p.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", load, err)
		}
	}

	err := emu.LoadImage(img)
	if err != nil {
		log.Fatalf("%v: %v", load, err)
	}

	sum := emu.Run(maxSteps)
	switch sum.Final {
	case cpu.OUTCOME_HALTED:
		fmt.Printf("halted after %v instructions\n", sum.Steps)
	case cpu.OUTCOME_TRAPPED:
		fmt.Printf("trapped after %v instructions: %v\n", sum.Steps, sum.Fault)
	default:
		fmt.Printf("still running after %v instructions\n", sum.Steps)
	}

	if dump {
		fmt.Print(emu.Cpu.String())
	}

	if sum.Final == cpu.OUTCOME_TRAPPED {
		os.Exit(1)
	}
}
