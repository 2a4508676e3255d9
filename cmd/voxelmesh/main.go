package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"voxelmesh/internal/config"
	"voxelmesh/internal/profiling"

	"github.com/xlab/closer"
)

const usage = `usage: voxelmesh [-config file] <command> [flags]

commands:
  generate  stream chunks around a position, mesh them and export (.glb, .obj, .obj.zst)
  preview   stream chunks and write a top-down PNG map
  describe  print the visible slice planes of one chunk
`

func main() {
	configPath := flag.String("config", "", "settings file (yaml); defaults when empty")
	profile := flag.Bool("profile", false, "print the slowest stages on exit")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	logger := log.New(os.Stderr, "[voxelmesh] ", log.LstdFlags|log.Lmicroseconds)

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	settings, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	var cmd func(app *app, args []string) error
	switch flag.Arg(0) {
	case "generate":
		cmd = generateCmd
	case "preview":
		cmd = previewCmd
	case "describe":
		cmd = describeCmd
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", flag.Arg(0))
		flag.Usage()
		os.Exit(2)
	}

	a := &app{settings: settings, logger: logger}
	closer.Bind(func() {
		a.close()
		if *profile {
			logger.Printf("profile: %s", profiling.TopN(8))
		}
	})
	go func() {
		if err := cmd(a, flag.Args()[1:]); err != nil {
			logger.Printf("%s: %v", flag.Arg(0), err)
			closer.Exit(1)
		}
		closer.Close()
	}()
	closer.Hold()
}
