package main

import (
	"os"

	"thumbgen/internal/cli"
	"thumbgen/internal/startup"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := cli.NewRootCmd(startup.Version)
	cmd.SetArgs(args)
	return cli.ExitCode(cmd.Execute(), cmd.ErrOrStderr())
}
