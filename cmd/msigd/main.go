package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/commands"
	"github.com/tendermint/tendermint/libs/log"
)

// cmds is a register of all available commands. When a command function
// is called it is given stdin, stdout and the command line arguments that
// follow the command name.
var cmds = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"address": cmdAddress,
	"confirm": cmdConfirm,
	"init":    cmdInit,
	"keyaddr": cmdKeyaddr,
	"keygen":  cmdKeygen,
	"propose": cmdPropose,
	"revoke":  cmdRevoke,
	"show":    cmdShow,
	"start":   cmdStart,
	"version": cmdVersion,
}

var (
	flagHome     = flag.String("home", env("MSIGD_HOME", filepath.Join(os.Getenv("HOME"), ".msigd")), "directory to store files under")
	flagLogLevel = flag.String("log_level", "info", "log level: debug, info, error or none")
)

func main() {
	flag.Usage = helpMessage
	flag.Parse()
	if flag.NArg() == 0 {
		helpMessage()
		os.Exit(2)
	}
	run, ok := cmds[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", flag.Arg(0))
		helpMessage()
		os.Exit(2)
	}
	if err := run(os.Stdin, os.Stdout, flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func helpMessage() {
	fmt.Fprintf(os.Stderr, "%s is a multi signature wallet daemon and its command line client.\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s [-home <dir>] [-log_level <level>] <command> [<flags>]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
	fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
}

func availableCmds() []string {
	available := make([]string, 0, len(cmds))
	for name := range cmds {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

// newLogger returns a logger writing to given output, filtered by the
// configured level.
func newLogger(output io.Writer) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(output)).With("module", "msigd")
	opt, err := log.AllowLevel(*flagLogLevel)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(logger, opt), nil
}

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	logger, err := newLogger(output)
	if err != nil {
		return err
	}
	return commands.InitCmd(logger, *flagHome, args)
}

func cmdStart(input io.Reader, output io.Writer, args []string) error {
	logger, err := newLogger(output)
	if err != nil {
		return err
	}
	return commands.StartCmd(logger, *flagHome, args)
}

func cmdVersion(input io.Reader, output io.Writer, args []string) error {
	_, err := fmt.Fprintln(output, msig.Version())
	return err
}

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}
