package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/study-upc/studyclient/internal/client/client"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// command is one REPL verb.
type command struct {
	name    string
	aliases []string
	usage   string
	// auth marks commands that need a session.
	auth bool
	run  func(ctx context.Context, args []string) error
}

func (c command) matches(name string) bool {
	if c.name == name {
		return true
	}
	for _, a := range c.aliases {
		if a == name {
			return true
		}
	}
	return false
}

// execIface is the minimal surface the REPL needs. App satisfies it; tests
// provide a stub.
type execIface interface {
	isLoggedIn() bool
	commands() []command
	flushNotifications()
}

// runREPL reads a line at a time, dispatches the first word as a command and
// passes the rest as arguments. It returns on EOF or on "exit"/"quit".
// Command errors are printed and never stop the loop.
//
// Commands prompt for more input through the same reader, so the loop reads
// whole lines from it instead of wrapping it in a bufio.Scanner.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("study %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printHelp(a)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		cmd, ok := lookup(a.commands(), name)
		switch {
		case !ok:
			printlnFn("Unknown command:", name)
		case cmd.auth && !a.isLoggedIn():
			printlnFn("Please login first")
		default:
			if err := cmd.run(ctx, args); err != nil {
				printlnFn("Error:", client.Message(err))
			}
		}
		a.flushNotifications()
	}
}

func lookup(cmds []command, name string) (command, bool) {
	for _, c := range cmds {
		if c.matches(name) {
			return c, true
		}
	}
	return command{}, false
}

func printHelp(a execIface) {
	printlnFn("Available commands:")
	for _, c := range a.commands() {
		if c.auth && !a.isLoggedIn() {
			continue
		}
		printlnFn("  " + c.usage)
	}
	printlnFn("  help | exit")
}
