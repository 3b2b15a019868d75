package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Products(ctx context.Context) error
	Buy(ctx context.Context, productID string) error
	AddProduct(ctx context.Context) error
	Image(ctx context.Context, productID, path string) error
}

// runREPL starts a simple read–eval–print loop for the shopfront CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help               show available commands
//	  - register           create an account
//	  - login              authenticate
//	  - addproduct         add a catalog item
//	  - image <pid> <file> upload a product image
//	  - exit | quit        leave the program
//
//	Logged in, additionally:
//	  - products | p       list the catalog
//	  - buy <pid>          order one unit
//	  - whoami             show the session
//	  - logout             forget the session
//
// Errors returned by command handlers are ignored here; handlers print
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("shop%s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (p)roducts, buy <pid>, addproduct, image <pid> <file>, whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, addproduct, image <pid> <file>, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "p", "products":
			_ = a.Products(ctx)

		case "buy":
			if len(args) != 1 {
				printlnFn("Usage: buy <pid>")
				continue
			}
			_ = a.Buy(ctx, args[0])

		case "addproduct":
			_ = a.AddProduct(ctx)

		case "image":
			if len(args) != 2 {
				printlnFn("Usage: image <pid> <file>")
				continue
			}
			_ = a.Image(ctx, args[0], args[1])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
