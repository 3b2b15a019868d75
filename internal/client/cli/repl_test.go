package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) WhoAmI(context.Context) error { f.calls = append(f.calls, "whoami"); return nil }
func (f *fakeExec) Products(context.Context) error {
	f.calls = append(f.calls, "products")
	return nil
}
func (f *fakeExec) Buy(_ context.Context, pid string) error {
	f.calls = append(f.calls, "buy "+pid)
	return nil
}
func (f *fakeExec) AddProduct(context.Context) error {
	f.calls = append(f.calls, "addproduct")
	return nil
}
func (f *fakeExec) Image(_ context.Context, pid, path string) error {
	f.calls = append(f.calls, "image "+pid+" "+path)
	return nil
}

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_Dispatch(t *testing.T) {
	out := capturePrint(t)

	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"",
		"products",
		"p",
		"buy p1",
		"addproduct",
		"image p1 /tmp/mug.png",
		"whoami",
		"logout",
		"register",
		"exit",
		"products",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr(input))

	assert.Equal(t, []string{
		"login", "products", "products", "buy p1", "addproduct",
		"image p1 /tmp/mug.png", "whoami", "logout", "register",
	}, exec.calls)
	assert.Contains(t, *out, "Available commands: register, login, addproduct, image <pid> <file>, exit")
	assert.Contains(t, *out, "Available commands: (p)roducts, buy <pid>, addproduct, image <pid> <file>, whoami, logout, exit")
	assert.Contains(t, *out, "Bye!")
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "(a@b.com)" }, rdr("buy\nbuy a b\nimage p1\nfoobar\nquit\n"))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *out, "Usage: buy <pid>")
	assert.Contains(t, *out, "Usage: image <pid> <file>")
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Contains(t, *out, "shop(a@b.com)> ")
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("register"))

	assert.Equal(t, []string{"register"}, exec.calls)
}
