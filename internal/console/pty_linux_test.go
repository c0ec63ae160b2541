//go:build linux

package console

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"pkt.systems/vcsnoop/internal/exithook"
)

// openPTY allocates a master/slave pair through /dev/ptmx and returns both
// descriptors plus the slave path.
func openPTY(t *testing.T) (int, int, string) {
	t.Helper()
	master, err := unix.Open("/dev/ptmx", unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		t.Skipf("open /dev/ptmx: %v", err)
	}
	t.Cleanup(func() { _ = unix.Close(master) })
	ptyNumber, err := unix.IoctlGetInt(master, unix.TIOCGPTN)
	if err != nil {
		t.Skipf("TIOCGPTN: %v", err)
	}
	if err := unix.IoctlSetPointerInt(master, unix.TIOCSPTLCK, 0); err != nil {
		t.Skipf("TIOCSPTLCK: %v", err)
	}
	path := fmt.Sprintf("/dev/pts/%d", ptyNumber)
	slave, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		t.Skipf("open %s: %v", path, err)
	}
	t.Cleanup(func() { _ = unix.Close(slave) })
	return master, slave, path
}

func echoEnabled(t *testing.T, fd int) bool {
	t.Helper()
	tio, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		t.Fatalf("tcgetattr: %v", err)
	}
	return tio.Lflag&unix.ECHO != 0
}

func setEcho(t *testing.T, fd int, on bool) {
	t.Helper()
	tio, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		t.Fatalf("tcgetattr: %v", err)
	}
	if on {
		tio.Lflag |= unix.ECHO
	} else {
		tio.Lflag &^= unix.ECHO
	}
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, tio); err != nil {
		t.Fatalf("tcsetattr: %v", err)
	}
}

func TestRawModeDisablesAndRestoresEcho(t *testing.T) {
	_, slave, _ := openPTY(t)
	setEcho(t, slave, true)
	hooks := exithook.New()
	raw := NewRawMode(slave, hooks)

	if err := raw.Enter(); err != nil {
		t.Fatalf("enter: %v", err)
	}
	if echoEnabled(t, slave) {
		t.Fatalf("expected echo off after Enter")
	}
	if !raw.Active() {
		t.Fatalf("expected raw mode active")
	}
	if hooks.Pending() != 1 {
		t.Fatalf("expected restoration hook registered, got %d", hooks.Pending())
	}

	if err := raw.Restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !echoEnabled(t, slave) {
		t.Fatalf("expected echo on after Restore")
	}
	if hooks.Pending() != 0 {
		t.Fatalf("expected restoration hook released, got %d", hooks.Pending())
	}
}

func TestRawModeRestoresOnlyOnce(t *testing.T) {
	_, slave, _ := openPTY(t)
	setEcho(t, slave, true)
	hooks := exithook.New()
	raw := NewRawMode(slave, hooks)
	if err := raw.Enter(); err != nil {
		t.Fatalf("enter: %v", err)
	}
	if err := raw.Restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}

	// A later change must survive a second restore and the exit hooks.
	setEcho(t, slave, false)
	if err := raw.Restore(); err != nil {
		t.Fatalf("second restore: %v", err)
	}
	if err := hooks.Run(context.Background()); err != nil {
		t.Fatalf("run hooks: %v", err)
	}
	if echoEnabled(t, slave) {
		t.Fatalf("expected second restore to be a no-op")
	}
}

func TestRawModeRestoredByExitHook(t *testing.T) {
	_, slave, _ := openPTY(t)
	setEcho(t, slave, true)
	hooks := exithook.New()
	raw := NewRawMode(slave, hooks)
	if err := raw.Enter(); err != nil {
		t.Fatalf("enter: %v", err)
	}
	if err := hooks.Run(context.Background()); err != nil {
		t.Fatalf("run hooks: %v", err)
	}
	if !echoEnabled(t, slave) {
		t.Fatalf("expected exit hook to restore echo")
	}
	if raw.Active() {
		t.Fatalf("expected raw mode inactive after exit hook")
	}
}

func TestRestoreWithoutEnterIsNoop(t *testing.T) {
	raw := NewRawMode(-1, exithook.New())
	if err := raw.Restore(); err != nil {
		t.Fatalf("restore without enter: %v", err)
	}
}

func TestRawModeEnterFailsOnNonTerminal(t *testing.T) {
	fds := make([]int, 2)
	if err := unix.Pipe2(fds, unix.O_CLOEXEC); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
	})
	hooks := exithook.New()
	err := NewRawMode(fds[0], hooks).Enter()
	var opErr *OpError
	if !errors.As(err, &opErr) || opErr.Op != "tcgetattr()" {
		t.Fatalf("expected tcgetattr() failure, got %v", err)
	}
	if hooks.Pending() != 0 {
		t.Fatalf("failed Enter must not register a hook")
	}
}

func TestFDSourceTimesOutWhenIdle(t *testing.T) {
	_, slave, _ := openPTY(t)
	ready, err := NewFDSource(slave).WaitReadable(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if ready {
		t.Fatalf("expected no input on an idle pty")
	}
}

func TestFDSourceReadsInput(t *testing.T) {
	master, slave, _ := openPTY(t)
	if _, err := unix.Write(master, []byte("abc\n")); err != nil {
		t.Fatalf("write master: %v", err)
	}
	src := NewFDSource(slave)
	ready, err := src.WaitReadable(time.Second)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if !ready {
		t.Fatalf("expected input to be ready")
	}
	buf := make([]byte, 64)
	n, err := src.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got != "abc\n" {
		t.Fatalf("read %q, want %q", got, "abc\n")
	}
}

func TestDeviceCloseRestoresEcho(t *testing.T) {
	_, slave, path := openPTY(t)
	setEcho(t, slave, true)
	hooks := exithook.New()
	dev, err := Open(Config{Path: path, Hooks: hooks})
	if err != nil {
		t.Fatalf("open device: %v", err)
	}
	if dev.Path() != path {
		t.Fatalf("path = %q, want %q", dev.Path(), path)
	}
	if err := dev.EnterRaw(); err != nil {
		t.Fatalf("enter raw: %v", err)
	}
	if echoEnabled(t, slave) {
		t.Fatalf("expected echo off")
	}
	if err := dev.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !echoEnabled(t, slave) {
		t.Fatalf("expected Close to restore echo")
	}
	if hooks.Pending() != 0 {
		t.Fatalf("expected no pending hooks after Close")
	}
	if err := dev.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestActiveConsoleFailsOnPTY(t *testing.T) {
	_, slave, _ := openPTY(t)
	_, err := ActiveConsole(slave)
	var opErr *OpError
	if !errors.As(err, &opErr) || opErr.Op != "VT_GETSTATE" {
		t.Fatalf("expected VT_GETSTATE failure on a pty, got %v", err)
	}
}
