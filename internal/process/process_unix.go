//go:build !windows

package process

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcAttr puts the child in its own process group so Stop can kill the
// whole tree (extractor + any downloader it forks) with one signal.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killTree(cmd *exec.Cmd) error {
	pgid := cmd.Process.Pid
	return unix.Kill(-pgid, unix.SIGKILL)
}
