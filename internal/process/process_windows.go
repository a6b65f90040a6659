//go:build windows

package process

import "os/exec"

// setProcAttr is a no-op on Windows; there is no POSIX process-group
// concept to opt into here.
func setProcAttr(cmd *exec.Cmd) {}

// killTree relies on Cmd.Process.Kill; CREATE_NEW_PROCESS_GROUP plus
// taskkill /T would be needed to also reap grandchildren, which is out of
// scope for the CLI extractors this package targets.
func killTree(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
