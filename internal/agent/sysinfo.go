package agent

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// DetectSystemInfo describes the host the generated scripts will run on.
func DetectSystemInfo() string {
	release := "unknown"
	if out, err := exec.Command("uname", "-r").Output(); err == nil {
		release = strings.TrimSpace(string(out))
	}
	return fmt.Sprintf("OS Name    : %s\nOS Version : %s\nOS Arch    : %s", runtime.GOOS, release, runtime.GOARCH)
}
