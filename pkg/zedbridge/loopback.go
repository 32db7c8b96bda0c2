package zedbridge

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ensureLoopbackDevices loads v4l2loopback for the given video numbers when
// the device nodes are not already present. Loading requires root; when the
// module was pre-loaded by the operator the devices already exist and no
// privilege is needed.
func ensureLoopbackDevices(nrs []int, labels []string) error {
	missing := false
	for _, nr := range nrs {
		if _, err := os.Stat(devicePath(nr)); err != nil {
			missing = true
			break
		}
	}
	if !missing {
		return nil
	}

	strs := make([]string, len(nrs))
	for i, nr := range nrs {
		strs[i] = strconv.Itoa(nr)
	}
	args := []string{
		"v4l2loopback",
		fmt.Sprintf("devices=%d", len(nrs)),
		"video_nr=" + strings.Join(strs, ","),
		"card_label=" + strings.Join(labels, ","),
		"exclusive_caps=1",
	}
	out, err := exec.Command("modprobe", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("modprobe v4l2loopback: %w (%s)", err, strings.TrimSpace(string(out)))
	}

	for _, nr := range nrs {
		if _, err := os.Stat(devicePath(nr)); err != nil {
			return fmt.Errorf("loopback device %s missing after modprobe", devicePath(nr))
		}
	}
	return nil
}

// unloadLoopbackModule removes v4l2loopback. Best-effort: the module may be
// held open by another process or may not have been loaded by us.
func unloadLoopbackModule() {
	_ = exec.Command("rmmod", "v4l2loopback").Run()
}

func devicePath(nr int) string {
	return fmt.Sprintf("/dev/video%d", nr)
}
