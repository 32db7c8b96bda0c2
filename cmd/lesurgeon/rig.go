package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lesurgeon/lesurgeon/pkg/cameras"
	"github.com/lesurgeon/lesurgeon/pkg/lerobot"
	"github.com/lesurgeon/lesurgeon/pkg/ports"
	"github.com/lesurgeon/lesurgeon/pkg/robot"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Arm IDs used for LeRobot's per-robot calibration bookkeeping.
const (
	leaderArmID   = "lesurgeon_leader_arm"
	followerArmID = "lesurgeon_follower_arm"
)

const (
	armWaitAttempts = 5
	armWaitInterval = time.Second
)

func warnf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, warnStyle.Render(fmt.Sprintf(format, args...)))
}

func fatalf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf(format, args...)))
	os.Exit(1)
}

// loadConfigOrDefault returns the persisted rig config, or a zero config
// (stock serial numbers, no calibration) when identify has not been run.
func loadConfigOrDefault() *robot.Config {
	cfg, err := robot.LoadConfig()
	if err != nil {
		return &robot.Config{}
	}
	return cfg
}

// resolveArms resolves both arm ports by serial number, waiting briefly for
// the USB devices to register. Failures name the missing role and a
// remediation step.
func resolveArms(ctx context.Context, cfg *robot.Config) *ports.Resolution {
	res, err := ports.WaitForArms(ctx, ports.SystemLister{}, cfg.Targets(), armWaitAttempts, armWaitInterval)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrDeviceNotFound):
			fatalf("Arm not found: %v\nCheck that both arms are connected and powered on, or re-run 'lesurgeon identify'.", err)
		case errors.Is(err, ports.ErrAmbiguousSerial):
			fatalf("Arm resolution is ambiguous: %v\nDisconnect the duplicate device and retry.", err)
		default:
			fatalf("Port resolution failed: %v", err)
		}
	}
	return res
}

// detectCameras picks the camera template for this run, or aborts when no
// supported camera is attached.
func detectCameras() *cameras.Setup {
	presence, err := cameras.Detect()
	if err != nil {
		fatalf("Camera detection failed: %v", err)
	}
	setup, err := cameras.Select(presence)
	if err != nil {
		fatalf("No supported camera detected. Connect the ZED or a U20CAM wrist camera and retry.")
	}
	return setup
}

// buildRig assembles the external-CLI parameters from resolution and camera
// setup.
func buildRig(res *ports.Resolution, setup *cameras.Setup) lerobot.Rig {
	rig := lerobot.Rig{
		LeaderPort:   res.LeaderPort,
		FollowerPort: res.FollowerPort,
		LeaderID:     leaderArmID,
		FollowerID:   followerArmID,
	}
	if setup != nil {
		rig.CameraConfig = setup.ConfigString()
	}
	return rig
}
