package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lesurgeon/lesurgeon/pkg/cameras"
	"github.com/lesurgeon/lesurgeon/pkg/hub"
	"github.com/lesurgeon/lesurgeon/pkg/ports"
	"github.com/lesurgeon/lesurgeon/pkg/robot"
)

type StatusCommand struct{}

func (c *StatusCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("LeSurgeon Status"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━"))
	fmt.Println()

	cfg := loadConfigOrDefault()
	printArmStatus(cfg)
	fmt.Println()
	printCameraStatus()
	fmt.Println()
	printAuthStatus()

	return nil
}

func printArmStatus(cfg *robot.Config) {
	fmt.Println(subHeaderStyle.Render("Arms"))

	res, err := ports.Resolve(ports.SystemLister{}, cfg.Targets())
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrDeviceNotFound):
			fmt.Println(errorStyle.Render("  " + err.Error()))
			fmt.Println(dimStyle.Render("  Connect both arms, or re-run 'lesurgeon identify'."))
		case errors.Is(err, ports.ErrAmbiguousSerial):
			fmt.Println(errorStyle.Render("  " + err.Error()))
		default:
			fmt.Println(errorStyle.Render(fmt.Sprintf("  Port scan failed: %v", err)))
		}
		return
	}

	rows := make([][]string, 0, len(res.Devices))
	for _, d := range res.Devices {
		role := string(d.Role)
		if role == "" {
			role = "unknown"
		}
		cal := "-"
		switch d.Role {
		case ports.Leader:
			cal = calibrationState(cfg.Leader)
		case ports.Follower:
			cal = calibrationState(cfg.Follower)
		}
		rows = append(rows, []string{d.Path, d.Serial, role, cal})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Port", "Serial", "Role", "Calibrated").
		Rows(rows...)
	fmt.Println(t.Render())
}

func calibrationState(arm robot.ArmConfig) string {
	if arm.IsCalibrated() {
		return "yes"
	}
	return "no"
}

func printCameraStatus() {
	fmt.Println(subHeaderStyle.Render("Cameras"))

	presence, err := cameras.Detect()
	if err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("  Camera scan failed: %v", err)))
		return
	}
	setup, err := cameras.Select(presence)
	if err != nil {
		fmt.Println(errorStyle.Render("  No supported camera detected."))
		return
	}

	fmt.Printf("  Mode: %s (%s)\n", successStyle.Render(string(setup.Mode)), setup.Description)
	fmt.Printf("  Views: %s\n", strings.Join(setup.Names(), ", "))
}

func printAuthStatus() {
	fmt.Println(subHeaderStyle.Render("Hugging Face"))

	user, err := hub.WhoAmI(context.Background())
	if err != nil {
		fmt.Println(warnStyle.Render("  Not authenticated. Run 'lesurgeon auth' after 'hf auth login'."))
		return
	}
	fmt.Printf("  Logged in as %s\n", successStyle.Render(user))
}
