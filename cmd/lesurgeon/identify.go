package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/lesurgeon/lesurgeon/pkg/ports"
	"github.com/lesurgeon/lesurgeon/pkg/robot"
)

type IdentifyCommand struct{}

// Polling window while waiting for a newly connected arm to enumerate.
const (
	identifyAttempts = 30
	identifyInterval = time.Second
)

func (c *IdentifyCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("LeSurgeon Identify"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━"))
	fmt.Println()
	fmt.Println("Each arm is identified by the USB serial number of its controller")
	fmt.Println("board, so the mapping survives replugging and port renumbering.")
	fmt.Println()

	cfg := loadConfigOrDefault()

	waitForUser("Disconnect BOTH arms from USB, then continue.")
	baseline := snapshotSerials()

	leaderSerial := captureNewSerial("leader", baseline)
	baseline[leaderSerial] = ""

	followerSerial := captureNewSerial("follower", baseline)

	cfg.Leader.Serial = leaderSerial
	cfg.Follower.Serial = followerSerial
	if err := cfg.Save(); err != nil {
		fatalf("Error saving config: %v", err)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Arms identified:"))
	fmt.Printf("  Leader:   serial %s\n", leaderSerial)
	fmt.Printf("  Follower: serial %s\n", followerSerial)
	fmt.Printf("Configuration saved to %s\n", robot.DefaultConfigFile)
	fmt.Println()
	fmt.Println("Next: " + headerStyle.Render("lesurgeon calibrate"))

	return nil
}

func snapshotSerials() map[string]string {
	serials, err := ports.Serials(ports.SystemLister{})
	if err != nil {
		fatalf("Error listing serial ports: %v", err)
	}
	return serials
}

// captureNewSerial prompts the operator to plug in one arm and returns
// whichever serial number newly appears relative to the baseline set.
func captureNewSerial(role string, baseline map[string]string) string {
	fmt.Println()
	fmt.Println(subHeaderStyle.Render(fmt.Sprintf("━━━ Connect the %s arm ━━━", role)))
	waitForUser(fmt.Sprintf("Connect ONLY the %s arm to USB, then continue.", role))

	for i := 0; i < identifyAttempts; i++ {
		current := snapshotSerials()
		var fresh []string
		for serial := range current {
			if _, seen := baseline[serial]; !seen && serial != "" {
				fresh = append(fresh, serial)
			}
		}
		switch len(fresh) {
		case 0:
			time.Sleep(identifyInterval)
		case 1:
			fmt.Printf("  Detected %s arm: serial %s on %s\n",
				role, fresh[0], current[fresh[0]])
			return fresh[0]
		default:
			fatalf("More than one new device appeared (%v). Connect a single arm at a time.", fresh)
		}
	}

	fatalf("No new serial device appeared for the %s arm. Check the cable and power, then re-run identify.", role)
	return ""
}

func waitForUser(prompt string) {
	fmt.Println(prompt)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("").
				Affirmative("Continue").
				Negative("").
				Value(new(bool)),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
}
