package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hipsterbrown/feetech-servo/feetech"

	"github.com/lesurgeon/lesurgeon/pkg/ports"
	"github.com/lesurgeon/lesurgeon/pkg/robot"
)

type CalibrateCommand struct {
	Arm string `long:"arm" choice:"leader" choice:"follower" choice:"both" default:"both" description:"Which arm to calibrate"`
}

func (c *CalibrateCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("LeSurgeon Calibrate"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━"))
	fmt.Println()

	cfg := loadConfigOrDefault()
	res := resolveArms(context.Background(), cfg)

	if c.Arm == "both" || c.Arm == "leader" {
		fmt.Println(subHeaderStyle.Render("━━━ Calibrating Leader Arm ━━━"))
		fmt.Println()
		calibrateArm(&cfg.Leader, ports.Leader, res.LeaderPort)
		if err := cfg.Save(); err != nil {
			fatalf("Error saving config: %v", err)
		}
		fmt.Println()
	}

	if c.Arm == "both" || c.Arm == "follower" {
		fmt.Println(subHeaderStyle.Render("━━━ Calibrating Follower Arm ━━━"))
		fmt.Println()
		calibrateArm(&cfg.Follower, ports.Follower, res.FollowerPort)
		if err := cfg.Save(); err != nil {
			fatalf("Error saving config: %v", err)
		}
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Calibration complete!"))
	fmt.Printf("Configuration saved to %s\n", robot.DefaultConfigFile)
	fmt.Println()
	fmt.Println("Start teleoperation with: " + headerStyle.Render("lesurgeon teleoperate"))

	return nil
}

func calibrateArm(armConfig *robot.ArmConfig, role ports.Role, port string) {
	fmt.Printf("Calibrating %s arm on %s\n", role, port)
	fmt.Println()

	ctx := context.Background()
	bus, servos, err := robot.VerifyArm(ctx, port)
	if err != nil {
		fatalf("Error connecting to arm: %v", err)
	}
	defer bus.Close()

	// Create servos map by ID
	servoMap := make(map[int]*feetech.Servo)
	for _, s := range servos {
		servoMap[s.ID] = feetech.NewServo(bus, s.ID, s.Model)
	}

	// Disable all servos so user can move arm freely
	for _, servo := range servoMap {
		servo.Disable(ctx)
	}

	motors := robot.AllMotors()

	fmt.Println(subHeaderStyle.Render("Record range of motion"))
	fmt.Println("Move each joint to its minimum AND maximum positions.")
	fmt.Println("Explore the full range of motion for all joints.")
	fmt.Println()

	// Initialize tracking maps
	curPositions := make(map[robot.MotorName]int)
	minPositions := make(map[robot.MotorName]int)
	maxPositions := make(map[robot.MotorName]int)
	for i, motorName := range motors {
		servoID := i + 1
		servo := servoMap[servoID]
		pos, _ := servo.Position(ctx)
		curPositions[motorName] = pos
		minPositions[motorName] = pos
		maxPositions[motorName] = pos
	}

	// Run calibration TUI
	model := newCalibrationModel(motors, servoMap, curPositions, minPositions, maxPositions)
	p := tea.NewProgram(model)
	finalModel, err := p.Run()
	if err != nil {
		fatalf("Error running calibration: %v", err)
	}

	// Get final positions from model
	cm := finalModel.(calibrationModel)
	calibration := make(robot.Calibration)
	for i, motorName := range motors {
		servoID := i + 1
		calibration[motorName] = robot.MotorCalibration{
			ID:       servoID,
			RangeMin: cm.minPositions[motorName],
			RangeMax: cm.maxPositions[motorName],
		}
	}

	armConfig.Calibration = calibration
	fmt.Println()
	fmt.Printf("%s arm calibrated.\n", strings.Title(string(role)))
}

// Calibration TUI model
type calibrationModel struct {
	motors       []robot.MotorName
	servoMap     map[int]*feetech.Servo
	curPositions map[robot.MotorName]int
	minPositions map[robot.MotorName]int
	maxPositions map[robot.MotorName]int
	quitting     bool
}

type tickMsg time.Time

func newCalibrationModel(
	motors []robot.MotorName,
	servoMap map[int]*feetech.Servo,
	curPositions, minPositions, maxPositions map[robot.MotorName]int,
) calibrationModel {
	return calibrationModel{
		motors:       motors,
		servoMap:     servoMap,
		curPositions: curPositions,
		minPositions: minPositions,
		maxPositions: maxPositions,
	}
}

func (m calibrationModel) Init() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m calibrationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tickMsg:
		// Read positions from servos
		ctx := context.Background()
		for i, motorName := range m.motors {
			servoID := i + 1
			servo := m.servoMap[servoID]
			pos, err := servo.Position(ctx)
			if err != nil {
				continue
			}
			m.curPositions[motorName] = pos
			if pos < m.minPositions[motorName] {
				m.minPositions[motorName] = pos
			}
			if pos > m.maxPositions[motorName] {
				m.maxPositions[motorName] = pos
			}
		}
		return m, tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})
	}

	return m, nil
}

func (m calibrationModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	// Table styles
	tableHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tableMotorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	tableCellStyle := lipgloss.NewStyle().Padding(0, 1)
	tableCurrentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Padding(0, 1)
	tableRangeGoodStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Padding(0, 1)
	tableRangeLowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)

	rows := make([][]string, 0, len(m.motors))
	ranges := make([]int, 0, len(m.motors))
	for _, motorName := range m.motors {
		rangeSize := m.maxPositions[motorName] - m.minPositions[motorName]
		ranges = append(ranges, rangeSize)
		rows = append(rows, []string{
			string(motorName),
			fmt.Sprintf("%d", m.curPositions[motorName]),
			fmt.Sprintf("%d", m.minPositions[motorName]),
			fmt.Sprintf("%d", m.maxPositions[motorName]),
			fmt.Sprintf("%d", rangeSize),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Motor", "Current", "Min", "Max", "Range").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			switch col {
			case 0:
				return tableMotorStyle
			case 1:
				return tableCurrentStyle
			case 4:
				if row >= 0 && row < len(ranges) && ranges[row] > 500 {
					return tableRangeGoodStyle
				}
				return tableRangeLowStyle
			default:
				return tableCellStyle
			}
		})

	sb.WriteString(t.Render())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Press Enter when done"))

	return sb.String()
}
