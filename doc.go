// Package lesurgeon is the operational harness for a teleoperated dual-arm
// surgical robotics rig built around SO-101 arms and a ZED stereo depth
// camera.
//
// The harness resolves which serial port belongs to the leader and follower
// arm by USB serial number, detects which supported cameras are attached,
// bridges the ZED's stereo and depth frames into v4l2 loopback devices, and
// wires all of it into the LeRobot tooling for recording, training and
// inference.
//
// # Installation
//
//	go install github.com/lesurgeon/lesurgeon/cmd/lesurgeon@latest
//
// # Usage
//
// Identify the arms once (serial numbers survive USB re-plugging):
//
//	lesurgeon identify
//
// Then calibrate and start teleoperation:
//
//	lesurgeon calibrate
//	lesurgeon teleoperate
//
// Recording, training and the rest of the pipeline forward to the external
// LeRobot CLI with resolved ports and cameras substituted in:
//
//	lesurgeon record --dataset user/needle-pass --task "Pass the needle"
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/lesurgeon: CLI dispatcher with all operational subcommands
//   - pkg/ports: leader/follower port resolution by USB serial number
//   - pkg/cameras: camera product detection and configuration templates
//   - pkg/zedbridge: ZED frames into v4l2 loopback devices via ffmpeg
//   - pkg/robot: arm control, calibration, and persisted configuration
//   - pkg/teleop: native leader-follower teleoperation loop
//   - pkg/lerobot: argv construction for the external LeRobot CLI
//   - pkg/hub: Hugging Face credentials and run defaults
package lesurgeon
