// Package lerobot builds and runs invocations of the external LeRobot CLI.
//
// Recording, training, replay and dataset visualization are the Python
// tooling's job; this package only substitutes the resolved arm ports and
// the rendered camera map into the right argv and propagates exit codes.
package lerobot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// External tool names, resolved via PATH.
const (
	RecordTool     = "lerobot-record"
	TrainTool      = "lerobot-train"
	ReplayTool     = "lerobot-replay"
	DatasetVizTool = "lerobot-dataset-viz"
)

// Rig carries everything run-independent that LeRobot needs to know about
// the hardware: resolved ports, arm IDs and the camera map.
type Rig struct {
	LeaderPort   string
	FollowerPort string
	LeaderID     string
	FollowerID   string
	CameraConfig string
}

func (r Rig) robotArgs() []string {
	args := []string{
		"--robot.type=so101_follower",
		"--robot.port=" + r.FollowerPort,
		"--robot.id=" + r.FollowerID,
	}
	if r.CameraConfig != "" {
		args = append(args, "--robot.cameras="+r.CameraConfig)
	}
	return args
}

func (r Rig) teleopArgs() []string {
	return []string{
		"--teleop.type=so101_leader",
		"--teleop.port=" + r.LeaderPort,
		"--teleop.id=" + r.LeaderID,
	}
}

// RecordOptions parameterize one recording (or policy-eval) session.
type RecordOptions struct {
	Dataset     string // HF repo id, user/name
	Task        string
	NumEpisodes int
	EpisodeSecs int
	ResetSecs   int
	PolicyPath  string // set for inference runs
	Resume      bool
}

// RecordArgs builds the argv tail for lerobot-record. With PolicyPath set
// the same tool runs inference: the policy drives the follower and the
// rollouts land in the eval dataset.
func (r Rig) RecordArgs(o RecordOptions) []string {
	args := append(r.robotArgs(), r.teleopArgs()...)
	args = append(args,
		"--dataset.repo_id="+o.Dataset,
		"--dataset.single_task="+o.Task,
	)
	if o.NumEpisodes > 0 {
		args = append(args, fmt.Sprintf("--dataset.num_episodes=%d", o.NumEpisodes))
	}
	if o.EpisodeSecs > 0 {
		args = append(args, fmt.Sprintf("--dataset.episode_time_s=%d", o.EpisodeSecs))
	}
	if o.ResetSecs > 0 {
		args = append(args, fmt.Sprintf("--dataset.reset_time_s=%d", o.ResetSecs))
	}
	if o.PolicyPath != "" {
		args = append(args, "--policy.path="+o.PolicyPath)
	}
	if o.Resume {
		args = append(args, "--resume=true")
	}
	return args
}

// TrainOptions parameterize a policy training run.
type TrainOptions struct {
	Dataset     string
	Policy      string // act, diffusion
	OutputDir   string
	JobName     string
	Device      string
	WandBEnable bool
}

// TrainArgs builds the argv tail for lerobot-train.
func TrainArgs(o TrainOptions) []string {
	if o.Policy == "" {
		o.Policy = "act"
	}
	if o.Device == "" {
		o.Device = "cuda"
	}
	args := []string{
		"--dataset.repo_id=" + o.Dataset,
		"--policy.type=" + o.Policy,
		"--policy.device=" + o.Device,
	}
	if o.OutputDir != "" {
		args = append(args, "--output_dir="+o.OutputDir)
	}
	if o.JobName != "" {
		args = append(args, "--job_name="+o.JobName)
	}
	args = append(args, fmt.Sprintf("--wandb.enable=%t", o.WandBEnable))
	return args
}

// ReplayArgs builds the argv tail for lerobot-replay of one episode.
func (r Rig) ReplayArgs(dataset string, episode int) []string {
	args := []string{
		"--robot.type=so101_follower",
		"--robot.port=" + r.FollowerPort,
		"--robot.id=" + r.FollowerID,
	}
	return append(args,
		"--dataset.repo_id="+dataset,
		fmt.Sprintf("--dataset.episode=%d", episode),
	)
}

// VisualizeArgs builds the argv tail for lerobot-dataset-viz.
func VisualizeArgs(dataset string, episode int) []string {
	return []string{
		"--repo-id", dataset,
		"--episode-index", fmt.Sprint(episode),
	}
}

// Run executes an external tool with stdio attached to the operator's
// terminal. The tool's own exit code propagates as the error; nothing is
// retried.
func Run(ctx context.Context, tool string, args []string) error {
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", tool, err)
	}
	return nil
}
