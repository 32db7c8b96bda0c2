package lerobot

import (
	"slices"
	"strings"
	"testing"
)

var testRig = Rig{
	LeaderPort:   "/dev/ttyACM0",
	FollowerPort: "/dev/ttyACM1",
	LeaderID:     "lesurgeon_leader_arm",
	FollowerID:   "lesurgeon_follower_arm",
	CameraConfig: "{ wrist: {type: opencv, index_or_path: /dev/video0, width: 1280, height: 720, fps: 30} }",
}

func TestRecordArgs(t *testing.T) {
	args := testRig.RecordArgs(RecordOptions{
		Dataset:     "surgeon/needle-pass",
		Task:        "Pass the needle",
		NumEpisodes: 10,
		EpisodeSecs: 30,
	})

	want := []string{
		"--robot.port=/dev/ttyACM1",
		"--teleop.port=/dev/ttyACM0",
		"--robot.id=lesurgeon_follower_arm",
		"--teleop.id=lesurgeon_leader_arm",
		"--dataset.repo_id=surgeon/needle-pass",
		"--dataset.single_task=Pass the needle",
		"--dataset.num_episodes=10",
		"--dataset.episode_time_s=30",
	}
	for _, w := range want {
		if !slices.Contains(args, w) {
			t.Errorf("RecordArgs missing %q in %v", w, args)
		}
	}
	if !slices.Contains(args, "--robot.cameras="+testRig.CameraConfig) {
		t.Error("RecordArgs missing camera map")
	}
	for _, a := range args {
		if strings.HasPrefix(a, "--policy.path=") {
			t.Errorf("teleoperated recording should not carry a policy: %v", a)
		}
	}
}

func TestRecordArgs_Inference(t *testing.T) {
	args := testRig.RecordArgs(RecordOptions{
		Dataset:    "surgeon/eval-needle-pass",
		Task:       "Pass the needle",
		PolicyPath: "surgeon/act-needle-pass",
	})
	if !slices.Contains(args, "--policy.path=surgeon/act-needle-pass") {
		t.Errorf("inference args missing policy path: %v", args)
	}
}

func TestTrainArgs_Defaults(t *testing.T) {
	args := TrainArgs(TrainOptions{Dataset: "surgeon/needle-pass"})
	for _, w := range []string{
		"--dataset.repo_id=surgeon/needle-pass",
		"--policy.type=act",
		"--policy.device=cuda",
		"--wandb.enable=false",
	} {
		if !slices.Contains(args, w) {
			t.Errorf("TrainArgs missing %q in %v", w, args)
		}
	}
}

func TestReplayArgs(t *testing.T) {
	args := testRig.ReplayArgs("surgeon/needle-pass", 3)
	for _, w := range []string{
		"--robot.port=/dev/ttyACM1",
		"--dataset.repo_id=surgeon/needle-pass",
		"--dataset.episode=3",
	} {
		if !slices.Contains(args, w) {
			t.Errorf("ReplayArgs missing %q in %v", w, args)
		}
	}
	for _, a := range args {
		if strings.HasPrefix(a, "--teleop.") {
			t.Errorf("replay should not configure a teleop device: %v", a)
		}
	}
}

func TestVisualizeArgs(t *testing.T) {
	args := VisualizeArgs("surgeon/needle-pass", 0)
	want := []string{"--repo-id", "surgeon/needle-pass", "--episode-index", "0"}
	if !slices.Equal(args, want) {
		t.Errorf("VisualizeArgs = %v, want %v", args, want)
	}
}
