package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Status      StatusCommand      `command:"status" description:"Show arm and camera detection state"`
	Identify    IdentifyCommand    `command:"identify" description:"Record which USB serial number is the leader and which the follower"`
	Calibrate   CalibrateCommand   `command:"calibrate" description:"Calibrate the range of motion of both arms"`
	Teleoperate TeleoperateCommand `command:"teleoperate" alias:"teleop" description:"Start teleoperation (leader-follower control)"`
	Record      RecordCommand      `command:"record" description:"Record episodes into a LeRobot dataset"`
	Train       TrainCommand       `command:"train" description:"Train a policy on a recorded dataset"`
	Inference   InferenceCommand   `command:"inference" description:"Run a trained policy on the rig"`
	Replay      ReplayCommand      `command:"replay" description:"Replay a recorded episode on the follower"`
	Visualize   VisualizeCommand   `command:"visualize" description:"Visualize a recorded dataset"`
	Upload      UploadCommand      `command:"upload" description:"Upload a local model or dataset to the Hugging Face Hub"`
	Auth        AuthCommand        `command:"auth" description:"Check Hugging Face authentication and store run defaults"`
	Bridge      BridgeCommand      `command:"bridge" description:"Run the ZED virtual camera bridge standalone"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "LeSurgeon - operational harness for the dual-arm surgical teleoperation rig"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
