package ports

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeLister struct {
	devices []Device
	err     error
}

func (f fakeLister) List() ([]Device, error) {
	return f.devices, f.err
}

func TestResolve_BothArmsPresent(t *testing.T) {
	l := fakeLister{devices: []Device{
		{Path: "/dev/ttyACM0", Serial: "5A46085090"},
		{Path: "/dev/ttyACM1", Serial: "58FA101278"},
	}}

	res, err := Resolve(l, DefaultTargets())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.LeaderPort != "/dev/ttyACM0" {
		t.Errorf("leader port = %s, want /dev/ttyACM0", res.LeaderPort)
	}
	if res.FollowerPort != "/dev/ttyACM1" {
		t.Errorf("follower port = %s, want /dev/ttyACM1", res.FollowerPort)
	}
}

func TestResolve_PathOrderDoesNotMatter(t *testing.T) {
	// Same devices, swapped enumeration order and swapped paths: matching is
	// by serial identity, not position.
	l := fakeLister{devices: []Device{
		{Path: "/dev/ttyACM0", Serial: "58FA101278"},
		{Path: "/dev/ttyACM1", Serial: "5A46085090"},
	}}

	res, err := Resolve(l, DefaultTargets())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.LeaderPort != "/dev/ttyACM1" {
		t.Errorf("leader port = %s, want /dev/ttyACM1", res.LeaderPort)
	}
	if res.FollowerPort != "/dev/ttyACM0" {
		t.Errorf("follower port = %s, want /dev/ttyACM0", res.FollowerPort)
	}
}

func TestResolve_Classification(t *testing.T) {
	l := fakeLister{devices: []Device{
		{Path: "/dev/ttyACM0", Serial: "5A46085090"},
		{Path: "/dev/ttyACM1", Serial: "58FA101278"},
		{Path: "/dev/ttyUSB0", Serial: "AABBCCDD"},
	}}

	res, err := Resolve(l, DefaultTargets())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	roles := make(map[string]Role)
	for _, d := range res.Devices {
		roles[d.Path] = d.Role
	}
	if roles["/dev/ttyACM0"] != Leader {
		t.Errorf("ttyACM0 role = %q, want leader", roles["/dev/ttyACM0"])
	}
	if roles["/dev/ttyACM1"] != Follower {
		t.Errorf("ttyACM1 role = %q, want follower", roles["/dev/ttyACM1"])
	}
	if roles["/dev/ttyUSB0"] != "" {
		t.Errorf("ttyUSB0 role = %q, want unknown", roles["/dev/ttyUSB0"])
	}
}

func TestResolve_MissingFollower(t *testing.T) {
	l := fakeLister{devices: []Device{
		{Path: "/dev/ttyACM0", Serial: "5A46085090"},
	}}

	_, err := Resolve(l, DefaultTargets())
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("Resolve error = %v, want ErrDeviceNotFound", err)
	}
}

func TestResolve_NoDevices(t *testing.T) {
	_, err := Resolve(fakeLister{}, DefaultTargets())
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("Resolve error = %v, want ErrDeviceNotFound", err)
	}
}

func TestResolve_DuplicateSerial(t *testing.T) {
	l := fakeLister{devices: []Device{
		{Path: "/dev/ttyACM0", Serial: "5A46085090"},
		{Path: "/dev/ttyACM1", Serial: "5A46085090"},
		{Path: "/dev/ttyACM2", Serial: "58FA101278"},
	}}

	_, err := Resolve(l, DefaultTargets())
	if !errors.Is(err, ErrAmbiguousSerial) {
		t.Fatalf("Resolve error = %v, want ErrAmbiguousSerial", err)
	}
}

func TestWaitForArms_BoundedRetries(t *testing.T) {
	l := fakeLister{} // nothing ever appears
	start := time.Now()
	_, err := WaitForArms(context.Background(), l, DefaultTargets(), 3, time.Millisecond)
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("WaitForArms error = %v, want ErrDeviceNotFound", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("WaitForArms took %v, retries appear unbounded", elapsed)
	}
}

func TestWaitForArms_ZeroAttemptsStillResolves(t *testing.T) {
	l := fakeLister{devices: []Device{
		{Path: "/dev/ttyACM0", Serial: "5A46085090"},
		{Path: "/dev/ttyACM1", Serial: "58FA101278"},
	}}
	res, err := WaitForArms(context.Background(), l, DefaultTargets(), 0, time.Millisecond)
	if err != nil {
		t.Fatalf("WaitForArms failed: %v", err)
	}
	if res == nil {
		t.Fatal("WaitForArms returned nil resolution with nil error")
	}

	// And with nothing attached the single pass still fails closed.
	_, err = WaitForArms(context.Background(), fakeLister{}, DefaultTargets(), 0, time.Millisecond)
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("WaitForArms error = %v, want ErrDeviceNotFound", err)
	}
}

func TestWaitForArms_AmbiguousIsNotRetried(t *testing.T) {
	l := fakeLister{devices: []Device{
		{Path: "/dev/ttyACM0", Serial: "5A46085090"},
		{Path: "/dev/ttyACM1", Serial: "5A46085090"},
		{Path: "/dev/ttyACM2", Serial: "58FA101278"},
	}}
	_, err := WaitForArms(context.Background(), l, DefaultTargets(), 5, time.Hour)
	if !errors.Is(err, ErrAmbiguousSerial) {
		t.Fatalf("WaitForArms error = %v, want ErrAmbiguousSerial", err)
	}
}

func TestSerials(t *testing.T) {
	l := fakeLister{devices: []Device{
		{Path: "/dev/ttyACM0", Serial: "5A46085090"},
		{Path: "/dev/ttyACM1", Serial: "58FA101278"},
	}}
	serials, err := Serials(l)
	if err != nil {
		t.Fatalf("Serials failed: %v", err)
	}
	if serials["5A46085090"] != "/dev/ttyACM0" {
		t.Errorf("serial map = %v", serials)
	}
	if len(serials) != 2 {
		t.Errorf("got %d serials, want 2", len(serials))
	}
}
