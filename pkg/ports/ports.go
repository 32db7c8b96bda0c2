// Package ports resolves which serial port belongs to which robot arm.
//
// Arms are matched by USB serial number rather than device path, so the
// mapping survives replugging and USB topology changes that shuffle
// /dev/ttyACM* assignments.
package ports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial/enumerator"
)

// Role names an arm in the teleoperation pair.
type Role string

const (
	Leader   Role = "leader"
	Follower Role = "follower"
)

// Default serial numbers of the rig's arm controller boards.
const (
	DefaultLeaderSerial   = "5A46085090"
	DefaultFollowerSerial = "58FA101278"
)

var (
	// ErrDeviceNotFound is returned when a configured serial number is not
	// present among the currently enumerated devices.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrAmbiguousSerial is returned when more than one device reports the
	// same configured serial number.
	ErrAmbiguousSerial = errors.New("ambiguous serial number")
)

// Targets holds the serial numbers to resolve.
type Targets struct {
	LeaderSerial   string
	FollowerSerial string
}

// DefaultTargets returns the rig's stock serial numbers.
func DefaultTargets() Targets {
	return Targets{
		LeaderSerial:   DefaultLeaderSerial,
		FollowerSerial: DefaultFollowerSerial,
	}
}

// Device is one enumerated serial device with its classification.
type Device struct {
	Path   string
	Serial string
	Role   Role // empty when the device matches neither target
}

// Resolution is the outcome of a scan: both role ports plus the full
// classified device list for status display.
type Resolution struct {
	LeaderPort   string
	FollowerPort string
	Devices      []Device
}

// Lister enumerates serial devices. The production implementation reads the
// live OS device list; tests substitute a fixed set.
type Lister interface {
	List() ([]Device, error)
}

// SystemLister enumerates USB serial devices via the OS.
type SystemLister struct{}

func (SystemLister) List() ([]Device, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}
	var devices []Device
	for _, d := range details {
		if !d.IsUSB {
			continue
		}
		devices = append(devices, Device{Path: d.Name, Serial: d.SerialNumber})
	}
	return devices, nil
}

// Serials returns the serial numbers of all currently attached USB serial
// devices. Used by the identify wizard to diff before/after plugging in an
// arm.
func Serials(l Lister) (map[string]string, error) {
	devices, err := l.List()
	if err != nil {
		return nil, err
	}
	serials := make(map[string]string, len(devices))
	for _, d := range devices {
		serials[d.Serial] = d.Path
	}
	return serials, nil
}

// Resolve scans the currently attached devices and binds both roles.
//
// Resolution is total: a serial that matches nothing yields
// ErrDeviceNotFound, and a serial reported by more than one device yields
// ErrAmbiguousSerial. Both errors identify the affected role.
func Resolve(l Lister, t Targets) (*Resolution, error) {
	devices, err := l.List()
	if err != nil {
		return nil, err
	}

	res := &Resolution{}
	var leaderCount, followerCount int

	for _, d := range devices {
		switch d.Serial {
		case t.LeaderSerial:
			d.Role = Leader
			leaderCount++
			res.LeaderPort = d.Path
		case t.FollowerSerial:
			d.Role = Follower
			followerCount++
			res.FollowerPort = d.Path
		}
		res.Devices = append(res.Devices, d)
	}

	if err := checkRole(Leader, t.LeaderSerial, leaderCount); err != nil {
		return nil, err
	}
	if err := checkRole(Follower, t.FollowerSerial, followerCount); err != nil {
		return nil, err
	}
	if res.LeaderPort == res.FollowerPort {
		return nil, fmt.Errorf("leader and follower resolved to the same port %s: %w",
			res.LeaderPort, ErrAmbiguousSerial)
	}

	return res, nil
}

func checkRole(role Role, serial string, count int) error {
	switch count {
	case 0:
		return fmt.Errorf("%s arm (serial %s): %w", role, serial, ErrDeviceNotFound)
	case 1:
		return nil
	default:
		return fmt.Errorf("%s arm: %d devices report serial %s: %w",
			role, count, serial, ErrAmbiguousSerial)
	}
}

// WaitForArms retries Resolve a bounded number of times, sleeping between
// attempts, for the window right after the arms are powered on and the OS is
// still registering the USB devices.
func WaitForArms(ctx context.Context, l Lister, t Targets, attempts int, interval time.Duration) (*Resolution, error) {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(interval):
			}
		}
		res, err := Resolve(l, t)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !errors.Is(err, ErrDeviceNotFound) {
			return nil, err
		}
	}
	return nil, lastErr
}
