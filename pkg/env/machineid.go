// Package env provides identities of the environment a simulation runs in.
package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID salts the machine ID so the raw ID is never published.
const AppID = "uartsim"

// BenchIDLen is the length of the IDs returned by BenchID.
const BenchIDLen = 12

// MachineID retrieves the unique ID identifying the machine.
// The hostname is used when the ID isn't available.
func MachineID() string {
	id, err := machineid.ProtectedID(AppID)
	if err == nil && id != "" {
		return id
	}
	glog.Warningf("machine id unavailable: %v", err)
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "localhost"
}

// BenchID is a short MachineID used as the default bench name.
func BenchID() string {
	id := MachineID()
	if len(id) > BenchIDLen {
		id = id[:BenchIDLen]
	}
	return id
}
