// Package robohost provisions the device-identity layer of a
// robot-teleoperation host.
//
// A teleoperation host drives an SO-101 follower arm from a leader arm. Both
// arms enumerate as anonymous USB serial devices, so the host keeps a
// registry mapping each arm's hardware serial number to a human-assigned
// name, role, and type. From that registry it derives stable device-naming
// rules and the on-disk location of each arm's calibration file.
//
// # Usage
//
// Plug in one arm at a time and register it:
//
//	robohost register --role leader
//
// Then generate naming rules and push calibration data to the runtime cache:
//
//	robohost rules -o 99-robohost.rules
//	robohost export
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/robohost: CLI with register, rules, export/import, check, watch,
//     probe and startup commands
//   - pkg/device: device discovery, disambiguation and serial resolution
//   - pkg/registry: the serial-to-name mapping store
//   - pkg/rules: naming-rule derivation
//   - pkg/calib: calibration path derivation and tree synchronization
//   - pkg/hostconf: host configuration
package robohost
