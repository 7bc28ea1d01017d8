// Package entities provides the core domain types of the bridge.
// They carry no behaviour that depends on the guest runtime: faults, frames,
// configuration trees, settings and the records decoded from coordinator results.
package entities
