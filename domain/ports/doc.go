// Package ports defines the interfaces the bridge uses to reach host
// infrastructure. Adapters under infrastructure/ implement them.
package ports
