// Package hostfuncs provides the host side of the guest boundary: JSON host
// functions that scripts reach through the "host" guest module, and the native
// guest modules (object bridge, serializer, frame formatter) the bridge relies on.
// Both are collected into an immutable HandlerRegistry.
package hostfuncs
