// Package host owns the embedded script interpreter.
//
// At most one interpreter exists per process. Load brings it up from a script
// library directory and Unload tears it down; both are idempotent. Every use of
// the interpreter happens under its execution lock, held through a Scope
// obtained from Acquire. Scopes nest through context.Context, so host code
// called back from a script can take the lock again without deadlocking.
//
// The package also keeps the interpreter-wide state the bridge relies on: the
// pending fault register, the live reference counter and the text
// capabilities reported by the VM.
package host
