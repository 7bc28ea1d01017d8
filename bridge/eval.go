package bridge

// Eval runs source as a script named name and returns its completion value,
// owned.
func (b *Bridge) Eval(name, source string) (*Value, error) {
	res, err := b.vm.RunScript(name, source)
	if err != nil {
		b.scope.RaiseError(err)
		return nil, b.capture("Could not evaluate " + name)
	}
	return b.owned(res), nil
}
