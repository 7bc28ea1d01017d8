package bridge_test

import (
	"github.com/reglet-dev/pate/bridge"
	"github.com/reglet-dev/pate/domain/errors"
)

func (s *BridgeSuite) TestWrapAndUnwrap() {
	const addr uintptr = 0xBEEF

	proxy, err := s.b.Wrap(addr, "alpha.beta.Widget")
	s.Require().NoError(err)
	s.Equal(bridge.Owned, proxy.Ownership())

	ptr, err := s.b.Unwrap(proxy)
	s.Require().NoError(err)
	s.Equal(addr, ptr)

	res, err := s.b.Call("describe", "pate", s.b.Tuple(proxy))
	s.Require().NoError(err)
	s.Equal("widget", s.b.FromText(res))

	res.Release()
	proxy.Release()
	s.assertNoLeak()
}

// countWrapCalls replaces sip.wrapinstance with a wrapper counting its calls
// in the guest global wrapCalls.
func (s *BridgeSuite) countWrapCalls() {
	s.eval(`
globalThis.wrapCalls = 0;
(function (sip) {
  const wrap = sip.wrapinstance;
  sip.wrapinstance = function (ptr, cls) { globalThis.wrapCalls++; return wrap(ptr, cls); };
})(require("sip"));
`).Release()
}

func (s *BridgeSuite) wrapCalls() int64 {
	v := s.eval(`wrapCalls`)
	defer v.Release()
	return v.Raw().ToInteger()
}

func (s *BridgeSuite) TestWrapUnresolvedClass() {
	s.countWrapCalls()

	_, err := s.b.Wrap(1, "gamma.delta.Widget")

	var resErr *errors.ResolutionError
	s.Require().ErrorAs(err, &resErr)
	s.Equal("gamma.delta", resErr.Module)
	s.Equal("Widget", resErr.Item)
	s.Contains(s.b.LastTraceback(), "Could not resolve class gamma.delta.Widget")
	s.NotContains(s.b.LastTraceback(), "wrapinstance")

	_, err = s.b.Wrap(1, "alpha.beta.Gadget")
	s.Require().ErrorAs(err, &resErr)
	s.Contains(s.b.LastTraceback(), "Could not resolve class alpha.beta.Gadget")
	s.Zero(s.wrapCalls(), "wrapinstance called for an unresolved class")
	s.False(s.b.FaultPending())
	s.assertNoLeak()

	proxy, err := s.b.Wrap(1, "alpha.beta.Widget")
	s.Require().NoError(err)
	proxy.Release()
	s.Equal(int64(1), s.wrapCalls())
}

func (s *BridgeSuite) TestWrapUnqualifiedName() {
	for _, name := range []string{"Widget", ".Widget", "alpha.beta."} {
		_, err := s.b.Wrap(1, name)
		s.Error(err, name)
		s.Contains(s.b.LastTraceback(), "Could not resolve class "+name)
	}
}

func (s *BridgeSuite) TestWrapNonClass() {
	_, err := s.b.Wrap(1, "alpha.beta.notAClass")

	var codecErr *errors.CodecError
	s.Require().ErrorAs(err, &codecErr)
	s.Contains(s.b.LastTraceback(), "TypeError: wrapinstance() argument 2 must be a class")
	s.assertNoLeak()
}

func (s *BridgeSuite) TestUnwrapPlainObject() {
	plain := s.eval(`({})`)
	defer plain.Release()

	ptr, err := s.b.Unwrap(plain)
	s.Require().Error(err)
	s.Zero(ptr)
	s.Contains(s.b.LastTraceback(), "Could not unwrap instance")

	ptr, err = s.b.Unwrap(nil)
	s.Error(err)
	s.Zero(ptr)
}

func (s *BridgeSuite) TestUnwrapNonAddress() {
	proxy, err := s.b.Wrap(7, "alpha.beta.Widget")
	s.Require().NoError(err)
	defer proxy.Release()

	for _, replacement := range []string{"undefined", "-1", `"7"`} {
		s.eval(`require("sip").unwrapinstance = function () { return ` + replacement + `; }; 0`).Release()

		ptr, err := s.b.Unwrap(proxy)
		var codecErr *errors.CodecError
		s.Require().ErrorAs(err, &codecErr, replacement)
		s.Zero(ptr, replacement)

		tb := s.b.LastTraceback()
		s.Contains(tb, "TypeError: unwrapinstance() returned", replacement)
		s.Contains(tb, "Could not unwrap instance", replacement)
		s.False(s.b.FaultPending())
	}
}
