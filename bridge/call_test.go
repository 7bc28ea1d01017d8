package bridge_test

import (
	"strings"

	"github.com/reglet-dev/pate/bridge"
	"github.com/reglet-dev/pate/domain/errors"
	"github.com/reglet-dev/pate/host"
)

func (s *BridgeSuite) TestCall() {
	a, c := s.b.ToText("a"), s.b.ToText("c")
	args := s.b.Tuple(a, c)
	a.Release()
	c.Release()

	res, err := s.b.Call("join", "pate", args)
	s.Require().NoError(err)
	s.Equal(bridge.Owned, res.Ownership())
	s.Equal("ac", s.b.FromText(res))
	s.Nil(args.Raw(), "Call must consume its arguments")

	res.Release()
	s.assertNoLeak()
}

func (s *BridgeSuite) TestCallBindsNamespace() {
	res, err := s.b.Call("self", "pate", s.b.Tuple())
	s.Require().NoError(err)
	defer res.Release()
	s.Equal(true, res.Export())
}

func (s *BridgeSuite) TestCallEmptyTuple() {
	res, err := s.b.Call("echo", "pate", s.b.Tuple())
	s.Require().NoError(err)
	defer res.Release()
	s.Equal([]any{}, res.Export())
}

func (s *BridgeSuite) TestCallMissingArguments() {
	_, err := s.b.Call("echo", "pate", nil)

	var callErr *errors.CallError
	s.Require().ErrorAs(err, &callErr)
	s.Equal("missing arguments", callErr.Reason)
	s.True(strings.HasSuffix(s.b.LastTraceback(), "Missing arguments for pate echo"))
	s.assertNoLeak()
}

func (s *BridgeSuite) TestCallNonTupleArguments() {
	args := s.b.ToText("not a tuple")
	_, err := s.b.Call("echo", "pate", args)

	var callErr *errors.CallError
	s.Require().ErrorAs(err, &callErr)
	s.Equal("invalid arguments", callErr.Reason)
	s.Nil(args.Raw())
	s.assertNoLeak()
}

func (s *BridgeSuite) TestCallUnresolved() {
	_, err := s.b.Call("doesNotExist", "pate", s.b.Tuple())

	var resErr *errors.ResolutionError
	s.Require().ErrorAs(err, &resErr)
	s.True(strings.HasSuffix(s.b.LastTraceback(), "Failed to resolve pate doesNotExist"))
	s.assertNoLeak()

	_, err = s.b.Call("run", "nowhere", s.b.Tuple())
	s.Require().ErrorAs(err, &resErr)
	s.Contains(s.b.LastTraceback(), "Failed to resolve nowhere run")
	s.assertNoLeak()
}

func (s *BridgeSuite) TestCallNotCallable() {
	_, err := s.b.Call("notFn", "pate", s.b.Tuple())

	var callErr *errors.CallError
	s.Require().ErrorAs(err, &callErr)
	s.Equal("not callable", callErr.Reason)
	s.Equal("TypeError: 'int64' object is not callable\nNot callable pate.notFn", s.b.LastTraceback())
	s.assertNoLeak()
}

func (s *BridgeSuite) TestCallGuestException() {
	_, err := s.b.Call("fail", "pate", s.b.Tuple())

	var faultErr *errors.FaultError
	s.Require().ErrorAs(err, &faultErr)
	s.Equal("TypeError", faultErr.Fault.TypeName)
	s.Require().NotEmpty(faultErr.Fault.Frames)

	tb := s.b.LastTraceback()
	s.True(strings.HasPrefix(tb, "Traceback (most recent call last):\n"))
	s.True(strings.HasSuffix(tb, "TypeError: x is not a function\nNo result from pate.fail"))
	s.Contains(tb, `File "`)

	// Most recent call last.
	s.Less(strings.Index(tb, "in fail"), strings.Index(tb, "in inner"))

	s.Contains(s.logs.String(), "[ERROR] Traceback (most recent call last):")
	s.False(s.b.FaultPending())
	s.assertNoLeak()
}

func (s *BridgeSuite) TestCallPanickingHostFunction() {
	var (
		res *bridge.Value
		err error
	)
	s.Require().NotPanics(func() {
		res, err = s.b.Call("boom", "pate", s.b.Tuple())
	})
	s.Nil(res)

	var faultErr *errors.FaultError
	s.Require().ErrorAs(err, &faultErr)
	s.Equal("Error", faultErr.Fault.TypeName)

	tb := s.b.LastTraceback()
	s.Contains(tb, "Error: host.boom: panic: host handler exploded")
	s.True(strings.HasSuffix(tb, "No result from pate.boom"))
	s.False(s.b.FaultPending())
	s.assertNoLeak()

	// The interpreter survives the panic.
	v, err := s.b.Get("greeting", "pate")
	s.Require().NoError(err)
	s.Equal("hello", s.b.FromText(v))
}

func (s *BridgeSuite) TestCallThrowsText() {
	_, err := s.b.Call("throwText", "pate", s.b.Tuple())
	s.Require().Error(err)
	s.True(strings.HasSuffix(s.b.LastTraceback(), "boom\nNo result from pate.throwText"))
}

func (s *BridgeSuite) TestInvoke() {
	s.Require().NoError(s.b.Invoke("bump", "pate"))
	s.Require().NoError(s.b.Invoke("bump", "pate"))

	count, err := s.b.Get("count", "pate")
	s.Require().NoError(err)
	s.EqualValues(2, count.Export())
	s.assertNoLeak()

	s.Error(s.b.Invoke("fail", "pate"))
	s.assertNoLeak()
}

func (s *BridgeSuite) TestTracebackWithoutFault() {
	_, err := s.b.Get("doesNotExist", "pate")
	s.Require().Error(err)
	s.NotEmpty(s.b.LastTraceback())

	s.logs.Reset()
	s.b.Traceback("nothing happened")
	s.Empty(s.b.LastTraceback())
	s.Empty(s.logs.String())
}

func (s *BridgeSuite) TestEval() {
	v, err := s.b.Eval("sum", "1 + 2")
	s.Require().NoError(err)
	s.EqualValues(3, v.Export())
	v.Release()

	_, err = s.b.Eval("bad", "1 +")
	s.Require().Error(err)
	s.True(strings.HasSuffix(s.b.LastTraceback(), "Could not evaluate bad"))

	_, err = s.b.Eval("thrown", "throw new RangeError('out')")
	s.Require().Error(err)
	s.Contains(s.b.LastTraceback(), "RangeError: out\nCould not evaluate thrown")
	s.assertNoLeak()
}

func (s *BridgeSuite) TestValueOwnership() {
	v := s.b.ToText("x")
	s.Equal(s.refs+1, host.LiveRefs())

	r := v.Retain()
	s.Equal(s.refs+2, host.LiveRefs())

	v.Release()
	v.Release()
	s.Nil(v.Raw())
	s.Equal("<released>", v.String())
	s.Equal(s.refs+1, host.LiveRefs())

	r.Release()
	s.assertNoLeak()

	borrowed, err := s.b.Get("greeting", "pate")
	s.Require().NoError(err)
	borrowed.Release()
	s.NotNil(borrowed.Raw())

	owned := borrowed.Retain()
	s.Equal(bridge.Owned, owned.Ownership())
	owned.Release()
	s.assertNoLeak()
}
