package bridge_test

import (
	stdErrors "errors"

	"github.com/reglet-dev/pate/bridge"
	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/domain/errors"
)

func (s *BridgeSuite) TestImport() {
	m, err := s.b.Import("alpha.beta")
	s.Require().NoError(err)
	s.Equal(bridge.Borrowed, m.Ownership())

	again, err := s.b.Import("alpha.beta")
	s.Require().NoError(err)
	s.Same(m.Raw(), again.Raw())

	_, err = s.b.Import("sip")
	s.NoError(err)
	s.assertNoLeak()
}

func (s *BridgeSuite) TestImportMissingModule() {
	_, err := s.b.Import("does.not.exist")

	var resErr *errors.ResolutionError
	s.Require().ErrorAs(err, &resErr)
	s.Equal("does.not.exist", resErr.Module)

	tb := s.b.LastTraceback()
	s.Contains(tb, "Error: Cannot find module 'does.not.exist'")
	s.Contains(tb, "Could not import does.not.exist")
	s.NotContains(tb, "Traceback (most recent call last)")
	s.False(s.b.FaultPending())
}

func (s *BridgeSuite) TestImportInvalidName() {
	_, err := s.b.Import("../escape")
	s.Require().Error(err)
	s.Contains(s.b.LastTraceback(), "TypeError: Invalid module name '../escape'")
}

func (s *BridgeSuite) TestNamespace() {
	m, err := s.b.Import("pate")
	s.Require().NoError(err)

	ns, err := s.b.Namespace(m)
	s.Require().NoError(err)
	s.Equal(bridge.Borrowed, ns.Ownership())

	byName, err := s.b.NamespaceOf("pate")
	s.Require().NoError(err)
	s.Same(ns.Raw(), byName.Raw())

	text := s.b.ToText("pate")
	defer text.Release()
	_, err = s.b.Namespace(text)
	s.Require().Error(err)
	s.Contains(s.b.LastTraceback(), "Could not get dict pate")
}

func (s *BridgeSuite) TestGetReturnsFalsyValues() {
	zero, err := s.b.Get("zero", "pate")
	s.Require().NoError(err)
	s.EqualValues(0, zero.Export())

	no, err := s.b.Get("no", "pate")
	s.Require().NoError(err)
	s.Equal(false, no.Export())

	nothing, err := s.b.Get("nothing", "pate")
	s.Require().NoError(err)
	s.True(nothing.IsNull())

	s.Empty(s.b.LastTraceback())
	s.assertNoLeak()
}

func (s *BridgeSuite) TestGetMissingItem() {
	_, err := s.b.Get("doesNotExist", "pate")

	var resErr *errors.ResolutionError
	s.Require().ErrorAs(err, &resErr)
	s.Equal("doesNotExist", resErr.Item)

	var faultErr *errors.FaultError
	s.Require().ErrorAs(err, &faultErr)
	s.Equal(entities.FaultKey, faultErr.Fault.TypeName)

	s.Equal("KeyError: 'doesNotExist' not found in module 'pate'\nCould not get item string pate.doesNotExist",
		s.b.LastTraceback())
	s.Equal(s.b.LastTraceback(), errors.TracebackOf(err))
}

func (s *BridgeSuite) TestGetIgnoresInheritedProperties() {
	_, err := s.b.Get("toString", "pate")
	s.Error(err)
}

func (s *BridgeSuite) TestGetFrom() {
	dict := s.eval(`({a: 1, b: ""})`)
	defer dict.Release()

	b, err := s.b.GetFrom("b", dict)
	s.Require().NoError(err)
	s.Equal("", s.b.FromText(b))
	s.True(s.b.IsText(b))

	_, err = s.b.GetFrom("c", dict)
	s.Require().Error(err)
	s.Contains(s.b.LastTraceback(), "KeyError: 'c'")
	s.Contains(s.b.LastTraceback(), "Could not get item string c")
}

func (s *BridgeSuite) TestSetAndDelete() {
	v := s.b.ToText("value")
	s.Require().NoError(s.b.Set("added", v, "pate"))
	v.Release()

	got, err := s.b.Get("added", "pate")
	s.Require().NoError(err)
	s.Equal("value", s.b.FromText(got))

	s.Require().NoError(s.b.Delete("added", "pate"))
	_, err = s.b.Get("added", "pate")
	s.Error(err)
	s.assertNoLeak()
}

func (s *BridgeSuite) TestSetOnFrozenNamespace() {
	v := s.b.ValueOf(2)
	defer v.Release()

	err := s.b.Set("x", v, "frozen")
	s.Require().Error(err)
	s.Contains(s.b.LastTraceback(), "Could not set item string frozen.x")

	got, err := s.b.Get("x", "frozen")
	s.Require().NoError(err)
	s.EqualValues(1, got.Export())
}

func (s *BridgeSuite) TestSetUnknownModule() {
	err := s.b.Set("x", nil, "nowhere")
	s.Require().Error(err)
	s.Contains(s.b.LastTraceback(), "Could not set item string nowhere.x")
}

func (s *BridgeSuite) TestDeleteMissingItem() {
	err := s.b.Delete("missing", "pate")

	var resErr *errors.ResolutionError
	s.Require().True(stdErrors.As(err, &resErr))
	s.Contains(s.b.LastTraceback(), "KeyError: 'missing' not found in module 'pate'")
	s.Contains(s.b.LastTraceback(), "Could not delete item string pate.missing")
}

func (s *BridgeSuite) TestDeleteFromFrozenNamespace() {
	err := s.b.Delete("x", "frozen")
	s.Require().Error(err)
	s.Contains(s.b.LastTraceback(), "Could not delete item string frozen.x")
}
