package bridge_test

import (
	"github.com/reglet-dev/pate/bridge"
	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/domain/errors"
)

func (s *BridgeSuite) TestModuleHelp() {
	help, err := s.b.ModuleHelp("tools")
	s.Require().NoError(err)
	s.Equal("Sorts lines.", help)

	help, err = s.b.ModuleHelp("broken")
	s.Require().NoError(err)
	s.Equal("", help)
	s.assertNoLeak()
}

func (s *BridgeSuite) TestModuleActions() {
	actions, err := s.b.ModuleActions("tools")
	s.Require().NoError(err)
	s.Equal(bridge.Owned, actions.Ownership())
	actions.Release()

	pages, err := s.b.ModuleConfigPages("tools")
	s.Require().NoError(err)
	pages.Release()
	s.assertNoLeak()
}

func (s *BridgeSuite) TestInvokeHandlerUnknownModule() {
	_, err := s.b.InvokeHandler("nowhere", bridge.HandlerHelp)
	s.Require().Error(err)
	s.Contains(s.b.LastTraceback(), "Could not import nowhere")
	s.assertNoLeak()

	_, err = s.b.InvokeHandler("tools", "moduleGetNothing")
	s.Require().Error(err)
	s.Contains(s.b.LastTraceback(), "Failed to resolve kate moduleGetNothing")
	s.assertNoLeak()
}

func (s *BridgeSuite) TestActions() {
	actions, err := s.b.Actions("tools")
	s.Require().NoError(err)
	s.Equal([]entities.Action{
		{Function: "sortLines", Text: "Sort", Icon: "view-sort", Shortcut: "Ctrl+Alt+S", Menu: "Edit"},
		{Function: "reverseLines", Text: "Reverse", Menu: "Edit"},
	}, actions)
	s.assertNoLeak()
}

func (s *BridgeSuite) TestConfigPages() {
	pages, err := s.b.ConfigPages("tools")
	s.Require().NoError(err)
	s.Equal([]entities.ConfigPage{
		{Function: "toolsPage", Name: "Tools", FullName: "Tools settings", Icon: "configure"},
	}, pages)
	s.assertNoLeak()
}

func (s *BridgeSuite) TestActionsOfBadShape() {
	_, err := s.b.Actions("broken")
	var codecErr *errors.CodecError
	s.Require().ErrorAs(err, &codecErr)
	s.Equal("action list", codecErr.Want)

	_, err = s.b.ConfigPages("broken")
	s.Require().ErrorAs(err, &codecErr)
	s.Contains(err.Error(), "entry 0 is")
	s.False(s.b.FaultPending())
	s.assertNoLeak()
}
