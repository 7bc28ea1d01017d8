package bridge_test

func (s *BridgeSuite) TestPrependText() {
	list := s.b.NewList("b", "c")
	defer list.Release()

	s.Require().NoError(s.b.PrependText(list, "a"))
	s.Equal([]any{"a", "b", "c"}, list.Export())

	text := s.b.ToText("x")
	defer text.Release()
	err := s.b.PrependText(text, "a")
	s.Require().Error(err)
	s.Equal("TypeError: expected an array, got string\nFailed to prepend a", s.b.LastTraceback())
}
