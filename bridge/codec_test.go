package bridge_test

func (s *BridgeSuite) TestTextRoundTrip() {
	cases := map[string]string{
		"empty":      "",
		"ascii":      "hello, world",
		"latin1":     "café déjà vu ÿ",
		"bmp":        "Ελληνικά 中文",
		"surrogates": "emoji 😀 and 𝄞",
		"mixed":      "aé中\U0001F600",
	}
	for name, text := range cases {
		s.Run(name, func() {
			v := s.b.ToText(text)
			defer v.Release()
			s.True(s.b.IsText(v))
			s.Equal(text, s.b.FromText(v))
		})
	}
	s.assertNoLeak()
}

func (s *BridgeSuite) TestFromTextOfGuestStrings() {
	v := s.eval(`"café " + String.fromCodePoint(0x1F600)`)
	defer v.Release()
	s.Equal("café 😀", s.b.FromText(v))

	wrapped := s.eval(`new String("boxed é")`)
	defer wrapped.Release()
	s.True(s.b.IsText(wrapped))
	s.Equal("boxed é", s.b.FromText(wrapped))
}

func (s *BridgeSuite) TestFromTextOfNonText() {
	n := s.b.ValueOf(42)
	defer n.Release()
	s.False(s.b.IsText(n))
	s.Equal("", s.b.FromText(n))

	s.False(s.b.IsText(nil))
	s.Equal("", s.b.FromText(nil))
}
