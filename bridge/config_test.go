package bridge_test

import (
	stdErrors "errors"

	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/domain/errors"
	"github.com/reglet-dev/pate/host"
	"github.com/reglet-dev/pate/infrastructure/configstore"
)

func (s *BridgeSuite) TestConfigRoundTrip() {
	store := configstore.NewMemoryStore()

	dict := s.eval(`({general: {x: 1, name: "kate", tags: ["a", "b"]}, empty: {}})`)
	s.Require().NoError(s.b.ExportToConfig(store, dict))
	dict.Release()

	s.Equal(entities.ConfigTree{
		"general": {"x": "1", "name": `"kate"`, "tags": `["a","b"]`},
	}, store.Tree())

	target := s.b.NewDict()
	s.Require().NoError(s.b.ImportFromConfig(target, store))
	s.Equal(map[string]any{
		"general": map[string]any{"x": int64(1), "name": "kate", "tags": []any{"a", "b"}},
	}, target.Export())
	target.Release()
	s.assertNoLeak()
}

func (s *BridgeSuite) TestExportSkipsBadEntries() {
	store := configstore.NewMemoryStore()

	dict := s.eval(`new Map([[1, {a: 1}], ["bad", 5], ["g", new Map([[2, "x"], ["y", "z"], ["f", () => 1]])]])`)
	defer dict.Release()

	err := s.b.ExportToConfig(store, dict)
	s.Require().Error(err)

	var entryErr *errors.ConfigEntryError
	s.Require().True(stdErrors.As(err, &entryErr))
	s.Equal("export", entryErr.Operation)

	msg := err.Error()
	s.Contains(msg, "Configuration group name not a string")
	s.Contains(msg, "Configuration group bad top level key not a dictionary")
	s.Contains(msg, "Configuration group g itemKey not a string")
	s.Contains(msg, "Cannot write g f")

	s.Equal(entities.ConfigTree{"g": {"y": `"z"`}}, store.Tree())
	s.Contains(s.logs.String(), "[WARN] configuration entry skipped")
	s.False(s.b.FaultPending())
}

func (s *BridgeSuite) TestExportSkipsValuesJSONWouldAlter() {
	store := configstore.NewMemoryStore()

	dict := s.eval(`({general: {
		nan: NaN,
		inf: -Infinity,
		date: new Date(0),
		nested: {when: new Date(0)},
		list: [1, NaN],
		ok: 1,
	}})`)
	defer dict.Release()

	err := s.b.ExportToConfig(store, dict)
	s.Require().Error(err)

	msg := err.Error()
	for _, key := range []string{"nan", "inf", "date", "nested", "list"} {
		s.Contains(msg, "Cannot write general "+key)
	}
	s.Equal(entities.ConfigTree{"general": {"ok": "1"}}, store.Tree())
	s.Contains(s.logs.String(), "cannot pickle 'Date' object")
	s.Contains(s.logs.String(), "cannot pickle non-finite number NaN")
	s.assertNoLeak()
}

func (s *BridgeSuite) TestExportNotADictionary() {
	list := s.b.NewList("a")
	defer list.Release()

	err := s.b.ExportToConfig(configstore.NewMemoryStore(), list)
	s.Require().Error(err)
	s.Contains(s.b.LastTraceback(), "Configuration is not a dictionary")
}

func (s *BridgeSuite) TestImportSkipsBadEntries() {
	store := configstore.NewMemoryStoreFrom(entities.ConfigTree{
		"general": {"good": `{"a":true}`, "bad": `{not json`},
		"other":   {"n": "null"},
	})

	target := s.eval(`({general: {stale: 1}, keep: 2})`)
	defer target.Release()

	err := s.b.ImportFromConfig(target, store)
	var entryErr *errors.ConfigEntryError
	s.Require().ErrorAs(err, &entryErr)
	s.Equal("general", entryErr.Group)
	s.Equal("bad", entryErr.Key)
	s.Contains(s.b.LastTraceback(), "Cannot read general bad {not json")

	s.Equal(map[string]any{
		"general": map[string]any{"good": map[string]any{"a": true}},
		"other":   map[string]any{"n": nil},
		"keep":    int64(2),
	}, target.Export())
}

func (s *BridgeSuite) TestImportIntoMap() {
	store := configstore.NewMemoryStoreFrom(entities.ConfigTree{"general": {"x": "1"}})

	target := s.eval(`new Map()`)
	defer target.Release()
	s.Require().NoError(s.b.ImportFromConfig(target, store))

	group, key := s.b.ToText("general"), s.b.ToText("x")
	defer group.Release()
	defer key.Release()

	res, err := s.b.Call("mapGet", "pate", s.b.Tuple(target, group, key))
	s.Require().NoError(err)
	defer res.Release()
	s.EqualValues(1, res.Export())
}

func (s *BridgeSuite) TestExportWithUnsupportedProtocol() {
	s.reload(host.WithProtocol(2))

	dict := s.eval(`({general: {x: 1}})`)
	defer dict.Release()

	store := configstore.NewMemoryStore()
	err := s.b.ExportToConfig(store, dict)
	s.Require().Error(err)
	s.Contains(s.b.LastTraceback(), "RangeError: unsupported pickle protocol: 2")
	s.Empty(store.GroupList())
}
