package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeScene(t *testing.T) {
	t.Run("pending edges are not saved", func(t *testing.T) {
		s, a, _, _ := twoNodeScene(t)
		require.NoError(t, s.Add(NewEdge(a, 12, 1)))

		var buf bytes.Buffer
		require.NoError(t, EncodeScene(&buf, s, 1.5, testLogger()))

		var doc sceneFile
		require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
		assert.Equal(t, sceneFileVersion, doc.Version)
		assert.Equal(t, 1.5, doc.Scale)
		require.Len(t, doc.Items, 3)
		assert.Equal(t, "node", doc.Items[0].Type())
		assert.Equal(t, "edge", doc.Items[2].Type())
	})
}

func TestDecodeScene(t *testing.T) {
	t.Run("saved scene loads back in order", func(t *testing.T) {
		s, a, b, e := twoNodeScene(t)
		a.SetTitle("alpha")
		e.SetArrowShape(ArrowDouble)

		var buf bytes.Buffer
		require.NoError(t, EncodeScene(&buf, s, 1, testLogger()))
		loaded, scale, err := DecodeScene(&buf, testLogger())
		require.NoError(t, err)
		assert.Equal(t, 1.0, scale)

		items := loaded.Items()
		require.Len(t, items, 3)
		assert.Equal(t, a.ID(), items[0].ID())
		assert.Equal(t, b.ID(), items[1].ID())
		assert.Equal(t, "alpha", items[0].Title())

		edge, ok := items[2].(*Edge)
		require.True(t, ok)
		assert.Same(t, items[0], Drawable(edge.FromNode()))
		assert.Same(t, items[1], Drawable(edge.ToNode()))
		assert.Equal(t, ArrowDouble, edge.ArrowShape())
	})

	t.Run("edges may precede their nodes", func(t *testing.T) {
		doc := `{"version":1,"scale":1,"items":[
			{"type":"edge","id":"e","from":"a","to":"b","stroke_width":12,"color":4294901760},
			{"type":"node","id":"a","x":0,"y":0,"radius":60,"color":4282339765},
			{"type":"node","id":"b","x":300,"y":0,"radius":60,"color":4282339765}
		]}`
		loaded, _, err := DecodeScene(strings.NewReader(doc), testLogger())
		require.NoError(t, err)
		require.Equal(t, 3, loaded.Len())
		assert.Equal(t, "e", loaded.Items()[0].ID())
		assert.Len(t, loaded.Edges(), 1)
	})

	t.Run("broken records are skipped", func(t *testing.T) {
		doc := `{"version":1,"scale":2,"items":[
			{"type":"node","id":"a","x":0,"y":0,"radius":60,"color":1},
			{"type":"node","id":"bad","y":0,"radius":60,"color":1},
			{"type":"node","id":"a","x":5,"y":5,"radius":60,"color":1},
			{"type":"edge","id":"dangling","from":"a","to":"missing","stroke_width":12,"color":1},
			{"type":"label","id":"x"}
		]}`
		loaded, scale, err := DecodeScene(strings.NewReader(doc), testLogger())
		require.NoError(t, err)
		assert.Equal(t, 2.0, scale)
		require.Equal(t, 1, loaded.Len())
		n, ok := loaded.Node("a")
		require.True(t, ok)
		assert.Equal(t, Point{X: 0, Y: 0}, n.Center())
	})

	t.Run("items that are not objects are skipped", func(t *testing.T) {
		doc := `{"version":1,"scale":1,"items":[
			{"type":"node","id":"a","x":0,"y":0,"radius":60,"color":1},
			"garbage",
			42,
			null
		]}`
		loaded, _, err := DecodeScene(strings.NewReader(doc), testLogger())
		require.NoError(t, err)
		require.Equal(t, 1, loaded.Len())
		_, ok := loaded.Node("a")
		assert.True(t, ok)
	})

	t.Run("records with out of range numbers are skipped", func(t *testing.T) {
		doc := `{"version":1,"scale":1,"items":[
			{"type":"node","id":"a","x":0,"y":0,"radius":60,"color":1},
			{"type":"node","id":"b","x":300,"y":0,"radius":60,"color":1},
			{"type":"node","id":"neg","x":0,"y":0,"radius":-5,"color":1},
			{"type":"edge","id":"thin","from":"a","to":"b","stroke_width":-3,"color":1},
			{"type":"edge","id":"dark","from":"a","to":"b","stroke_width":12,"color":-1}
		]}`
		loaded, _, err := DecodeScene(strings.NewReader(doc), testLogger())
		require.NoError(t, err)
		assert.Equal(t, 2, loaded.Len())
		assert.Empty(t, loaded.Edges())
	})

	t.Run("missing scale defaults to one", func(t *testing.T) {
		_, scale, err := DecodeScene(strings.NewReader(`{"items":[]}`), testLogger())
		require.NoError(t, err)
		assert.Equal(t, 1.0, scale)
	})

	t.Run("malformed json is an error", func(t *testing.T) {
		_, _, err := DecodeScene(strings.NewReader(`{"items":`), testLogger())
		assert.Error(t, err)
	})
}

func TestSaveLoadFile(t *testing.T) {
	t.Run("round trip through disk", func(t *testing.T) {
		s, _, _, _ := twoNodeScene(t)
		path := filepath.Join(t.TempDir(), "map.json")

		require.NoError(t, SaveFile(path, s, 2, testLogger()))
		loaded, scale, err := LoadFile(path, testLogger())
		require.NoError(t, err)
		assert.Equal(t, 2.0, scale)
		assert.Equal(t, s.Len(), loaded.Len())
	})

	t.Run("missing file reports not exist", func(t *testing.T) {
		_, _, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"), testLogger())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
