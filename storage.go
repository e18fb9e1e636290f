package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
)

const sceneFileVersion = 1

type sceneFile struct {
	Version int      `json:"version"`
	Scale   float64  `json:"scale"`
	Items   []Record `json:"items"`
}

// rawSceneFile defers item parsing so one unreadable item does not sink the rest.
type rawSceneFile struct {
	Version int               `json:"version"`
	Scale   float64           `json:"scale"`
	Items   []json.RawMessage `json:"items"`
}

// EncodeScene writes the scene as JSON. Edges still being drawn are skipped.
func EncodeScene(w io.Writer, scene *Scene, scale float64, logger *slog.Logger) error {
	doc := sceneFile{Version: sceneFileVersion, Scale: scale, Items: make([]Record, 0, scene.Len())}
	for _, d := range scene.Items() {
		rec := d.ToRecord()
		if rec == nil {
			logger.Debug("skipping unsaveable item",
				slog.String("id", d.ID()),
				slog.String("kind", d.Kind().String()))
			continue
		}
		doc.Items = append(doc.Items, rec)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// DecodeScene rebuilds a scene. A record that cannot be rebuilt is logged and
// skipped; only an unreadable document is an error.
func DecodeScene(r io.Reader, logger *slog.Logger) (*Scene, float64, error) {
	var doc rawSceneFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, 0, fmt.Errorf("decode scene: %w", err)
	}
	scale := doc.Scale
	if scale <= 0 {
		scale = 1
	}

	records := make([]Record, len(doc.Items))
	for i, raw := range doc.Items {
		var rec Record
		err := json.Unmarshal(raw, &rec)
		if err == nil && rec == nil {
			err = fmt.Errorf("%w: null item", ErrBadField)
		}
		if err != nil {
			logger.Warn("skipping record", slog.Int("index", i), slog.String("error", err.Error()))
			continue
		}
		records[i] = rec
	}

	// Nodes first, so edges can point at nodes saved after them.
	nodes := make(map[string]*Node)
	built := make([]Drawable, len(records))
	for i, rec := range records {
		if rec == nil || rec.Type() != KindNode.String() {
			continue
		}
		n, err := NodeFromRecord(rec, scale)
		if err != nil {
			logger.Warn("skipping node record", slog.Int("index", i), slog.String("error", err.Error()))
			continue
		}
		if _, dup := nodes[n.ID()]; dup {
			logger.Warn("skipping node record", slog.Int("index", i),
				slog.String("error", fmt.Errorf("%w: %s", ErrDuplicateID, n.ID()).Error()))
			continue
		}
		nodes[n.ID()] = n
		built[i] = n
	}
	resolve := func(id string) (*Node, bool) {
		n, ok := nodes[id]
		return n, ok
	}
	for i, rec := range records {
		if rec == nil {
			continue
		}
		switch rec.Type() {
		case KindNode.String():
		case KindEdge.String():
			e, err := EdgeFromRecord(rec, resolve, scale)
			if err != nil {
				logger.Warn("skipping edge record", slog.Int("index", i), slog.String("error", err.Error()))
				continue
			}
			built[i] = e
		default:
			logger.Warn("skipping record",
				slog.Int("index", i),
				slog.String("error", fmt.Errorf("%w: %q", ErrUnknownType, rec.Type()).Error()))
		}
	}

	scene := NewScene()
	for _, d := range built {
		if d == nil {
			continue
		}
		if err := scene.Add(d); err != nil {
			logger.Warn("skipping record", slog.String("error", err.Error()))
		}
	}
	return scene, scale, nil
}

func SaveFile(filename string, scene *Scene, scale float64, logger *slog.Logger) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := EncodeScene(file, scene, scale, logger); err != nil {
		file.Close()
		return fmt.Errorf("save %s: %w", filename, err)
	}
	return file.Close()
}

func LoadFile(filename string, logger *slog.Logger) (*Scene, float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	scene, scale, err := DecodeScene(file, logger)
	if err != nil {
		return nil, 0, fmt.Errorf("load %s: %w", filename, err)
	}
	logger.Info("scene loaded",
		slog.String("file", filename),
		slog.Int("items", scene.Len()),
		slog.Float64("scale", scale))
	return scene, scale, nil
}
