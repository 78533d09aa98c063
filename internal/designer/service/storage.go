package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"popup-designer/internal/designer/foldstate"
	"popup-designer/internal/designer/mapper"
	"popup-designer/internal/designer/models"
	"popup-designer/internal/designer/pattern"
	"popup-designer/internal/designer/placement"
)

// ============================================================
// File Storage
// ============================================================

type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) DesignDir(designID string) string {
	return filepath.Join(s.root, designID)
}

func (s *FileStorage) SVGPath(designID string) string {
	return filepath.Join(s.DesignDir(designID), "pattern.svg")
}

func (s *FileStorage) PNGPath(designID string) string {
	return filepath.Join(s.DesignDir(designID), "pattern.png")
}

func (s *FileStorage) PreviewPath(designID string) string {
	return filepath.Join(s.DesignDir(designID), "preview.png")
}

func (s *FileStorage) JSONPath(designID string) string {
	return filepath.Join(s.DesignDir(designID), "design.json")
}

func (s *FileStorage) GuidePath(designID string) string {
	return filepath.Join(s.DesignDir(designID), "guide.txt")
}

func (s *FileStorage) EnsureDir(designID string) error {
	path := s.DesignDir(designID)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir design dir: %w", err)
	}
	return nil
}

func (s *FileStorage) SaveFile(designID, target string, data []byte) error {
	if err := s.EnsureDir(designID); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

// ============================================================
// Exports
// ============================================================

// ExportSnapshot is the snapshot with an export timestamp.
func ExportSnapshot(st *foldstate.State, now time.Time) models.Snapshot {
	snap := st.Snapshot()
	snap.Timestamp = now.UTC().Format(time.RFC3339)
	return snap
}

// WriteExports renders every output of a session into its design directory
// and returns the written paths.
func (s *FileStorage) WriteExports(sess *Session, now time.Time) ([]string, error) {
	r := mapper.NewRenderer()
	st := sess.State
	ls := pattern.Derive(st.Card(), st.Elements())

	svg, err := r.RenderSVG(ls)
	if err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}

	var png bytes.Buffer
	if err := r.RenderPNG(&png, ls, 4); err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}

	var preview bytes.Buffer
	g := placement.Derive(placement.FromState(st, sess.Motion))
	if err := r.RenderPreview(&preview, g, sess.View, 512); err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}

	data, err := json.MarshalIndent(ExportSnapshot(st, now), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	files := []struct {
		path string
		data []byte
	}{
		{s.SVGPath(sess.ID), []byte(svg)},
		{s.PNGPath(sess.ID), png.Bytes()},
		{s.PreviewPath(sess.ID), preview.Bytes()},
		{s.JSONPath(sess.ID), data},
		{s.GuidePath(sess.ID), []byte(mapper.BuildGuide(st).Text())},
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		if err := s.SaveFile(sess.ID, f.path, f.data); err != nil {
			return written, fmt.Errorf("write %s: %w", filepath.Base(f.path), err)
		}
		written = append(written, f.path)
	}
	log.Printf("[EXPORT] design %s: wrote %d files to %s", sess.ID, len(written), s.DesignDir(sess.ID))
	return written, nil
}
