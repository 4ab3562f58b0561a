// Package memstore is an in-memory keyframe store that serves a points
// stream loaded from a YAML scene file.
//
// Scene files may be plain YAML or compressed with zstd (.zst, .zstd) or
// lz4 (.lz4), selected by file extension.
package memstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/go-points-resampler/internal/vecmath"
)

// Scene is the serialized form of a keyframed points stream.
type Scene struct {
	Name      string  `yaml:"name,omitempty"`
	Start     float64 `yaml:"start"`
	FrameRate float64 `yaml:"frame_rate"`
	Frames    []Frame `yaml:"frames"`
}

// Frame is one stored keyframe.
type Frame struct {
	// Hidden marks the node invisible at this keyframe.
	Hidden     bool           `yaml:"hidden,omitempty"`
	Positions  []vecmath.Vec3 `yaml:"positions"`
	Velocities []vecmath.Vec3 `yaml:"velocities,omitempty"`
	IDs        []uint64       `yaml:"ids,omitempty"`
}

// Compression selects the scene file encoding.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

// ErrEmptyScene is returned for scenes without keyframes.
var ErrEmptyScene = errors.New("scene has no frames")

// CompressionFor picks the compression from a file name extension.
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return CompressionZstd
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// LoadScene reads a scene file, decompressing by extension.
func LoadScene(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scene, err := DecodeScene(f, CompressionFor(path))
	if err != nil {
		return nil, fmt.Errorf("decoding scene %s: %w", path, err)
	}
	return scene, nil
}

// DecodeScene reads a scene from r.
func DecodeScene(r io.Reader, c Compression) (*Scene, error) {
	switch c {
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	case CompressionLZ4:
		r = lz4.NewReader(r)
	}

	var scene Scene
	if err := yaml.NewDecoder(r).Decode(&scene); err != nil {
		return nil, err
	}
	return &scene, nil
}

// SaveScene writes scene to path, compressing by extension.
func SaveScene(path string, scene *Scene) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return EncodeScene(f, scene, CompressionFor(path))
}

// EncodeScene writes scene to w.
func EncodeScene(w io.Writer, scene *Scene, c Compression) error {
	var closer io.Closer
	switch c {
	case CompressionZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		w, closer = enc, enc
	case CompressionLZ4:
		zw := lz4.NewWriter(w)
		w, closer = zw, zw
	}

	enc := yaml.NewEncoder(w)
	if err := enc.Encode(scene); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if closer != nil {
		return closer.Close()
	}
	return nil
}
