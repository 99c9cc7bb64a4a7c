package icongen

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	goico "github.com/sergeymakinen/go-ico"
)

const (
	dirPerm  = os.FileMode(0o755)
	filePerm = os.FileMode(0o644)
)

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeICO packs imgs into one ICO file. Entries below 256px are stored as BMP, 256px as PNG.
func encodeICO(imgs []image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := goico.EncodeAll(&buf, imgs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFile creates the parent directory of path and overwrites path with b.
func writeFile(path string, b []byte) error {
	if err := ensureOutputDir(path); err != nil {
		return newError(KindWriteFailure, path, fmt.Errorf("failed to prepare output directory: %w", err))
	}
	if err := os.WriteFile(path, b, filePerm); err != nil {
		return newError(KindWriteFailure, path, err)
	}
	return nil
}

func ensureOutputDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, dirPerm)
}
