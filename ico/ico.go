// Package ico reads the directory of Windows ICO files.
// Image payloads are encoded and decoded with github.com/sergeymakinen/go-ico.
package ico

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/k1LoW/errors"
)

const (
	headerSize = 6
	entrySize  = 16
	// MaxSize is the largest edge an ICO entry can describe.
	MaxSize = 256
)

type header struct {
	Reserved uint16
	Type     uint16 // 1 for icons
	Count    uint16
}

type direntry struct {
	Width    uint8 // 0 means 256
	Height   uint8
	Colors   uint8
	Reserved uint8
	Planes   uint16
	BPP      uint16
	Size     uint32
	Offset   uint32
}

// Entry describes one image stored in an ICO file.
type Entry struct {
	Width  int
	Height int
	BPP    int
	Size   int
	Offset int
	PNG    bool
}

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// DecodeDir reads the directory of an ICO file.
func DecodeDir(r io.Reader) (_ []Entry, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read icon: %w", err)
	}
	var h header
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("failed to read icon header: %w", err)
	}
	if h.Reserved != 0 || h.Type != 1 {
		return nil, fmt.Errorf("not an icon file (reserved=%d, type=%d)", h.Reserved, h.Type)
	}
	if len(b) < headerSize+entrySize*int(h.Count) {
		return nil, fmt.Errorf("icon directory truncated: %d entries in %d bytes", h.Count, len(b))
	}
	dir := make([]direntry, h.Count)
	if err := binary.Read(bytes.NewReader(b[headerSize:]), binary.LittleEndian, dir); err != nil {
		return nil, fmt.Errorf("failed to read icon directory: %w", err)
	}
	entries := make([]Entry, 0, len(dir))
	for i, d := range dir {
		end := int(d.Offset) + int(d.Size)
		if end > len(b) || int(d.Offset) < headerSize {
			return nil, fmt.Errorf("entry %d out of range (offset=%d, size=%d, file=%d)", i, d.Offset, d.Size, len(b))
		}
		e := Entry{
			Width:  int(d.Width),
			Height: int(d.Height),
			BPP:    int(d.BPP),
			Size:   int(d.Size),
			Offset: int(d.Offset),
			PNG:    bytes.HasPrefix(b[d.Offset:end], pngMagic),
		}
		if e.Width == 0 {
			e.Width = MaxSize
		}
		if e.Height == 0 {
			e.Height = MaxSize
		}
		entries = append(entries, e)
	}
	return entries, nil
}
