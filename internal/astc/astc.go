// Package astc reads the header of .astc files and defines the fixed target
// format constants: 6x6 block footprint, ".astc" extension, and the
// image/astc-6x6 media type.
//
// An .astc file starts with a 16-byte header:
//
//	magic       4 bytes  0x13 0xAB 0xA1 0x5C (0x5CA1AB13 little-endian)
//	block x/y/z 1 byte each
//	size x/y/z  3 bytes each, little-endian 24-bit
//
// followed by 16 bytes of compressed data per block.
package astc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Target format constants.
const (
	Extension = ".astc"
	MIMEType  = "image/astc-6x6"
	BlockSize = "6x6"
	BlockX    = 6
	BlockY    = 6

	// Magic is the little-endian value of the first four header bytes.
	Magic      uint32 = 0x5CA1AB13
	HeaderSize        = 16
	BlockBytes        = 16
)

var (
	// ErrInvalidMagic indicates the file does not start with the ASTC magic.
	ErrInvalidMagic = errors.New("not an ASTC file (bad magic)")
	// ErrTruncated indicates the file is shorter than its header claims.
	ErrTruncated = errors.New("ASTC file truncated")
	// ErrBadDimensions indicates a zero block or image dimension.
	ErrBadDimensions = errors.New("ASTC header has a zero block or image dimension")
)

// Header is the decoded 16-byte .astc header.
type Header struct {
	BlockX, BlockY, BlockZ int
	Width, Height, Depth   int
}

// ReadHeader decodes the header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var raw [HeaderSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, ErrTruncated
		}
		return Header{}, err
	}
	if binary.LittleEndian.Uint32(raw[0:4]) != Magic {
		return Header{}, ErrInvalidMagic
	}
	h := Header{
		BlockX: int(raw[4]),
		BlockY: int(raw[5]),
		BlockZ: int(raw[6]),
		Width:  uint24(raw[7:10]),
		Height: uint24(raw[10:13]),
		Depth:  uint24(raw[13:16]),
	}
	if h.BlockX == 0 || h.BlockY == 0 || h.BlockZ == 0 || h.Width == 0 || h.Height == 0 || h.Depth == 0 {
		return Header{}, ErrBadDimensions
	}
	return h, nil
}

// ReadFileHeader opens path, decodes its header, and checks that the file
// holds at least as many block bytes as the header implies.
func ReadFileHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()

	h, err := ReadHeader(f)
	if err != nil {
		return Header{}, fmt.Errorf("%s: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		return Header{}, err
	}
	if fi.Size() < HeaderSize+h.PayloadSize() {
		return Header{}, fmt.Errorf("%s: %w", path, ErrTruncated)
	}
	return h, nil
}

// maxBlocks caps Blocks so PayloadSize stays within int64. No real file
// comes close; a header claiming more is garbage and fails the size check.
const maxBlocks = (math.MaxInt64 - HeaderSize) / BlockBytes

// Blocks returns the number of compressed blocks the image occupies,
// saturating at maxBlocks.
func (h Header) Blocks() int64 {
	xy := int64(ceilDiv(h.Width, h.BlockX)) * int64(ceilDiv(h.Height, h.BlockY)) // < 2^48
	z := int64(ceilDiv(h.Depth, h.BlockZ))
	if z != 0 && xy > maxBlocks/z {
		return maxBlocks
	}
	return xy * z
}

// PayloadSize returns the expected size in bytes of the block data.
func (h Header) PayloadSize() int64 {
	return h.Blocks() * BlockBytes
}

// Footprint returns the block dimensions as "XxY" or "XxYxZ" for 3D blocks.
func (h Header) Footprint() string {
	if h.BlockZ > 1 {
		return fmt.Sprintf("%dx%dx%d", h.BlockX, h.BlockY, h.BlockZ)
	}
	return fmt.Sprintf("%dx%d", h.BlockX, h.BlockY)
}

// IsTarget reports whether the header uses the 6x6 (2D) footprint.
func (h Header) IsTarget() bool {
	return h.BlockX == BlockX && h.BlockY == BlockY && h.BlockZ <= 1
}

// EncodedSize returns the .astc file size for a width x height image at the
// 6x6 footprint.
func EncodedSize(width, height int) int64 {
	h := Header{BlockX: BlockX, BlockY: BlockY, BlockZ: 1, Width: width, Height: height, Depth: 1}
	return HeaderSize + h.PayloadSize()
}

func uint24(b []byte) int {
	return int(b[0]) | int(b[1])<<8 | int(b[2])<<16
}

func ceilDiv(n, d int) int {
	if d <= 0 {
		return 0
	}
	return (n + d - 1) / d
}
