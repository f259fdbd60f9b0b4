package assets

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var ktxIdentifier = [12]byte{0xAB, 'K', 'T', 'X', ' ', '1', '1', 0xBB, '\r', '\n', 0x1A, '\n'}

const ktxEndianness = 0x04030201

var ErrNotKTX = errors.New("not a KTX1 file")

// KTX is a decoded KTX1 texture container. Faces holds the image data of
// each mip level, one entry per cube face (or a single entry for 2D).
type KTX struct {
	GLType           uint32
	GLTypeSize       uint32
	GLFormat         uint32
	GLInternalFormat uint32
	GLBaseFormat     uint32
	Width, Height    int
	NumFaces         int
	Levels           [][][]byte
	Metadata         map[string]string
}

// IsCubemap reports whether the container holds six faces.
func (k *KTX) IsCubemap() bool { return k.NumFaces == 6 }

// SphericalHarmonics returns the irradiance coefficients stored under the
// "sh" key as whitespace separated RGB triplets.
func (k *KTX) SphericalHarmonics() ([]mgl32.Vec3, error) {
	raw, ok := k.Metadata["sh"]
	if !ok {
		return nil, nil
	}
	fields := strings.Fields(raw)
	if len(fields)%3 != 0 {
		return nil, fmt.Errorf("sh: %d values is not a list of RGB triplets", len(fields))
	}
	out := make([]mgl32.Vec3, len(fields)/3)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, fmt.Errorf("sh: %w", err)
		}
		out[i/3][i%3] = float32(v)
	}
	return out, nil
}

// LoadKTX reads and parses a bundled KTX1 asset.
func LoadKTX(name string) (*KTX, error) {
	b, err := Read(name)
	if err != nil {
		return nil, err
	}
	k, err := ParseKTX(b)
	if err != nil {
		return nil, fmt.Errorf("parse ktx %q: %w", name, err)
	}
	return k, nil
}

type ktxHeader struct {
	Endianness            uint32
	GLType                uint32
	GLTypeSize            uint32
	GLFormat              uint32
	GLInternalFormat      uint32
	GLBaseInternalFormat  uint32
	PixelWidth            uint32
	PixelHeight           uint32
	PixelDepth            uint32
	NumberOfArrayElements uint32
	NumberOfFaces         uint32
	NumberOfMipmapLevels  uint32
	BytesOfKeyValueData   uint32
}

// ParseKTX decodes a KTX1 container held in memory. Array textures and 3D
// textures are rejected.
func ParseKTX(b []byte) (*KTX, error) {
	if len(b) < len(ktxIdentifier) || !bytes.Equal(b[:len(ktxIdentifier)], ktxIdentifier[:]) {
		return nil, ErrNotKTX
	}
	r := bytes.NewReader(b[len(ktxIdentifier):])

	var order binary.ByteOrder = binary.LittleEndian
	var h ktxHeader
	if err := binary.Read(r, order, &h); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if h.Endianness != ktxEndianness {
		order = binary.BigEndian
		if _, err := r.Seek(int64(-binary.Size(h)), io.SeekCurrent); err != nil {
			return nil, err
		}
		if err := binary.Read(r, order, &h); err != nil {
			return nil, fmt.Errorf("header: %w", err)
		}
		if h.Endianness != ktxEndianness {
			return nil, fmt.Errorf("bad endianness marker %#x", h.Endianness)
		}
	}
	if h.PixelDepth > 1 || h.NumberOfArrayElements > 0 {
		return nil, fmt.Errorf("unsupported texture: depth %d, array elements %d", h.PixelDepth, h.NumberOfArrayElements)
	}
	if h.NumberOfFaces != 1 && h.NumberOfFaces != 6 {
		return nil, fmt.Errorf("unsupported face count %d", h.NumberOfFaces)
	}

	k := &KTX{
		GLType:           h.GLType,
		GLTypeSize:       h.GLTypeSize,
		GLFormat:         h.GLFormat,
		GLInternalFormat: h.GLInternalFormat,
		GLBaseFormat:     h.GLBaseInternalFormat,
		Width:            int(h.PixelWidth),
		Height:           int(h.PixelHeight),
		NumFaces:         int(h.NumberOfFaces),
		Metadata:         map[string]string{},
	}

	kv, err := take(r, h.BytesOfKeyValueData)
	if err != nil {
		return nil, fmt.Errorf("key/value data: %w", err)
	}
	if err := parseKeyValues(kv, order, k.Metadata); err != nil {
		return nil, err
	}

	levels := int(h.NumberOfMipmapLevels)
	if levels == 0 {
		levels = 1
	}
	for level := 0; level < levels; level++ {
		var size uint32
		if err := binary.Read(r, order, &size); err != nil {
			return nil, fmt.Errorf("level %d size: %w", level, err)
		}
		faces := make([][]byte, k.NumFaces)
		for f := range faces {
			face, err := take(r, size)
			if err != nil {
				return nil, fmt.Errorf("level %d face %d: %w", level, f, err)
			}
			faces[f] = face
			if err := skip(r, pad4(int(size))); err != nil {
				return nil, err
			}
		}
		k.Levels = append(k.Levels, faces)
	}
	return k, nil
}

func parseKeyValues(kv []byte, order binary.ByteOrder, out map[string]string) error {
	for len(kv) >= 4 {
		n := int(order.Uint32(kv))
		kv = kv[4:]
		if n > len(kv) {
			return fmt.Errorf("key/value entry of %d bytes overruns block", n)
		}
		entry := kv[:n]
		if i := bytes.IndexByte(entry, 0); i >= 0 {
			out[string(entry[:i])] = string(bytes.TrimRight(entry[i+1:], "\x00"))
		}
		n += pad4(n)
		if n > len(kv) {
			n = len(kv)
		}
		kv = kv[n:]
	}
	return nil
}

func pad4(n int) int { return (4 - n%4) % 4 }

// take reads the next n bytes, checking the remaining input before allocating
// so a corrupt length cannot request more memory than the file holds.
func take(r *bytes.Reader, n uint32) ([]byte, error) {
	if uint64(r.Len()) < uint64(n) {
		return nil, fmt.Errorf("need %d bytes, %d left", n, r.Len())
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func skip(r *bytes.Reader, n int) error {
	if n == 0 {
		return nil
	}
	if r.Len() < n {
		return fmt.Errorf("truncated padding")
	}
	_, err := r.Seek(int64(n), io.SeekCurrent)
	return err
}
