package sink

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"math"

	"github.com/posterkit/posterkit/pkg/errors"
)

// metersPerInch converts DPI to the pixels-per-meter unit the pHYs chunk
// requires.
const metersPerInch = 0.0254

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

// withPhys inserts a pHYs chunk directly after IHDR so print software
// reads the intended physical size. The standard library encoder never
// writes one itself.
func withPhys(data []byte, dpi int) ([]byte, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, errors.New(errors.ErrCodeInternal, "not a png stream")
	}
	// IHDR is mandatory first and carries exactly 13 bytes of data.
	ihdrEnd := len(pngSignature) + 4 + 4 + 13 + 4
	if len(data) < ihdrEnd || string(data[12:16]) != "IHDR" {
		return nil, errors.New(errors.ErrCodeInternal, "malformed png header")
	}

	ppm := uint32(math.Round(float64(dpi) / metersPerInch))
	chunk := make([]byte, 0, 21)
	chunk = binary.BigEndian.AppendUint32(chunk, 9)
	chunk = append(chunk, "pHYs"...)
	chunk = binary.BigEndian.AppendUint32(chunk, ppm)
	chunk = binary.BigEndian.AppendUint32(chunk, ppm)
	chunk = append(chunk, 1) // unit: meter
	crc := crc32.ChecksumIEEE(chunk[4:])
	chunk = binary.BigEndian.AppendUint32(chunk, crc)

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:ihdrEnd]...)
	out = append(out, chunk...)
	out = append(out, data[ihdrEnd:]...)
	return out, nil
}
