package model

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
)

// BonePalette is the fixed-capacity array of skinning matrices handed to the renderer each frame.
// Matrices are column-major (mgl32 layout), matching a WGSL array<mat4x4<f32>, 128> storage binding.
// Size: 8192 bytes.
type BonePalette struct {
	Matrices [MaxJoints]mgl32.Mat4
	Count    int
}

// Size returns the size of the matrix array in bytes, excluding the count.
//
// Returns:
//   - int: the size in bytes
func (p *BonePalette) Size() int {
	return int(unsafe.Sizeof(p.Matrices))
}

// Bytes returns a byte view of the first Count matrices for GPU upload.
// The slice aliases the palette; it is valid until the next write to the palette.
//
// Returns:
//   - []byte: Count * 64 bytes, or nil when empty
func (p *BonePalette) Bytes() []byte {
	return common.SliceToBytes(p.Matrices[:max(p.Count, 0)])
}

// Set copies bone matrices into the palette, truncating at MaxJoints, and resets identity for the unused tail.
//
// Parameters:
//   - bones: the skinning matrices
func (p *BonePalette) Set(bones []mgl32.Mat4) {
	p.Count = copy(p.Matrices[:], bones)
	for i := p.Count; i < MaxJoints; i++ {
		p.Matrices[i] = mgl32.Ident4()
	}
}
