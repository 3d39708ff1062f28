// Package glhelper provides utilities for working with OpenGL buffers and other resources.
// It wraps the low-level OpenGL functions in a more Go-friendly API.
package glhelper

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
)

// BufferObject represents an OpenGL buffer object (VBO, EBO, etc.)
type BufferObject struct {
	ID         uint32
	Type       uint32         // GL_ARRAY_BUFFER, GL_ELEMENT_ARRAY_BUFFER, etc.
	Size       int            // Size of the buffer in bytes
	Usage      uint32         // GL_STATIC_DRAW, GL_DYNAMIC_DRAW, etc.
	IsMapped   bool           // Whether the buffer is currently mapped
	MappedPtr  unsafe.Pointer // Pointer to mapped memory (if mapped)
	Persistent bool           // Whether the buffer is persistently mapped
}

// BufferUsage represents different buffer usage patterns for OpenGL buffers.
type BufferUsage uint32

const (
	// StaticDraw indicates buffer contents will be specified once and used many times for drawing
	StaticDraw BufferUsage = gl.STATIC_DRAW
)

// VertexArrayObject represents an OpenGL vertex array object (VAO) that stores vertex attribute configurations.
type VertexArrayObject struct {
	ID uint32
}

// NewBufferObject creates a general buffer object with the specified parameters.
func NewBufferObject(bufferType uint32, sizeInBytes int, data unsafe.Pointer, usage BufferUsage) *BufferObject {
	var bufferID uint32
	gl.GenBuffers(1, &bufferID)

	buffer := &BufferObject{
		ID:    bufferID,
		Type:  bufferType,
		Size:  sizeInBytes,
		Usage: uint32(usage),
	}

	buffer.Bind()
	gl.BufferData(bufferType, sizeInBytes, data, uint32(usage))

	return buffer
}

// NewVBO creates a vertex buffer holding interleaved float data.
func NewVBO(data []float32, usage BufferUsage) *BufferObject {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	return NewBufferObject(gl.ARRAY_BUFFER, len(data)*4, ptr, usage)
}

// NewEBO creates an element buffer holding 32 bit indices.
func NewEBO(indices []uint32, usage BufferUsage) *BufferObject {
	var ptr unsafe.Pointer
	if len(indices) > 0 {
		ptr = gl.Ptr(indices)
	}
	return NewBufferObject(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, ptr, usage)
}

// NewPersistentBuffer creates a buffer that can be persistently mapped.
// This allows CPU and GPU to simultaneously access the buffer.
func NewPersistentBuffer(bufferType uint32, sizeInBytes int, read, write bool) (*BufferObject, error) {
	var bufferID uint32
	gl.GenBuffers(1, &bufferID)

	buffer := &BufferObject{
		ID:         bufferID,
		Type:       bufferType,
		Size:       sizeInBytes,
		Persistent: true,
	}

	buffer.Bind()
	gl.BufferStorage(bufferType, buffer.Size, nil, mapFlags(read, write))

	if err := buffer.MapPersistent(read, write); err != nil {
		buffer.Delete()
		return nil, err
	}

	return buffer, nil
}

func mapFlags(read, write bool) uint32 {
	var flags uint32 = gl.MAP_PERSISTENT_BIT | gl.MAP_COHERENT_BIT
	if read {
		flags |= gl.MAP_READ_BIT
	}
	if write {
		flags |= gl.MAP_WRITE_BIT
	}
	return flags
}

// MapPersistent maps the buffer persistently so it can be accessed while in use by OpenGL.
func (bo *BufferObject) MapPersistent(read, write bool) error {
	if bo.IsMapped {
		return fmt.Errorf("glhelper: buffer %d is already mapped", bo.ID)
	}

	bo.Bind()
	bo.MappedPtr = gl.MapBufferRange(bo.Type, 0, bo.Size, mapFlags(read, write))
	if bo.MappedPtr == nil {
		return fmt.Errorf("glhelper: failed to map buffer %d", bo.ID)
	}

	bo.IsMapped = true
	bo.Persistent = true
	return nil
}

// Unmap unmaps a mapped buffer.
func (bo *BufferObject) Unmap() bool {
	if !bo.IsMapped {
		return false
	}

	bo.Bind()
	success := gl.UnmapBuffer(bo.Type)
	if success {
		bo.IsMapped = false
		bo.MappedPtr = nil
	}
	return success
}

// Bind binds the buffer object to its type target.
func (bo *BufferObject) Bind() {
	gl.BindBuffer(bo.Type, bo.ID)
}

// Delete releases the buffer object and frees its resources.
func (bo *BufferObject) Delete() {
	if bo.IsMapped {
		bo.Unmap()
	}
	gl.DeleteBuffers(1, &bo.ID)
}

// NewVAO creates a new Vertex Array Object.
func NewVAO() *VertexArrayObject {
	var vaoID uint32
	gl.GenVertexArrays(1, &vaoID)
	return &VertexArrayObject{ID: vaoID}
}

// Bind binds the vertex array object.
func (vao *VertexArrayObject) Bind() {
	gl.BindVertexArray(vao.ID)
}

// Unbind unbinds the vertex array object.
func (vao *VertexArrayObject) Unbind() {
	gl.BindVertexArray(0)
}

// Delete releases the vertex array object and frees its resources.
func (vao *VertexArrayObject) Delete() {
	gl.DeleteVertexArrays(1, &vao.ID)
}

// SetVertexAttribPointer sets up a vertex attribute pointer and enables the attribute.
func (vao *VertexArrayObject) SetVertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, xtype, normalized, stride, gl.PtrOffset(offset))
	gl.EnableVertexAttribArray(index)
}

// SetVertexLayout configures attributes 0, 1 and 2 as position, normal and
// texture coordinates of an interleaved 8 float vertex.
func (vao *VertexArrayObject) SetVertexLayout() {
	vao.SetVertexAttribPointer(0, 3, gl.FLOAT, false, VertexStride, 0)
	vao.SetVertexAttribPointer(1, 3, gl.FLOAT, false, VertexStride, 3*4)
	vao.SetVertexAttribPointer(2, 2, gl.FLOAT, false, VertexStride, 6*4)
}

// TripleBuffer manages a triple-buffered persistent buffer for efficient CPU-GPU data transfer.
// The CPU writes one section while the GPU still reads the previous ones.
type TripleBuffer struct {
	Buffer           *BufferObject  // The underlying buffer object
	NumBuffers       int            // Number of buffer sections (typically 3)
	BufferSize       int            // Size of each buffer section in bytes
	CurrentBufferIdx int            // Index of the buffer section currently being written to
	BufferOffsets    []int          // Offsets for each buffer section in bytes
	SyncObjects      []uintptr      // Fence sync objects for each buffer section
	MappedMemory     unsafe.Pointer // Pointer to the mapped memory
}

// NewTripleBuffer creates a new triple-buffered persistent buffer.
func NewTripleBuffer(bufferType uint32, sectionSizeBytes int, numBuffers int) (*TripleBuffer, error) {
	if numBuffers < 2 {
		numBuffers = 3
	}

	buffer, err := NewPersistentBuffer(bufferType, sectionSizeBytes*numBuffers, false, true)
	if err != nil {
		return nil, fmt.Errorf("glhelper: triple buffer: %w", err)
	}

	tb := &TripleBuffer{
		Buffer:        buffer,
		NumBuffers:    numBuffers,
		BufferSize:    sectionSizeBytes,
		BufferOffsets: make([]int, numBuffers),
		SyncObjects:   make([]uintptr, numBuffers),
		MappedMemory:  buffer.MappedPtr,
	}
	for i := range numBuffers {
		tb.BufferOffsets[i] = i * sectionSizeBytes
	}
	return tb, nil
}

// Section returns the current section as a byte offset into the mapped memory.
func (tb *TripleBuffer) Section() unsafe.Pointer {
	return unsafe.Add(tb.MappedMemory, tb.CurrentOffsetBytes())
}

// WaitForSync waits until the GPU has finished using the current buffer section.
func (tb *TripleBuffer) WaitForSync() bool {
	if tb.SyncObjects[tb.CurrentBufferIdx] == 0 {
		return true
	}

	const timeout uint64 = 10000000 // 10 milliseconds in nanoseconds

	waitReturn := gl.ClientWaitSync(tb.SyncObjects[tb.CurrentBufferIdx], gl.SYNC_FLUSH_COMMANDS_BIT, timeout)
	gl.DeleteSync(tb.SyncObjects[tb.CurrentBufferIdx])
	tb.SyncObjects[tb.CurrentBufferIdx] = 0

	return waitReturn == gl.ALREADY_SIGNALED || waitReturn == gl.CONDITION_SATISFIED
}

// CreateFenceSync marks the point after which the current section may be reused.
func (tb *TripleBuffer) CreateFenceSync() {
	if tb.SyncObjects[tb.CurrentBufferIdx] != 0 {
		gl.DeleteSync(tb.SyncObjects[tb.CurrentBufferIdx])
	}
	tb.SyncObjects[tb.CurrentBufferIdx] = gl.FenceSync(gl.SYNC_GPU_COMMANDS_COMPLETE, 0)
}

// Advance moves to the next buffer section in the rotation.
func (tb *TripleBuffer) Advance() {
	tb.CurrentBufferIdx = (tb.CurrentBufferIdx + 1) % tb.NumBuffers
}

// CurrentOffsetBytes returns the offset of the current buffer section in bytes.
func (tb *TripleBuffer) CurrentOffsetBytes() int {
	return tb.BufferOffsets[tb.CurrentBufferIdx]
}

// Cleanup releases all resources associated with the triple buffer.
func (tb *TripleBuffer) Cleanup() {
	for i, sync := range tb.SyncObjects {
		if sync != 0 {
			gl.DeleteSync(sync)
			tb.SyncObjects[i] = 0
		}
	}
	if tb.Buffer != nil {
		tb.Buffer.Delete()
		tb.Buffer = nil
	}
}
