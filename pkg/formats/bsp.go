// Package formats provides parsers for Quake file formats.
// BSP (compiled level) format parser.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/bspslice/pkg/encoding"
)

// BSP format errors.
var (
	ErrInvalidBSPVersion = errors.New("invalid BSP version: expected 29")
	ErrTruncatedBSPData  = errors.New("truncated BSP data")
	ErrInvalidBSPLump    = errors.New("invalid BSP lump")
)

// BSPVersion is the only supported BSP version (Quake 1).
const BSPVersion = 29

// BSPLump identifies an entry of the BSP lump directory.
type BSPLump int

// Lump directory order.
const (
	LumpEntities BSPLump = iota
	LumpPlanes
	LumpTextures
	LumpVertices
	LumpVisibility
	LumpNodes
	LumpTexInfo
	LumpFaces
	LumpLighting
	LumpClipNodes
	LumpLeaves
	LumpMarkSurfaces
	LumpEdges
	LumpSurfEdges
	LumpModels

	bspLumpCount
)

var lumpNames = [bspLumpCount]string{
	"entities", "planes", "textures", "vertices", "visibility", "nodes",
	"texinfo", "faces", "lighting", "clipnodes", "leaves", "marksurfaces",
	"edges", "surfedges", "models",
}

// String returns the lump name.
func (l BSPLump) String() string {
	if l < 0 || l >= bspLumpCount {
		return fmt.Sprintf("Unknown(%d)", int(l))
	}
	return lumpNames[l]
}

const (
	bspHeaderSize    = 4 + int(bspLumpCount)*8
	mipTexHeaderSize = 40
	mipTexNameLen    = 16
)

// BSPLumpInfo is a lump directory entry.
type BSPLumpInfo struct {
	Offset int32
	Length int32
}

// BSPPlane is a plane record.
type BSPPlane struct {
	Normal   [3]float32
	Distance float32
	Type     int32 // 0-2 axial X/Y/Z, 3-5 non-axial
}

// BSPMipTexture is the decoded header of a texture bitmap.
// Pixel data is not read.
type BSPMipTexture struct {
	Name   string
	Width  uint32
	Height uint32
}

// BSPTexInfo maps a face onto a texture bitmap.
type BSPTexInfo struct {
	S          [4]float32 // S axis (xyz) and offset
	T          [4]float32 // T axis (xyz) and offset
	MipTexture int32      // Index into BSP.Textures
	Flags      int32
}

// BSPFace is a face record.
type BSPFace struct {
	Plane       uint16 // Index into BSP.Planes
	Side        int16  // Non-zero if the face is on the back of its plane
	FirstEdge   int32  // Index into BSP.SurfEdges
	EdgeCount   int16
	TexInfo     int16 // Index into BSP.TexInfos
	Styles      [4]uint8
	LightOffset int32
}

// BSPEdge is a pair of vertex indices.
type BSPEdge struct {
	Vertices [2]uint16
}

// BSPModel is a brush model record. Model 0 is the world.
type BSPModel struct {
	Mins      [3]float32
	Maxs      [3]float32
	Origin    [3]float32
	HeadNodes [4]int32
	VisLeafs  int32
	FirstFace int32
	FaceCount int32
}

// BSP holds the index tables of a parsed BSP file.
// Only the lumps needed to rebuild face geometry are decoded.
type BSP struct {
	Version   int32
	Entities  string
	Planes    []BSPPlane
	Textures  []BSPMipTexture
	Vertices  [][3]float32
	TexInfos  []BSPTexInfo
	Faces     []BSPFace
	Edges     []BSPEdge
	SurfEdges []int32 // Signed: negative walks the edge from vertex 1 to vertex 0
	Models    []BSPModel
}

// IsBSP reports whether data starts with a supported BSP header.
func IsBSP(data []byte) bool {
	if len(data) < bspHeaderSize {
		return false
	}
	return int32(binary.LittleEndian.Uint32(data)) == BSPVersion
}

// IsBSPFile reports whether the file at path is a supported BSP file.
// Any read error is reported as false.
func IsBSPFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, bspHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return false
	}
	return IsBSP(header)
}

// ParseBSP parses a BSP file from raw bytes.
func ParseBSP(data []byte) (*BSP, error) {
	if len(data) < 4 {
		return nil, ErrTruncatedBSPData
	}

	version := int32(binary.LittleEndian.Uint32(data))
	if version != BSPVersion {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBSPVersion, version)
	}

	if len(data) < bspHeaderSize {
		return nil, fmt.Errorf("%w: reading lump directory", ErrTruncatedBSPData)
	}

	var lumps [bspLumpCount]BSPLumpInfo
	if err := binary.Read(bytes.NewReader(data[4:bspHeaderSize]), binary.LittleEndian, &lumps); err != nil {
		return nil, fmt.Errorf("%w: reading lump directory", ErrTruncatedBSPData)
	}

	for i, lump := range lumps {
		if lump.Offset < 0 || lump.Length < 0 || int64(lump.Offset)+int64(lump.Length) > int64(len(data)) {
			return nil, fmt.Errorf("%w: %s lump [%d, +%d) outside %d bytes",
				ErrInvalidBSPLump, BSPLump(i), lump.Offset, lump.Length, len(data))
		}
	}

	lumpData := func(l BSPLump) []byte {
		return data[lumps[l].Offset : lumps[l].Offset+lumps[l].Length]
	}

	bsp := &BSP{
		Version:  version,
		Entities: encoding.FixedString(lumpData(LumpEntities)),
	}

	var err error
	if bsp.Planes, err = readLump[BSPPlane](lumpData(LumpPlanes), LumpPlanes); err != nil {
		return nil, err
	}
	if bsp.Vertices, err = readLump[[3]float32](lumpData(LumpVertices), LumpVertices); err != nil {
		return nil, err
	}
	if bsp.TexInfos, err = readLump[BSPTexInfo](lumpData(LumpTexInfo), LumpTexInfo); err != nil {
		return nil, err
	}
	if bsp.Faces, err = readLump[BSPFace](lumpData(LumpFaces), LumpFaces); err != nil {
		return nil, err
	}
	if bsp.Edges, err = readLump[BSPEdge](lumpData(LumpEdges), LumpEdges); err != nil {
		return nil, err
	}
	if bsp.SurfEdges, err = readLump[int32](lumpData(LumpSurfEdges), LumpSurfEdges); err != nil {
		return nil, err
	}
	if bsp.Models, err = readLump[BSPModel](lumpData(LumpModels), LumpModels); err != nil {
		return nil, err
	}
	if bsp.Textures, err = parseBSPTextures(lumpData(LumpTextures)); err != nil {
		return nil, fmt.Errorf("parsing textures: %w", err)
	}

	return bsp, nil
}

// readLump decodes a lump made of fixed-size records.
func readLump[T any](data []byte, lump BSPLump) ([]T, error) {
	var zero T
	size := binary.Size(zero)

	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %s length %d is not a multiple of %d",
			ErrInvalidBSPLump, lump, len(data), size)
	}

	records := make([]T, len(data)/size)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, records); err != nil {
		return nil, fmt.Errorf("%w: reading %s", ErrTruncatedBSPData, lump)
	}
	return records, nil
}

// parseBSPTextures decodes the texture directory and each texture header.
func parseBSPTextures(data []byte) ([]BSPMipTexture, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: reading texture count", ErrTruncatedBSPData)
	}

	count := int32(binary.LittleEndian.Uint32(data))
	if count < 0 || 4+int64(count)*4 > int64(len(data)) {
		return nil, fmt.Errorf("%w: texture count %d", ErrInvalidBSPLump, count)
	}

	textures := make([]BSPMipTexture, count)
	for i := int32(0); i < count; i++ {
		offset := int32(binary.LittleEndian.Uint32(data[4+i*4:]))
		if offset == -1 {
			// Missing texture, left as a nameless 0x0 entry.
			continue
		}
		if offset < 0 || int64(offset)+mipTexHeaderSize > int64(len(data)) {
			return nil, fmt.Errorf("%w: texture %d at offset %d", ErrInvalidBSPLump, i, offset)
		}

		header := data[offset : offset+mipTexHeaderSize]
		textures[i] = BSPMipTexture{
			Name:   encoding.FixedString(header[:mipTexNameLen]),
			Width:  binary.LittleEndian.Uint32(header[16:]),
			Height: binary.LittleEndian.Uint32(header[20:]),
		}
	}

	return textures, nil
}

// ParseBSPFile parses a BSP file from disk.
func ParseBSPFile(path string) (*BSP, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading BSP file: %w", err)
	}
	return ParseBSP(data)
}

