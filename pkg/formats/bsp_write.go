package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/Faultbox/bspslice/pkg/encoding"
)

// EncodeBSP serializes the decoded tables back into a BSP v29 blob.
// Lumps that are not decoded (visibility, nodes, lighting, ...) are written
// empty, so the result is only suitable for tools that read face geometry.
func EncodeBSP(b *BSP) ([]byte, error) {
	var lumps [bspLumpCount][]byte

	entities := []byte(b.Entities)
	if len(entities) > 0 {
		entities = append(entities, 0)
	}
	lumps[LumpEntities] = entities

	var err error
	if lumps[LumpPlanes], err = writeLump(b.Planes); err != nil {
		return nil, err
	}
	if lumps[LumpVertices], err = writeLump(b.Vertices); err != nil {
		return nil, err
	}
	if lumps[LumpTexInfo], err = writeLump(b.TexInfos); err != nil {
		return nil, err
	}
	if lumps[LumpFaces], err = writeLump(b.Faces); err != nil {
		return nil, err
	}
	if lumps[LumpEdges], err = writeLump(b.Edges); err != nil {
		return nil, err
	}
	if lumps[LumpSurfEdges], err = writeLump(b.SurfEdges); err != nil {
		return nil, err
	}
	if lumps[LumpModels], err = writeLump(b.Models); err != nil {
		return nil, err
	}
	lumps[LumpTextures] = encodeBSPTextures(b.Textures)

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, int32(BSPVersion))

	// Lump data follows the directory, each lump 4-byte aligned.
	var dir [bspLumpCount]BSPLumpInfo
	offset := bspHeaderSize
	for i, lump := range lumps {
		dir[i] = BSPLumpInfo{Offset: int32(offset), Length: int32(len(lump))}
		offset += align4(len(lump))
	}
	binary.Write(buf, binary.LittleEndian, dir)

	for _, lump := range lumps {
		buf.Write(lump)
		buf.Write(make([]byte, align4(len(lump))-len(lump)))
	}

	return buf.Bytes(), nil
}

func writeLump[T any](records []T) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, records); err != nil {
		return nil, fmt.Errorf("encoding lump: %w", err)
	}
	return buf.Bytes(), nil
}

// encodeBSPTextures writes the texture directory followed by bare headers.
// Nameless 0x0 textures are written as missing (-1) entries.
func encodeBSPTextures(textures []BSPMipTexture) []byte {
	if len(textures) == 0 {
		return nil
	}

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, int32(len(textures)))

	offset := int32(4 + 4*len(textures))
	for _, tex := range textures {
		if tex == (BSPMipTexture{}) {
			binary.Write(buf, binary.LittleEndian, int32(-1))
			continue
		}
		binary.Write(buf, binary.LittleEndian, offset)
		offset += mipTexHeaderSize
	}

	for _, tex := range textures {
		if tex == (BSPMipTexture{}) {
			continue
		}
		buf.Write(encoding.ToFixedString(tex.Name, mipTexNameLen))
		binary.Write(buf, binary.LittleEndian, tex.Width)
		binary.Write(buf, binary.LittleEndian, tex.Height)
		binary.Write(buf, binary.LittleEndian, [4]uint32{})
	}

	return buf.Bytes()
}

func align4(n int) int {
	return (n + 3) &^ 3
}
