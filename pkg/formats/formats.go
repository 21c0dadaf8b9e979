// Package formats provides parsers for Quake map file formats.
package formats

// Note: BSP v29 is implemented in bsp.go (decode) and bsp_write.go (encode).
// Containers live in pkg/pak.
