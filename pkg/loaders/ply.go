package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"golang.org/x/exp/mmap"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// ErrInvalidPLY is returned for malformed or unsupported PLY input
var ErrInvalidPLY = errors.New("loaders: invalid PLY")

const (
	// maxPLYPrealloc bounds the capacity reserved from header counts; larger
	// meshes grow as the body is read
	maxPLYPrealloc = 1 << 20
	// maxPLYListLength is the longest list property accepted
	maxPLYListLength = 1 << 16
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string // Usually "1.0"
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty

	HasTexCoords    bool
	PositionIndices [3]int // Indices of x, y, z properties
	TexCoordIndices [2]int // Indices of u, v or s, t properties
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the vertex and face data loaded from a PLY file
type PLYData struct {
	Vertices  []r3.Vector // Vertex positions (x, y, z)
	Faces     []int       // Triangle indices (3 per triangle); quads and larger polygons are fanned
	TexCoords []r2.Point  // Per-vertex texture coordinates, empty if not present
}

// TriangleMesh builds a mesh from the loaded data
func (d *PLYData) TriangleMesh(surface geometry.Surface, options *geometry.TriangleMeshOptions) (*geometry.TriangleMesh, error) {
	opts := geometry.TriangleMeshOptions{}
	if options != nil {
		opts = *options
	}
	if opts.TexCoords == nil && len(d.TexCoords) > 0 {
		opts.TexCoords = d.TexCoords
	}
	return geometry.NewTriangleMesh(d.Vertices, d.Faces, surface, &opts)
}

// LoadPLY memory-maps a PLY file and parses it
func LoadPLY(filename string) (*PLYData, error) {
	startTime := time.Now()

	reader, err := mmap.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer reader.Close()

	data, err := ParsePLY(io.NewSectionReader(reader, 0, int64(reader.Len())))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	logger.Infof("loaded %s: %d vertices, %d triangles in %v",
		filename, len(data.Vertices), len(data.Faces)/3, time.Since(startTime))

	return data, nil
}

// ParsePLY parses ASCII, binary little-endian and binary big-endian PLY data
func ParsePLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, err
	}

	var values valueReader
	switch header.Format {
	case "ascii":
		values = &asciiReader{reader: reader}
	case "binary_little_endian":
		values = &binaryReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidPLY, header.Format)
	}

	return readPLYBody(values, header)
}

// parsePLYHeader parses header lines up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{PositionIndices: [3]int{-1, -1, -1}, TexCoordIndices: [2]int{-1, -1}}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("%w: missing ply magic", ErrInvalidPLY)
	}

	var currentElement string
	for {
		raw, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: header ended before end_header", ErrInvalidPLY)
		}
		line := strings.TrimSpace(raw)
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) >= 3 {
				header.Format = parts[1]
				header.Version = parts[2]
			}
		case "comment", "obj_info":
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: bad element line %q", ErrInvalidPLY, line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: invalid element count %q", ErrInvalidPLY, parts[2])
			}
			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			default:
				if count > 0 {
					return nil, fmt.Errorf("%w: unsupported element %q", ErrInvalidPLY, currentElement)
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
				propIndex := len(header.VertexProps) - 1
				switch prop.Name {
				case "x":
					header.PositionIndices[0] = propIndex
				case "y":
					header.PositionIndices[1] = propIndex
				case "z":
					header.PositionIndices[2] = propIndex
				case "u", "s", "texture_u":
					header.TexCoordIndices[0] = propIndex
				case "v", "t", "texture_v":
					header.TexCoordIndices[1] = propIndex
				}
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}

	for _, idx := range header.PositionIndices {
		if idx < 0 {
			return nil, fmt.Errorf("%w: vertex element lacks x, y or z", ErrInvalidPLY)
		}
	}
	// A lone u or v is ignored
	header.HasTexCoords = header.TexCoordIndices[0] >= 0 && header.TexCoordIndices[1] >= 0
	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("%w: invalid property definition", ErrInvalidPLY)
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("%w: invalid list property definition", ErrInvalidPLY)
		}
		return PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}, nil
	}
	if typeSize(parts[0]) == 0 {
		return PLYProperty{}, fmt.Errorf("%w: unknown property type %q", ErrInvalidPLY, parts[0])
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

func readPLYBody(values valueReader, header *PLYHeader) (*PLYData, error) {
	data := &PLYData{
		Vertices: make([]r3.Vector, 0, min(header.VertexCount, maxPLYPrealloc)),
		Faces:    make([]int, 0, min(header.FaceCount, maxPLYPrealloc)*3),
	}
	if header.HasTexCoords {
		data.TexCoords = make([]r2.Point, 0, min(header.VertexCount, maxPLYPrealloc))
	}

	row := make([]float64, len(header.VertexProps))
	for i := 0; i < header.VertexCount; i++ {
		for j, prop := range header.VertexProps {
			if prop.IsList {
				if err := skipList(values, prop); err != nil {
					return nil, fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}
			v, err := values.read(prop.Type)
			if err != nil {
				return nil, fmt.Errorf("vertex %d property %s: %w", i, prop.Name, err)
			}
			row[j] = v
		}

		p := header.PositionIndices
		data.Vertices = append(data.Vertices, core.NewVec3(row[p[0]], row[p[1]], row[p[2]]))
		if header.HasTexCoords {
			tc := header.TexCoordIndices
			data.TexCoords = append(data.TexCoords, core.NewVec2(row[tc[0]], row[tc[1]]))
		}
	}

	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				if err := skipProperty(values, prop); err != nil {
					return nil, fmt.Errorf("face %d: %w", i, err)
				}
				continue
			}

			count, err := readListLength(values, prop)
			if err != nil {
				return nil, fmt.Errorf("face %d vertex count: %w", i, err)
			}
			if count < 3 {
				return nil, fmt.Errorf("%w: face %d has %d vertices", ErrInvalidPLY, i, count)
			}

			polygon := make([]int, count)
			for k := range polygon {
				idx, err := values.read(prop.DataType)
				if err != nil {
					return nil, fmt.Errorf("face %d index %d: %w", i, k, err)
				}
				if !isWholeNumber(idx) {
					return nil, fmt.Errorf("%w: face %d index %v is not an integer", ErrInvalidPLY, i, idx)
				}
				polygon[k] = int(idx)
			}

			// Fan triangulation around the first vertex
			for k := 1; k+1 < len(polygon); k++ {
				data.Faces = append(data.Faces, polygon[0], polygon[k], polygon[k+1])
			}
		}
	}

	return data, nil
}

func skipProperty(values valueReader, prop PLYProperty) error {
	if prop.IsList {
		return skipList(values, prop)
	}
	_, err := values.read(prop.Type)
	return err
}

func skipList(values valueReader, prop PLYProperty) error {
	count, err := readListLength(values, prop)
	if err != nil {
		return err
	}
	for k := 0; k < count; k++ {
		if _, err := values.read(prop.DataType); err != nil {
			return err
		}
	}
	return nil
}

// readListLength reads a list count, rejecting negative, fractional and oversized values
func readListLength(values valueReader, prop PLYProperty) (int, error) {
	count, err := values.read(prop.ListType)
	if err != nil {
		return 0, err
	}
	if !isWholeNumber(count) || count < 0 || count > maxPLYListLength {
		return 0, fmt.Errorf("%w: invalid %s list length %v", ErrInvalidPLY, prop.Name, count)
	}
	return int(count), nil
}

// isWholeNumber reports whether v is a finite integer that fits in an int32
func isWholeNumber(v float64) bool {
	return v == math.Trunc(v) && math.Abs(v) <= math.MaxInt32
}

// typeSize returns the size in bytes of a PLY scalar type, or 0 if unknown
func typeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	}
	return 0
}

// valueReader reads successive scalar values as float64
type valueReader interface {
	read(dataType string) (float64, error)
}

type binaryReader struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryReader) read(dataType string) (float64, error) {
	size := typeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("%w: unknown type %q", ErrInvalidPLY, dataType)
	}
	if _, err := io.ReadFull(b.reader, b.buf[:size]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPLY, err)
	}

	data := b.buf[:size]
	switch dataType {
	case "char", "int8":
		return float64(int8(data[0])), nil
	case "uchar", "uint8":
		return float64(data[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(data)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(data)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(data))), nil
	default:
		return math.Float64frombits(b.order.Uint64(data)), nil
	}
}

type asciiReader struct {
	reader *bufio.Reader
}

func (a *asciiReader) read(dataType string) (float64, error) {
	token, err := a.nextToken()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s value %q", ErrInvalidPLY, dataType, token)
	}
	return v, nil
}

func (a *asciiReader) nextToken() (string, error) {
	var sb strings.Builder
	for {
		c, err := a.reader.ReadByte()
		if err != nil {
			if sb.Len() > 0 && errors.Is(err, io.EOF) {
				return sb.String(), nil
			}
			return "", fmt.Errorf("%w: unexpected end of data", ErrInvalidPLY)
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			if sb.Len() > 0 {
				return sb.String(), nil
			}
			continue
		}
		sb.WriteByte(c)
	}
}
