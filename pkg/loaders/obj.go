// Package loaders reads mesh geometry off disk into the plain vertex/face
// form pkg/accel builds BLASes from.
package loaders

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kallidan/restir-di-renderer/pkg/core"
)

// ObjData is the raw vertex/face data loaded from a Wavefront OBJ file:
// only positions and triangle indices, since shading in this renderer
// needs nothing else.
type ObjData struct {
	Vertices []core.Vec3
	Faces    []int // triangle indices, 3 per triangle
}

// LoadObj parses vertex positions (`v`) and faces (`f`) from an OBJ file.
// Faces with more than three vertices are triangulated as a fan from the
// first vertex. Normals, texture coordinates, materials, and groups are
// ignored — this renderer recomputes face normals itself.
func LoadObj(filename string) (*ObjData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %v", err)
	}
	defer file.Close()

	data := &ObjData{}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseVertex(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNum, err)
			}
			data.Vertices = append(data.Vertices, v)
		case "f":
			indices, err := parseFace(fields, len(data.Vertices))
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", lineNum, err)
			}
			data.Faces = append(data.Faces, indices...)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ file: %v", err)
	}
	return data, nil
}

func parseVertex(fields []string) (core.Vec3, error) {
	if len(fields) < 4 {
		return core.Vec3{}, fmt.Errorf("malformed vertex line %q", strings.Join(fields, " "))
	}
	x, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return core.Vec3{}, err
	}
	y, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return core.Vec3{}, err
	}
	z, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return core.Vec3{}, err
	}
	return core.NewVec3(x, y, z), nil
}

// parseFace returns a fan-triangulated index list for one face line.
// Each token may be "v", "v/vt", "v/vt/vn", or "v//vn"; only the vertex
// index is used.
func parseFace(fields []string, vertexCount int) ([]int, error) {
	if len(fields) < 4 {
		return nil, fmt.Errorf("face needs at least 3 vertices, got %q", strings.Join(fields, " "))
	}

	corners := make([]int, 0, len(fields)-1)
	for _, token := range fields[1:] {
		idxStr := strings.SplitN(token, "/", 2)[0]
		idx, err := strconv.Atoi(idxStr)
		if err != nil {
			return nil, fmt.Errorf("malformed face index %q", token)
		}
		if idx < 0 {
			idx = vertexCount + idx + 1 // OBJ negative indices count back from the end
		}
		if idx < 1 || idx > vertexCount {
			return nil, fmt.Errorf("face index %d out of range [1,%d]", idx, vertexCount)
		}
		corners = append(corners, idx-1)
	}

	var triangles []int
	for i := 1; i < len(corners)-1; i++ {
		triangles = append(triangles, corners[0], corners[i], corners[i+1])
	}
	return triangles, nil
}
