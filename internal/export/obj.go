package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"voxelmesh/internal/meshing"
	"voxelmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/klauspost/compress/zstd"
)

type objFace struct {
	v [4]int
	n int
}

// MaterialName is the OBJ material used for a voxel ID.
func MaterialName(id world.VoxelID) string {
	return fmt.Sprintf("voxel_%d", id)
}

// WriteOBJ writes the meshes as one Wavefront OBJ object in world coordinates.
// Shared corners are written once; faces are grouped by voxel ID with usemtl.
func WriteOBJ(w io.Writer, meshes ...meshing.ChunkMesh) error {
	vertexIndex := make(map[mgl32.Vec3]int)
	var vertices []mgl32.Vec3
	normalIndex := make(map[mgl32.Vec3]int)
	var normals []mgl32.Vec3
	groups := make(map[world.VoxelID][]objFace)

	for _, cm := range meshes {
		if cm.Mesh == nil {
			continue
		}
		offset := cm.Offset()
		for _, q := range cm.Mesh.Quads() {
			var f objFace
			for i, v := range q.Vertices {
				p := v.Add(offset)
				idx, ok := vertexIndex[p]
				if !ok {
					vertices = append(vertices, p)
					idx = len(vertices)
					vertexIndex[p] = idx
				}
				f.v[i] = idx
			}
			n, ok := normalIndex[q.Normal]
			if !ok {
				normals = append(normals, q.Normal)
				n = len(normals)
				normalIndex[q.Normal] = n
			}
			f.n = n
			groups[q.Voxel] = append(groups[q.Voxel], f)
		}
	}
	if len(vertices) == 0 {
		return ErrNothingToExport
	}

	ids := make([]world.VoxelID, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	bw := bufio.NewWriterSize(w, 256*1024)
	fmt.Fprintln(bw, "# voxelmesh")
	fmt.Fprintln(bw, "o terrain")
	for _, v := range vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v[0], v[1], v[2])
	}
	for _, n := range normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n[0], n[1], n[2])
	}
	for _, id := range ids {
		fmt.Fprintln(bw, "usemtl", MaterialName(id))
		for _, f := range groups[id] {
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d %d//%d\n",
				f.v[0], f.n, f.v[1], f.n, f.v[2], f.n, f.v[3], f.n)
		}
	}
	return bw.Flush()
}

// SaveOBJ writes the meshes to path. Paths ending in .zst are zstd compressed.
func SaveOBJ(path string, meshes ...meshing.ChunkMesh) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !strings.HasSuffix(path, ".zst") {
		return WriteOBJ(f, meshes...)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := WriteOBJ(enc, meshes...); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// OpenOBJ opens an OBJ file written by SaveOBJ, decompressing .zst paths.
func OpenOBJ(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &zstdFile{Decoder: dec, f: f}, nil
}

type zstdFile struct {
	*zstd.Decoder
	f *os.File
}

func (z *zstdFile) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}
