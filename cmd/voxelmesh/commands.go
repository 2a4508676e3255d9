package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"voxelmesh/internal/config"
	"voxelmesh/internal/export"
	"voxelmesh/internal/meshing"
	"voxelmesh/internal/terrain"
	"voxelmesh/internal/world"
)

type app struct {
	settings config.Settings
	logger   *log.Logger

	mu      sync.Mutex
	terrain *terrain.Terrain
}

// open builds the terrain; closed by the closer callback, including on SIGINT.
func (a *app) open() (*terrain.Terrain, error) {
	gen, err := terrain.NewGenerator(a.settings)
	if err != nil {
		return nil, err
	}
	t, err := terrain.New(terrain.Options{Settings: a.settings, Generator: gen, Logger: a.logger})
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.terrain = t
	a.mu.Unlock()
	return t, nil
}

func (a *app) close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.terrain != nil {
		if err := a.terrain.Close(); err != nil {
			a.logger.Printf("close terrain: %v", err)
		}
		a.terrain = nil
	}
}

// stream loads the view around center and waits until every chunk is meshed.
func (a *app) stream(center world.Position, timeout time.Duration) (*terrain.Terrain, error) {
	t, err := a.open()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	queued, err := t.StreamAround(center)
	if err != nil {
		return nil, err
	}
	a.logger.Printf("streaming %d chunks of %s around %s (view distance %d)",
		queued, t.ChunkSize(), center, t.ViewDistance())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := t.WaitIdle(ctx, 5*time.Millisecond); err != nil {
		return nil, fmt.Errorf("wait for meshes: %w", err)
	}
	hits, misses := t.MeshCache().Stats()
	a.logger.Printf("installed %d chunks in %s (failures %d, stale %d, cache %d/%d)",
		t.Installed(), time.Since(start).Round(time.Millisecond), t.Failures(), t.Stale(), hits, hits+misses)
	return t, nil
}

func generateCmd(a *app, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	out := fs.String("out", "world.glb", "output file: .glb, .obj or .obj.zst")
	x := fs.Int("x", 0, "center world x")
	z := fs.Int("z", 0, "center world z")
	timeout := fs.Duration("timeout", time.Minute, "give up waiting for meshes after this long")
	_ = fs.Parse(args)

	t, err := a.stream(world.Position{X: *x, Z: *z}, *timeout)
	if err != nil {
		return err
	}
	meshes := t.Meshes()
	quads := 0
	for _, cm := range meshes {
		quads += cm.Mesh.Len()
	}

	switch {
	case strings.HasSuffix(*out, ".glb"):
		err = export.SaveGLB(*out, meshes)
	case strings.HasSuffix(*out, ".obj"), strings.HasSuffix(*out, ".obj.zst"):
		err = export.SaveOBJ(*out, meshes...)
	default:
		return fmt.Errorf("unsupported output %q", *out)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", *out, err)
	}
	a.logger.Printf("wrote %d quads from %d chunks to %s", quads, len(meshes), *out)
	return nil
}

func previewCmd(a *app, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	out := fs.String("out", "preview.png", "output PNG")
	scale := fs.Int("scale", 4, "pixels per voxel column")
	x := fs.Int("x", 0, "center world x")
	z := fs.Int("z", 0, "center world z")
	timeout := fs.Duration("timeout", time.Minute, "give up waiting for meshes after this long")
	_ = fs.Parse(args)

	t, err := a.stream(world.Position{X: *x, Z: *z}, *timeout)
	if err != nil {
		return err
	}
	if err := export.SavePreview(*out, t.Store(), *scale); err != nil {
		return fmt.Errorf("preview %s: %w", *out, err)
	}
	a.logger.Printf("wrote %s", *out)
	return nil
}

func describeCmd(a *app, args []string) error {
	fs := flag.NewFlagSet("describe", flag.ExitOnError)
	x := fs.Int("x", 0, "world x inside the chunk")
	y := fs.Int("y", 0, "world y inside the chunk")
	z := fs.Int("z", 0, "world z inside the chunk")
	all := fs.Bool("all", false, "include empty planes")
	_ = fs.Parse(args)

	gen, err := terrain.NewGenerator(a.settings)
	if err != nil {
		return err
	}
	s := a.settings.ChunkSize
	store, err := world.NewChunkStore(world.Size{X: s[0], Y: s[1], Z: s[2]})
	if err != nil {
		return err
	}
	pos := store.ChunkPositionFor(world.Position{X: *x, Y: *y, Z: *z})
	c, err := world.GenerateChunk(gen, pos, store.ChunkSize())
	if err != nil {
		return err
	}
	faces, err := meshing.ComputeVisibleFaces(c, meshing.ComputeVisibility(c))
	if err != nil {
		return err
	}
	mesh, err := meshing.Optimize(c)
	if err != nil {
		return err
	}

	fmt.Printf("chunk %s size %s: %d planes, %d visible faces, %d quads\n",
		pos, c.Size(), faces.PlaneCount(), faces.CellCount(), mesh.Len())
	for _, d := range world.FaceDirections {
		for _, p := range faces.Planes(d) {
			if p.IsEmpty() && !*all {
				continue
			}
			fmt.Fprintln(os.Stdout, p.Describe())
		}
	}
	return nil
}
