// Package scenebuild assembles demo core.Scene values out of pkg/accel
// triangles and pkg/renderer cameras. The teacher's pkg/scene package built
// whole PBRT-file scene graphs with materials and area lights; this
// renderer only shades point lights, so a scene here is nothing more than
// an instanced Tlas and a light list.
package scenebuild

import (
	"math"

	"github.com/kallidan/restir-di-renderer/pkg/accel"
	"github.com/kallidan/restir-di-renderer/pkg/core"
	"github.com/kallidan/restir-di-renderer/pkg/loaders"
	"github.com/kallidan/restir-di-renderer/pkg/renderer"
	"github.com/kallidan/restir-di-renderer/pkg/xform"
)

// quad returns two triangles covering the quadrilateral a,b,c,d (in
// winding order) as a single instance-ready mesh.
func quad(a, b, c, d core.Vec3) []accel.Triangle {
	return []accel.Triangle{
		accel.NewTriangle(a, b, c),
		accel.NewTriangle(a, c, d),
	}
}

// box returns the five-sided (10 triangle) shell of an axis-aligned box
// between min and max, open on its min-Z side, normals facing inward.
func box(min, max core.Vec3) []accel.Triangle {
	x0, y0, z0 := min.X, min.Y, min.Z
	x1, y1, z1 := max.X, max.Y, max.Z

	var tris []accel.Triangle
	tris = append(tris, quad( // floor
		core.NewVec3(x0, y0, z0), core.NewVec3(x1, y0, z0),
		core.NewVec3(x1, y0, z1), core.NewVec3(x0, y0, z1))...)
	tris = append(tris, quad( // ceiling
		core.NewVec3(x0, y1, z1), core.NewVec3(x1, y1, z1),
		core.NewVec3(x1, y1, z0), core.NewVec3(x0, y1, z0))...)
	tris = append(tris, quad( // back wall
		core.NewVec3(x0, y0, z1), core.NewVec3(x1, y0, z1),
		core.NewVec3(x1, y1, z1), core.NewVec3(x0, y1, z1))...)
	tris = append(tris, quad( // left wall
		core.NewVec3(x0, y0, z0), core.NewVec3(x0, y0, z1),
		core.NewVec3(x0, y1, z1), core.NewVec3(x0, y1, z0))...)
	tris = append(tris, quad( // right wall
		core.NewVec3(x1, y0, z1), core.NewVec3(x1, y0, z0),
		core.NewVec3(x1, y1, z0), core.NewVec3(x1, y1, z1))...)
	return tris
}

// CornellBox builds a Cornell-box-shaped room (open on the camera side)
// with a center block standing on the floor and two point lights near the ceiling,
// matching the Cornell box's classic footprint without its area light or
// colored-wall materials, which this renderer's point-light-only shading
// model has no use for.
func CornellBox(width, height int) core.Scene {
	tlas := accel.NewTlas()

	room := accel.NewBlas(box(core.NewVec3(-278, 0, 0), core.NewVec3(278, 548, 560)))
	tlas.AddInstance("room", room, xform.Identity())

	block := accel.NewBlas(box(core.NewVec3(-65, 0, 295), core.NewVec3(65, 165, 425)))
	tlas.AddInstance("block", block, xform.New(core.Vec3{}, core.NewVec3(0, 18, 0), 1))

	lights := []core.PointLight{
		core.NewPointLight(core.NewVec3(-90, 540, 280), core.NewVec3(1, 1, 1), 1200),
		core.NewPointLight(core.NewVec3(90, 540, 280), core.NewVec3(1, 0.95, 0.85), 900),
	}

	cam := renderer.NewCamera(
		core.NewVec3(0, 273, -800),
		core.NewVec3(0, 180, 0),
		38,
		width, height,
	)

	return core.Scene{Camera: cam, Accelerator: tlas, Lights: lights}
}

// GenerateLights scatters settings.LightCount point lights over the box
// centered at LightBoxPosition with extents LightBoxSize, drawing positions
// from the LightLocationSeed stream and colors from the LightColorSeed
// stream. Each color channel is floored at 0.2 so a regenerated set never
// goes fully dark. Call through Renderer.SubmitScene so the new lights
// invalidate temporal history instead of blending with stale reservoirs.
func GenerateLights(settings core.Settings) []core.PointLight {
	locationRng := core.NewRng(settings.LightLocationSeed, false)
	colorRng := core.NewRng(settings.LightColorSeed, false)

	lights := make([]core.PointLight, 0, settings.LightCount)
	for i := 0; i < settings.LightCount; i++ {
		position := core.NewVec3(
			(locationRng.Float()-0.5)*settings.LightBoxSize.X+settings.LightBoxPosition.X,
			(locationRng.Float()-0.5)*settings.LightBoxSize.Y+settings.LightBoxPosition.Y,
			(locationRng.Float()-0.5)*settings.LightBoxSize.Z+settings.LightBoxPosition.Z,
		)

		color := core.NewVec3(
			max(0.2, colorRng.Float()),
			max(0.2, colorRng.Float()),
			max(0.2, colorRng.Float()),
		)

		lights = append(lights, core.NewPointLight(position, color, settings.LightStrength))
	}
	return lights
}

// FromObj builds a single-instance scene from a mesh file on disk, placed
// at the origin, lit by a single overhead point light and viewed by a
// camera positioned to frame the mesh's bounding box.
func FromObj(path string, width, height int) (core.Scene, error) {
	data, err := loaders.LoadObj(path)
	if err != nil {
		return core.Scene{}, err
	}

	triangles := make([]accel.Triangle, 0, len(data.Faces)/3)
	for i := 0; i+2 < len(data.Faces); i += 3 {
		a := data.Vertices[data.Faces[i]]
		b := data.Vertices[data.Faces[i+1]]
		c := data.Vertices[data.Faces[i+2]]
		triangles = append(triangles, accel.NewTriangle(a, b, c))
	}
	bounds := core.NewAABBFromPoints(data.Vertices...)

	tlas := accel.NewTlas()
	tlas.AddInstance("mesh", accel.NewBlas(triangles), xform.Identity())

	center := bounds.Min.Add(bounds.Max).Multiply(0.5)
	radius := bounds.Max.Subtract(bounds.Min).Length()

	lights := []core.PointLight{
		core.NewPointLight(center.Add(core.NewVec3(radius, radius, -radius)), core.NewVec3(1, 1, 1), radius*radius),
	}

	cam := renderer.NewCamera(
		center.Add(core.NewVec3(0, radius*0.3, -radius*1.5)),
		core.NewVec3(math.Atan2(0.3, 1.5)*180/math.Pi, 180, 0),
		40,
		width, height,
	)

	return core.Scene{Camera: cam, Accelerator: tlas, Lights: lights}, nil
}
