package core

// Scene is the camera, acceleration structure, and point lights snapshotted
// by value at frame start. Render-thread workers read their own copy; no
// worker mutates it.
type Scene struct {
	Camera      CameraModel
	Accelerator Accelerator
	Lights      []PointLight
}
