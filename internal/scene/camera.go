// Package scene holds the camera and the ray cast the interaction layer and
// the terminal renderer share.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// FieldOfView is the vertical field of view in degrees.
	FieldOfView = 75.0

	maxPitch = 89 * math.Pi / 180
)

// Camera is a first-person camera. Yaw 0 looks down -Z; positive pitch
// looks up.
type Camera struct {
	Pos   mgl64.Vec3
	Yaw   float64
	Pitch float64
}

// DefaultCamera stands two units above the origin, facing the blueprint
// area and tilted toward the ground.
func DefaultCamera() Camera {
	return Camera{
		Pos:   mgl64.Vec3{0, 2, 0},
		Yaw:   -3 * math.Pi / 4,
		Pitch: -0.45,
	}
}

// Forward is the unit view direction.
func (c Camera) Forward() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	return mgl64.Vec3{
		-math.Sin(c.Yaw) * cp,
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw) * cp,
	}
}

// Right is the horizontal unit vector to the camera's right.
func (c Camera) Right() mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(c.Yaw), 0, -math.Sin(c.Yaw)}
}

// Up is the camera-space up vector.
func (c Camera) Up() mgl64.Vec3 {
	return c.Right().Cross(c.Forward())
}

// Move walks on the horizontal plane: forward along the view heading and
// strafe to the right.
func (c *Camera) Move(forward, strafe float64) {
	heading := mgl64.Vec3{-math.Sin(c.Yaw), 0, -math.Cos(c.Yaw)}
	c.Pos = c.Pos.Add(heading.Mul(forward)).Add(c.Right().Mul(strafe))
}

// Turn rotates the view. Pitch is clamped short of straight up and down.
func (c *Camera) Turn(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = mgl64.Clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Float raises (or lowers) the camera.
func (c *Camera) Float(dy float64) {
	c.Pos[1] += dy
}

// SetPose replaces the camera pose, clamping pitch.
func (c *Camera) SetPose(pos mgl64.Vec3, yaw, pitch float64) {
	c.Pos = pos
	c.Yaw = yaw
	c.Pitch = 0
	c.Turn(0, pitch)
}

// CenterRay is the ray through the middle of the screen.
func (c Camera) CenterRay() Ray {
	return Ray{Origin: c.Pos, Dir: c.Forward()}
}

// RayThrough returns the ray through normalized screen coordinates u, v in
// [-1, 1] (v up) for a viewport of the given width/height aspect.
func (c Camera) RayThrough(u, v, aspect float64) Ray {
	t := math.Tan(mgl64.DegToRad(FieldOfView) / 2)
	dir := c.Forward().
		Add(c.Right().Mul(u * t * aspect)).
		Add(c.Up().Mul(v * t))
	return Ray{Origin: c.Pos, Dir: dir.Normalize()}
}
