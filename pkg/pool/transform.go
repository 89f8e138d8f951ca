package pool

import "math"

// Vec3 is a position or Euler rotation in world space.
type Vec3 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// Sub returns v - o component-wise.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// DistanceTo returns the Euclidean distance between v and o.
func (v Vec3) DistanceTo(o Vec3) float64 {
	return v.Sub(o).Length()
}

// Transform is the spawn pose applied to an instance on acquisition.
// Rotation is Euler angles in degrees. The zero value is the neutral pose.
type Transform struct {
	Position Vec3 `yaml:"position" json:"position"`
	Rotation Vec3 `yaml:"rotation" json:"rotation"`
}
