package teapot

import "github.com/chewxy/math32"

type vec3 [3]float32

func (a vec3) add(b vec3) vec3 { return vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }

func (a vec3) scale(s float32) vec3 { return vec3{a[0] * s, a[1] * s, a[2] * s} }

func (a vec3) cross(b vec3) vec3 {
	return vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (a vec3) length() float32 { return math32.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2]) }

func (a vec3) normalize() vec3 {
	l := a.length()
	if l == 0 {
		return a
	}
	return a.scale(1 / l)
}
