package flappy

import (
	"math"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Body is the actor: fixed x, free y, vertical velocity.
type Body struct {
	X, Y float64
	Vel  float64
	W, H float64
	phys config.FlappyPhysics
}

// NewBody places a body at (x, y) at rest.
func NewBody(phys config.FlappyPhysics, player config.FlappyPlayer, y float64) *Body {
	return &Body{
		X:    player.X,
		Y:    y,
		W:    player.Width,
		H:    player.Height,
		phys: phys,
	}
}

// Integrate advances one tick: gravity into velocity, velocity into position.
func (b *Body) Integrate() {
	b.Vel += b.phys.Gravity
	b.Y += b.Vel
}

// Impulse overrides the velocity with the jump impulse.
func (b *Body) Impulse() {
	b.Vel = b.phys.JumpImpulse
}

// Rotation returns the presentation tilt in degrees.
func (b *Body) Rotation() float64 {
	return core.ClampF(b.Vel*b.phys.RotationFactor, b.phys.MaxRotationUp, b.phys.MaxRotationDown)
}

// Rect returns the hitbox.
func (b *Body) Rect() core.RectF {
	return core.NewRectF(b.X, b.Y, b.W, b.H)
}

// Center returns the hitbox center.
func (b *Body) Center() (float64, float64) {
	return b.Rect().Center()
}

// Radius is the proximity radius used for pickups.
func (b *Body) Radius() float64 {
	return math.Max(b.W, b.H) / 2
}

// Place moves the body to y and zeroes its velocity.
func (b *Body) Place(y float64) {
	b.Y = y
	b.Vel = 0
}

// Confine keeps the body between top and floor, stopping it at the edge.
func (b *Body) Confine(top, floor float64) {
	if b.Y < top {
		b.Place(top)
	} else if b.Y+b.H > floor {
		b.Place(floor - b.H)
	}
}
