package book

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// settleThreshold is the turn progress below which a turn counts as just
	// started or finished; the page then snaps flat instead of curving.
	settleThreshold = 0.05

	// curveSplit separates near-spine joints (inside curve) from far-edge
	// joints (outside curve and fold).
	curveSplit = 8

	foldDegrees = 2
)

// Damp moves current toward target with frame-rate independent exponential
// decay. factor is expressed per 1/60 s frame.
func Damp(current, target, factor, dt float32) float32 {
	return current + (target-current)*(1-math32.Exp(-factor*dt*60))
}

// Lerp linearly interpolates from a to b by t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// TurnProgress maps the time since a page flipped onto a half-sine bump in
// [0, 1]: zero at the flip, peaking half way through window, zero again after.
func TurnProgress(elapsed, window time.Duration) float32 {
	if window <= 0 || elapsed >= window {
		return 0
	}
	if elapsed < 0 {
		elapsed = 0
	}
	t := float32(elapsed) / float32(window)
	return math32.Sin(t * math32.Pi)
}

// TargetRotation is the resting Y rotation of a page: -90° once turned, +90°
// otherwise, fanned out by index while the book is open.
func TargetRotation(opened, closed bool, index int, fanDegrees float32) float32 {
	theta := float32(math32.Pi / 2)
	if opened {
		theta = -theta
	}
	if !closed {
		theta += mgl32.DegToRad(float32(index) * fanDegrees)
	}
	return theta
}

// SolveInput describes one joint for Solve.
type SolveInput struct {
	Joint  int
	Joints int

	// Progress is the eased turn progress from TurnProgress.
	Progress float32
	// Theta is the page target rotation from TargetRotation.
	Theta  float32
	Closed bool
	Opened bool
}

// JointTarget is the rotation a joint is damped toward this frame.
type JointTarget struct {
	RotationY float32
	RotationX float32
}

// Solve returns the target rotation of a single joint for the current frame.
func Solve(in SolveInput, p Profile) JointTarget {
	i := in.Joint

	if in.Closed {
		if i == 0 {
			return JointTarget{RotationY: in.Theta}
		}
		return JointTarget{}
	}

	if in.Progress < settleThreshold {
		if i == 0 {
			settle := float32(math32.Pi / 2)
			if in.Opened {
				settle = -settle
			}
			return JointTarget{RotationY: settle}
		}
		return JointTarget{}
	}

	fi := float32(i)
	step := bellStep(in.Joints)

	var inside, outside float32
	if i < curveSplit {
		inside = math32.Sin(fi*0.2 + 0.25)
	} else {
		outside = math32.Cos(fi*0.3 + 0.09)
	}
	turning := math32.Sin(fi*step) * in.Progress

	rotY := p.InsideCurve*inside*in.Theta -
		p.OutsideCurve*outside*in.Theta +
		p.TurningCurve*turning*in.Theta

	var fold float32
	if i > curveSplit {
		foldAngle := mgl32.DegToRad(sign(in.Theta) * foldDegrees)
		fold = foldAngle * math32.Sin(fi*step-0.5) * in.Progress
	}

	return JointTarget{RotationY: rotY, RotationX: fold}
}

// bellStep is π/L, the per-joint phase of the bell-shaped turning profile.
func bellStep(joints int) float32 {
	if joints < 1 {
		joints = 1
	}
	return math32.Pi / float32(joints)
}

func sign(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
