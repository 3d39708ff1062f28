package book

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestDampEquilibrium(t *testing.T) {
	for _, v := range []float32{0, 1.5707964, -0.3} {
		current := v
		for i := 0; i < 100; i++ {
			current = Damp(current, v, 0.8, 1.0/60)
		}
		assert.Equal(t, v, current)
	}
}

func TestDampApproaches(t *testing.T) {
	current := float32(0)
	prev := float32(math.Inf(1))
	for i := 0; i < 10; i++ {
		current = Damp(current, 1, 0.8, 1.0/60)
		gap := 1 - current
		assert.Less(t, gap, prev)
		assert.GreaterOrEqual(t, gap, float32(0))
		prev = gap
	}
}

func TestDampFrameRateIndependent(t *testing.T) {
	a := float32(0)
	for i := 0; i < 2; i++ {
		a = Damp(a, 1, 0.6, 1.0/120)
	}
	b := Damp(0, 1, 0.6, 1.0/60)
	assert.InDelta(t, b, a, 1e-5)
}

func TestTurnProgress(t *testing.T) {
	window := 200 * time.Millisecond

	assert.Equal(t, float32(0), TurnProgress(0, window))
	assert.InDelta(t, 1, TurnProgress(100*time.Millisecond, window), 1e-6)
	assert.InDelta(t, math.Sin(math.Pi/4), TurnProgress(50*time.Millisecond, window), 1e-6)
	assert.Equal(t, float32(0), TurnProgress(window, window))
	assert.Equal(t, float32(0), TurnProgress(time.Hour, window))
	assert.Equal(t, float32(0), TurnProgress(-time.Second, window))
	assert.Equal(t, float32(0), TurnProgress(time.Millisecond, 0))
}

func TestTargetRotation(t *testing.T) {
	half := float32(math.Pi / 2)

	assert.InDelta(t, half, TargetRotation(false, true, 4, 0.2), 1e-6)
	assert.InDelta(t, -half, TargetRotation(true, true, 4, 0.2), 1e-6)
	assert.InDelta(t, half+mgl32.DegToRad(0.8), TargetRotation(false, false, 4, 0.2), 1e-6)
	assert.InDelta(t, -half+mgl32.DegToRad(0.8), TargetRotation(true, false, 4, 0.2), 1e-6)
}

func TestSolveClosedIsRigid(t *testing.T) {
	p := Baseline()
	theta := TargetRotation(true, true, 3, p.FanDegrees)
	for i := 0; i < 31; i++ {
		got := Solve(SolveInput{Joint: i, Joints: 31, Progress: 0.9, Theta: theta, Closed: true, Opened: true}, p)
		if i == 0 {
			assert.Equal(t, theta, got.RotationY)
		} else {
			assert.Zero(t, got.RotationY)
		}
		assert.Zero(t, got.RotationX)
	}
}

func TestSolveSettle(t *testing.T) {
	p := Baseline()
	half := float32(math.Pi / 2)

	for _, opened := range []bool{true, false} {
		theta := TargetRotation(opened, false, 5, p.FanDegrees)
		root := Solve(SolveInput{Joint: 0, Joints: 31, Progress: 0.01, Theta: theta, Opened: opened}, p)
		want := half
		if opened {
			want = -half
		}
		// The settle ignores the fan offset.
		assert.Equal(t, want, root.RotationY)
		assert.Zero(t, root.RotationX)

		other := Solve(SolveInput{Joint: 12, Joints: 31, Progress: 0.01, Theta: theta, Opened: opened}, p)
		assert.Equal(t, JointTarget{}, other)
	}
}

func TestSolveMidTurn(t *testing.T) {
	p := Baseline()
	theta := TargetRotation(true, false, 2, p.FanDegrees)
	const joints = 31
	progress := float32(0.8)

	near := Solve(SolveInput{Joint: 3, Joints: joints, Progress: progress, Theta: theta, Opened: true}, p)
	wantNear := p.InsideCurve*float32(math.Sin(3*0.2+0.25))*theta +
		p.TurningCurve*float32(math.Sin(3*math.Pi/joints))*progress*theta
	assert.InDelta(t, wantNear, near.RotationY, 1e-5)
	assert.Zero(t, near.RotationX)

	// Joint 8 takes the outside curve but is not yet past the fold line.
	edge := Solve(SolveInput{Joint: 8, Joints: joints, Progress: progress, Theta: theta, Opened: true}, p)
	wantEdge := -p.OutsideCurve*float32(math.Cos(8*0.3+0.09))*theta +
		p.TurningCurve*float32(math.Sin(8*math.Pi/joints))*progress*theta
	assert.InDelta(t, wantEdge, edge.RotationY, 1e-5)
	assert.Zero(t, edge.RotationX)

	far := Solve(SolveInput{Joint: 20, Joints: joints, Progress: progress, Theta: theta, Opened: true}, p)
	wantFold := mgl32.DegToRad(-2) * float32(math.Sin(20*math.Pi/joints-0.5)) * progress
	assert.InDelta(t, wantFold, far.RotationX, 1e-5)
}

func TestSolveFoldFollowsThetaSign(t *testing.T) {
	p := Baseline()
	opening := Solve(SolveInput{Joint: 15, Joints: 31, Progress: 1, Theta: TargetRotation(true, false, 1, 0.2), Opened: true}, p)
	closing := Solve(SolveInput{Joint: 15, Joints: 31, Progress: 1, Theta: TargetRotation(false, false, 1, 0.2)}, p)

	assert.Less(t, opening.RotationX, float32(0))
	assert.Greater(t, closing.RotationX, float32(0))
}

func TestSolveSingleJoint(t *testing.T) {
	got := Solve(SolveInput{Joint: 0, Joints: 1, Progress: 1, Theta: 1}, Curl())
	assert.False(t, math.IsNaN(float64(got.RotationY)))
	assert.False(t, math.IsNaN(float64(got.RotationX)))

	got = Solve(SolveInput{Joint: 0, Joints: 0, Progress: 1, Theta: 1}, Curl())
	assert.False(t, math.IsInf(float64(got.RotationY), 0))
}

func TestProfilesValidate(t *testing.T) {
	for name, p := range BuiltinProfiles() {
		assert.NoError(t, p.Validate(), name)
		assert.Equal(t, name, p.Name)
	}

	bad := Baseline()
	bad.TurnWindow = 0
	assert.Error(t, bad.Validate())

	bad = Baseline()
	bad.FoldEasing = 0
	assert.Error(t, bad.Validate())

	assert.Equal(t, []string{"baseline", "curl"}, ProfileNames(BuiltinProfiles()))
}
