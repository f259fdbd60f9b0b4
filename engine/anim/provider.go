package anim

// Provider exposes the clips of a loaded model and writes sampled poses into
// the skeleton it owns.
type Provider interface {
	AnimationCount() int
	Duration(i int) float64 // seconds
	Name(i int) string
	Apply(i int, seconds float64) // sample clip i into the pose buffer
	CommitPose()                  // push the pose buffer to the skeleton
}

// NoAnimator is the provider used when no model (or no animator) is loaded.
var NoAnimator Provider = noAnimator{}

type noAnimator struct{}

func (noAnimator) AnimationCount() int  { return 0 }
func (noAnimator) Duration(int) float64 { return 0 }
func (noAnimator) Name(int) string      { return "" }
func (noAnimator) Apply(int, float64)   {}
func (noAnimator) CommitPose()          {}
