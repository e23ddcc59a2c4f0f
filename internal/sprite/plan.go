package sprite

import (
	"iter"
	"math"
	"slices"
	"strings"
)

// Plan is a validated BatchSpec with its effective bounds. It is the
// validation result and the source of the Shot sequence.
type Plan struct {
	spec     BatchSpec
	template Template
	frameEnd int
	steps    int

	// Warnings lists the shortages that were clamped, in check order.
	Warnings []*ConfigWarning
}

// Validate checks spec and resolves its effective frame range and step count.
//
// Checks run in order: shortage policies, frame range, step count and angle
// names, frame names, then the names and path template. Angle name shortage is fatal under PolicyStrict
// (the default); frame name shortage is clamped with a warning under
// PolicyClamp (the default). Either policy can be set per scheme.
func Validate(spec BatchSpec) (*Plan, error) {
	for _, policy := range []ShortagePolicy{spec.FramePolicy, spec.AnglePolicy} {
		switch policy {
		case "", PolicyStrict, PolicyClamp:
		default:
			return nil, NewConfigError(ErrInvalidPolicy, "%q (expected %q or %q)", policy, PolicyStrict, PolicyClamp)
		}
	}

	if spec.FrameEnd < spec.FrameStart {
		return nil, NewConfigError(ErrInvalidFrameRange,
			"end frame %d is before start frame %d", spec.FrameEnd, spec.FrameStart)
	}

	p := &Plan{
		spec: BatchSpec{
			FrameStart:   spec.FrameStart,
			FrameEnd:     spec.FrameEnd,
			StepCount:    spec.StepCount,
			FrameNames:   slices.Clone(spec.FrameNames),
			AngleNames:   slices.Clone(spec.AngleNames),
			PathTemplate: spec.PathTemplate,
			PhaseOffset:  spec.PhaseOffset,
			FramePolicy:  spec.FramePolicy.orDefault(DefaultFramePolicy),
			AnglePolicy:  spec.AnglePolicy.orDefault(DefaultAnglePolicy),
		},
		frameEnd: spec.FrameEnd,
		steps:    spec.StepCount,
	}

	if err := p.resolveSteps(); err != nil {
		return nil, err
	}
	if err := p.resolveFrames(); err != nil {
		return nil, err
	}
	if err := p.resolveTemplate(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Plan) resolveSteps() error {
	s := &p.spec
	if s.StepCount <= 0 {
		return NewConfigError(ErrInvalidStepCount, "got %d", s.StepCount)
	}
	if s.StepCount <= len(s.AngleNames) {
		return nil
	}
	if s.AnglePolicy == PolicyStrict || len(s.AngleNames) == 0 {
		return NewConfigError(ErrInsufficientAngleNames,
			"%d steps but only %d angle names", s.StepCount, len(s.AngleNames))
	}

	p.steps = len(s.AngleNames)
	p.Warnings = append(p.Warnings, &ConfigWarning{
		Err:       ErrInsufficientAngleNames,
		Requested: s.StepCount,
		Available: len(s.AngleNames),
	})
	return nil
}

func (p *Plan) resolveFrames() error {
	s := &p.spec
	requested := s.FrameEnd - s.FrameStart + 1
	if requested <= len(s.FrameNames) {
		return nil
	}
	if s.FramePolicy == PolicyStrict || len(s.FrameNames) == 0 {
		return NewConfigError(ErrInsufficientFrameNames,
			"%d frames (%d..%d) but only %d frame names", requested, s.FrameStart, s.FrameEnd, len(s.FrameNames))
	}

	p.frameEnd = s.FrameStart + len(s.FrameNames) - 1
	p.Warnings = append(p.Warnings, &ConfigWarning{
		Err:       ErrInsufficientFrameNames,
		Requested: requested,
		Available: len(s.FrameNames),
	})
	return nil
}

func (p *Plan) resolveTemplate() error {
	t, err := ParseTemplate(p.spec.PathTemplate)
	if err != nil {
		return err
	}
	for i, name := range p.spec.FrameNames[:p.frameCount()] {
		if strings.TrimSpace(name) == "" {
			return NewConfigError(ErrEmptyName, "frame %d has an empty name", p.spec.FrameStart+i)
		}
		if err := t.accepts(0, name); err != nil {
			return err
		}
	}
	for i, name := range p.spec.AngleNames[:p.steps] {
		if strings.TrimSpace(name) == "" {
			return NewConfigError(ErrEmptyName, "angle step %d has an empty name", i)
		}
		if err := t.accepts(1, name); err != nil {
			return err
		}
	}
	p.template = t
	return nil
}

// Spec returns the validated spec with default policies filled in.
func (p *Plan) Spec() BatchSpec { return p.spec }

// EffectiveFrameEnd is the last frame that will be rendered.
func (p *Plan) EffectiveFrameEnd() int { return p.frameEnd }

// EffectiveSteps is the number of rotation steps rendered per frame.
func (p *Plan) EffectiveSteps() int { return p.steps }

// Len returns the number of Shots the plan yields.
func (p *Plan) Len() int { return p.frameCount() * p.steps }

func (p *Plan) frameCount() int { return p.frameEnd - p.spec.FrameStart + 1 }

// StepAngle returns the rotation in radians for a step index. Spacing always
// uses the requested StepCount, so clamped angle names do not change geometry.
func (p *Plan) StepAngle(stepIndex int) float64 {
	return (2*math.Pi/float64(p.spec.StepCount))*float64(stepIndex) + p.spec.PhaseOffset
}

// Shots yields the plan's Shots in row-major order: frames ascending and,
// within a frame, rotation steps ascending. The sequence may be consumed
// partially and re-ranged any number of times with identical results.
func (p *Plan) Shots() iter.Seq[Shot] {
	return func(yield func(Shot) bool) {
		ordinal := 0
		for frame := p.spec.FrameStart; frame <= p.frameEnd; frame++ {
			frameName := p.spec.FrameNames[frame-p.spec.FrameStart]
			for step := range p.steps {
				angleName := p.spec.AngleNames[step]
				// Names were checked against the template in Validate.
				path, _ := p.template.Format(frameName, angleName)
				shot := Shot{
					Ordinal:      ordinal,
					FrameIndex:   frame,
					StepIndex:    step,
					AngleRadians: p.StepAngle(step),
					FrameName:    frameName,
					AngleName:    angleName,
					OutputPath:   path,
				}
				if !yield(shot) {
					return
				}
				ordinal++
			}
		}
	}
}

// Enumerate validates spec and returns its Shot sequence. Warnings are
// dropped; call Validate directly to inspect them.
func Enumerate(spec BatchSpec) (iter.Seq[Shot], error) {
	p, err := Validate(spec)
	if err != nil {
		return nil, err
	}
	return p.Shots(), nil
}
