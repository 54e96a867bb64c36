package model

import (
	"math"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
)

// SampleTRS samples the clip at the given time into out.
// out is first initialized from base (identity transforms where base is nil or short), then only the
// translation, rotation and scale components that have keys are overwritten. Channels targeting joints
// outside jointCount are ignored.
//
// Parameters:
//   - time: the sample time in seconds
//   - jointCount: the number of joints to write
//   - out: destination pose, at least jointCount elements
//   - base: the pose unanimated components fall back to, may be nil
func (c *AnimationClip) SampleTRS(time float32, jointCount int, out, base []Transform) {
	out = out[:jointCount]
	ResetPose(out, base)
	if c == nil {
		return
	}
	for i := range c.Channels {
		ch := &c.Channels[i]
		if ch.JointIndex < 0 || ch.JointIndex >= jointCount {
			continue
		}
		dst := &out[ch.JointIndex]
		if len(ch.PositionKeys) > 0 {
			dst.Translation = sampleVectorKeys(ch.PositionKeys, time)
		}
		if len(ch.RotationKeys) > 0 {
			dst.Rotation = sampleQuaternionKeys(ch.RotationKeys, time)
		}
		if len(ch.ScaleKeys) > 0 {
			dst.Scale = sampleVectorKeys(ch.ScaleKeys, time)
		}
	}
}

// bracket finds the keyframe pair surrounding time by linear scan and the interpolation factor between them.
// Times before the first or after the last key clamp to that key.
func bracket(count int, keyTime func(int) float32, time float32) (lo, hi int, t float32) {
	if count == 1 || time <= keyTime(0) {
		return 0, 0, 0
	}
	last := count - 1
	if time >= keyTime(last) {
		return last, last, 0
	}
	for i := 0; i < last; i++ {
		t0, t1 := keyTime(i), keyTime(i+1)
		if time >= t0 && time < t1 {
			span := t1 - t0
			if span < common.Epsilon {
				return i + 1, i + 1, 0
			}
			return i, i + 1, (time - t0) / span
		}
	}
	return last, last, 0
}

func sampleVectorKeys(keys []VectorKeyframe, time float32) mgl32.Vec3 {
	lo, hi, t := bracket(len(keys), func(i int) float32 { return keys[i].Time }, time)
	if lo == hi {
		return keys[lo].Value
	}
	return common.LerpVec3(keys[lo].Value, keys[hi].Value, t)
}

func sampleQuaternionKeys(keys []QuaternionKeyframe, time float32) mgl32.Quat {
	lo, hi, t := bracket(len(keys), func(i int) float32 { return keys[i].Time }, time)
	if lo == hi {
		return common.NormalizeQuat(keys[lo].Value)
	}
	return common.Slerp(keys[lo].Value, keys[hi].Value, t)
}

// AdvanceClipTime steps a playback time by delta seconds.
// Looping clips wrap into [0, duration) for either playback direction; non-looping clips clamp to [0, duration].
// A clip with no duration stays at zero.
//
// Parameters:
//   - time: the current time
//   - delta: the time step, already multiplied by playback speed
//   - duration: the clip duration
//   - loop: whether the clip loops
//
// Returns:
//   - float32: the new time
func AdvanceClipTime(time, delta, duration float32, loop bool) float32 {
	if duration <= 0 {
		return 0
	}
	time += delta
	if loop {
		if time >= duration || time < 0 {
			time = float32(math.Mod(float64(time), float64(duration)))
			if time < 0 {
				time += duration
			}
		}
		return time
	}
	return mgl32.Clamp(time, 0, duration)
}

// Advance steps the clip state by dt seconds scaled by its speed.
// It returns the normalized time reached before any loop wrap, which exit-time checks compare against.
//
// Parameters:
//   - dt: elapsed time in seconds
//
// Returns:
//   - float32: (time + dt*speed) / duration before wrapping, or 0 for a clip without duration
func (s *ClipState) Advance(dt float32) float32 {
	if s.Clip == nil || s.Clip.Duration <= 0 {
		s.Time = 0
		return 0
	}
	delta := dt * s.Speed
	raw := (s.Time + delta) / s.Clip.Duration
	s.Time = AdvanceClipTime(s.Time, delta, s.Clip.Duration, s.Loop)
	return raw
}

// Sample samples the state's clip at its current time.
//
// Parameters:
//   - out: destination pose
//   - base: the base pose for unanimated components
func (s *ClipState) Sample(out, base []Transform) {
	s.Clip.SampleTRS(s.Time, len(out), out, base)
}

// Duration returns the clip's duration, or 0 without a clip.
//
// Returns:
//   - float32: the duration in seconds
func (s *ClipState) Duration() float32 {
	if s.Clip == nil {
		return 0
	}
	return s.Clip.Duration
}
