package animator

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// simplePlayback holds the Simple mode state: the playing clip and an optional fade toward the next one.
type simplePlayback struct {
	current, next model.ClipState

	fading                    bool
	fadeElapsed, fadeDuration float32
}

// play starts a clip from time zero, dropping any fade.
func (p *simplePlayback) play(clip *model.AnimationClip, loop bool) {
	p.current = model.ClipState{Clip: clip, Speed: 1, Loop: loop}
	p.fading = false
	p.fadeElapsed = 0
}

// crossFade starts fading toward clip, or plays it outright when nothing is playing.
// Fading again mid-fade keeps the current clip as the source and replaces the destination.
func (p *simplePlayback) crossFade(clip *model.AnimationClip, duration float32, loop bool) {
	if p.current.Clip == nil {
		p.play(clip, loop)
		return
	}
	p.next = model.ClipState{Clip: clip, Speed: 1, Loop: loop}
	p.fadeDuration = max(duration, common.Epsilon)
	p.fadeElapsed = 0
	p.fading = true
}

// stop clears playback.
func (p *simplePlayback) stop() {
	*p = simplePlayback{}
}

// progress returns the fade blend factor in [0, 1].
func (p *simplePlayback) progress() float32 {
	if !p.fading {
		return 0
	}
	return min(p.fadeElapsed/p.fadeDuration, 1)
}

// update advances playback by dt and writes the pose into out. from and to are scratch poses of out's length.
func (p *simplePlayback) update(dt float32, bind, out, from, to []model.Transform) {
	if p.current.Clip == nil {
		model.ResetPose(out, bind)
		return
	}
	p.current.Advance(dt)
	if !p.fading {
		p.current.Sample(out, bind)
		return
	}

	p.next.Advance(dt)
	p.fadeElapsed += max(dt, -dt)
	t := p.progress()
	p.current.Sample(from, bind)
	p.next.Sample(to, bind)
	model.BlendPoses(out, from, to, t)

	if t >= 1 {
		p.current = p.next
		p.next = model.ClipState{}
		p.fading = false
		p.fadeElapsed = 0
	}
}
