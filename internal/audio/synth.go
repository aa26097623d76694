package audio

import "math"

const (
	SampleRate   = 44100
	ChannelCount = 2
	frameBytes   = 8 // stereo float32
)

// Sound identifies a procedural effect.
type Sound int

const (
	SoundCrash Sound = iota
	SoundWallHit
	SoundSplash
	SoundMilestone
	SoundHorn
	SoundGameOver
	SoundStart
)

var soundNames = [...]string{"crash", "wall-hit", "splash", "milestone", "horn", "game-over", "start"}

func (s Sound) String() string {
	if s < 0 || int(s) >= len(soundNames) {
		return "unknown"
	}
	return soundNames[s]
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	for c := 0; c < ChannelCount; c++ {
		o := i*frameBytes + c*4
		buf[o] = byte(v)
		buf[o+1] = byte(v >> 8)
		buf[o+2] = byte(v >> 16)
		buf[o+3] = byte(v >> 24)
	}
}

// softSat applies gentle tanh-like saturation.
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/x
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

// adsr returns an envelope at normalized progress [0,1].
// attack/decay/release are fractions of the total duration.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1.0 - (progress-attack)/decay*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		return sustain * (1.0 - (progress-(1.0-release))/release)
	}
}

// fm returns an FM-synthesized sample.
func fm(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

// lcg advances an LCG seed and returns a noise sample in [-1,1].
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

func frames(seconds float64) int { return int(seconds * SampleRate) }

func makeBuf(n int) []byte { return make([]byte, n*frameBytes) }

// Synthesize renders a sound as interleaved stereo float32 LE. intensity
// in [0,1] scales impact-type sounds; others ignore it.
func Synthesize(s Sound, intensity float64) []byte {
	intensity = math.Max(0, math.Min(1, intensity))
	switch s {
	case SoundCrash:
		return genCrash()
	case SoundWallHit:
		return genWallHit(intensity)
	case SoundSplash:
		return genSplash(intensity)
	case SoundMilestone:
		return genMilestone()
	case SoundHorn:
		return genHorn()
	case SoundGameOver:
		return genGameOver()
	case SoundStart:
		return genStart()
	}
	return nil
}

// genCrash: tyre screech sliding down into a low thump.
func genCrash() []byte {
	n := frames(0.45)
	buf := makeBuf(n)
	seed := uint64(90210)
	phase := 0.0
	bp1, bp2 := 0.0, 0.0
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n)
		freq := 1400 - 700*p
		phase += 2 * math.Pi * freq / SampleRate
		screech := math.Sin(phase+0.8*math.Sin(phase*0.013)) * adsr(p, 0.03, 0.3, 0.6, 0.4) * 0.22
		raw := lcg(&seed)
		bp1 = bp1*0.7 + raw*0.3
		bp2 = bp2*0.97 + raw*0.03
		grit := (bp1 - bp2) * math.Exp(-p*4) * 0.25
		s := screech + grit
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genWallHit: metal crunch, louder and longer for faster impacts.
func genWallHit(intensity float64) []byte {
	dur := 0.25 + 0.35*intensity
	n := frames(dur)
	buf := makeBuf(n)
	seed := uint64(4242)
	lp := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		crack := 0.0
		if p < 0.12 {
			crack = lcg(&seed) * (1 - p/0.12) * (0.5 + 0.3*intensity)
		}
		lp = lp*0.85 + lcg(&seed)*0.15
		body := lp * math.Exp(-p*5) * 0.4
		thump := math.Sin(2*math.Pi*(95-50*p)*t) * math.Exp(-p*9) * (0.3 + 0.3*intensity)
		ring := fm(t, 310, 1.41, 2.5) * math.Exp(-p*14) * 0.12
		putStereoF32(buf, i, softSat((crack+body+thump+ring)*0.85))
	}
	return buf
}

// genSplash: sloshy filtered noise burst with a low wobble.
func genSplash(intensity float64) []byte {
	n := frames(0.3 + 0.4*intensity)
	buf := makeBuf(n)
	seed := uint64(7070)
	lp := 0.0
	phase := 0.0
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n)
		wob := 55 + 40*math.Sin(2*math.Pi*p*3.2)
		phase += 2 * math.Pi * wob / SampleRate
		sub := math.Sin(phase) * math.Exp(-p*6.5) * 0.3
		lp = lp*0.72 + lcg(&seed)*0.28
		slosh := lp * math.Exp(-p*4) * (0.3 + 0.2*intensity)
		hiss := lcg(&seed) * math.Exp(-p*20) * 0.1
		putStereoF32(buf, i, softSat((sub+slosh+hiss)*0.75))
	}
	return buf
}

// genMilestone: two-note bell.
func genMilestone() []byte {
	return arpeggio([]float64{783.99, 1046.5}, 0.09, 0.25, 0.35)
}

func genStart() []byte {
	return arpeggio([]float64{523.25, 659.25, 783.99}, 0.08, 0.2, 0.35)
}

// genGameOver: slow falling minor triad.
func genGameOver() []byte {
	return arpeggio([]float64{440, 349.23, 293.66, 220}, 0.22, 0.6, 0.4)
}

func arpeggio(freqs []float64, noteSec, tailSec, gain float64) []byte {
	noteLen := frames(noteSec)
	total := len(freqs)*noteLen + frames(tailSec)
	mix := make([]float64, total)
	for fi, freq := range freqs {
		start := fi * noteLen
		dur := total - start
		for i := 0; i < dur; i++ {
			t := float64(i) / SampleRate
			p := float64(i) / float64(dur)
			env := adsr(p, 0.01, 0.3, 0.2, 0.5)
			mix[start+i] += fm(t, freq, 3.5, 1.8*env) * env * gain
		}
	}
	buf := makeBuf(total)
	for i, s := range mix {
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

// genHorn: two-tone car horn with a slight detune beat.
func genHorn() []byte {
	n := frames(0.4)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.04, 0.1, 0.8, 0.2)
		a := math.Sin(2*math.Pi*415*t) + 0.4*math.Sin(2*math.Pi*830*t)
		b := math.Sin(2*math.Pi*523*t) + 0.4*math.Sin(2*math.Pi*1046*t)
		putStereoF32(buf, i, softSat((a+b)*env*0.18))
	}
	return buf
}
