package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Day/night cycle.
const (
	DayCyclePeriod = 180.0 // seconds of game time per full day/night cycle
	SunAmbientMin  = 0.25
	SunAmbientMax  = 1.00
	SunNightStart  = 0.55
	StartDayTime   = DayCyclePeriod * 0.1 // mid-morning
)

// Light is what the renderer needs from the day cycle for one frame.
type Light struct {
	Ambient float32
	Tint    [3]float32
	SunDir  r3.Vec // unit vector pointing toward the sun
	Sky     [3]float32
	Night   float32 // 0 day, 1 deep night
}

// SunCycleLight computes ambient light, colour tint, sun direction and sky
// colour from game time.
func SunCycleLight(gameTime float64) Light {
	phase := math.Mod(gameTime, DayCyclePeriod) / DayCyclePeriod // 0..1
	sunHeight := math.Sin(phase * 2 * math.Pi)

	mid := float64(SunAmbientMin+SunAmbientMax) * 0.5
	amp := float64(SunAmbientMax-SunAmbientMin) * 0.5
	l := Light{Ambient: float32(mid + amp*sunHeight)}

	// Warm tint near the horizon.
	horizonFactor := 1.0 - math.Abs(sunHeight)
	warmth := horizonFactor * horizonFactor * 0.35
	l.Tint = [3]float32{
		float32(1.0 + warmth*0.4),
		float32(1.0 - warmth*0.15),
		float32(1.0 - warmth*0.5),
	}
	if sunHeight < -0.3 {
		nightFactor := float32((-sunHeight - 0.3) / 0.7)
		l.Tint[0] -= nightFactor * 0.07
		l.Tint[1] -= nightFactor * 0.035
		l.Tint[2] += nightFactor * 0.10
	}

	// The sun rises in +x and sets in -x, tilted a little toward the cliffs.
	a := phase * 2 * math.Pi
	dir := r3.Vec{X: math.Cos(a), Y: math.Sin(a), Z: 0.3}
	l.SunDir = r3.Unit(dir)

	day := [3]float64{0.45, 0.68, 0.92}
	dusk := [3]float64{0.85, 0.45, 0.30}
	night := [3]float64{0.02, 0.03, 0.08}
	for i := range l.Sky {
		var c float64
		if sunHeight >= 0 {
			c = dusk[i] + (day[i]-dusk[i])*math.Sqrt(sunHeight)
		} else {
			c = dusk[i] + (night[i]-dusk[i])*math.Min(-sunHeight*2.5, 1)
		}
		l.Sky[i] = float32(c)
	}
	l.Night = NightIntensityFromAmbient(l.Ambient)
	return l
}

// NightIntensityFromAmbient maps ambient light to a 0..1 night factor.
// Vehicles and signs light up with it so they stay visible after dark.
func NightIntensityFromAmbient(ambient float32) float32 {
	denom := float64(SunNightStart - SunAmbientMin)
	if denom <= 0 {
		return 0
	}
	return float32(clampF((float64(SunNightStart)-float64(ambient))/denom, 0, 1))
}
