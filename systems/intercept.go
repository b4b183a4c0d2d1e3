package systems

// SolveFireTime computes the time at which a constant-speed projectile must
// be fired so it arrives at the target's predicted position exactly at
// cueTime. shipAt and targetAt predict poses at an absolute sim time.
//
// The fixed-point iteration converges in a handful of rounds because the
// projectile speed is constant and targets move smoothly: each round
// re-derives fireTime = cueTime - travelTime from the previous estimate.
// ok is false when the solved time falls outside [now, cueTime) - the target
// is already too close or the cue is imminent - and the caller is expected
// to fall back to an immediate aimed shot.
func SolveFireTime(now, cueTime, projSpeed float64, shipAt, targetAt func(at float64) Vec3, iters int) (fireTime float64, ok bool) {
	if projSpeed <= 0 || cueTime <= now {
		return now, false
	}
	if iters < 1 {
		iters = 1
	}

	impact := targetAt(cueTime)
	fireTime = now
	for i := 0; i < iters; i++ {
		travel := impact.Sub(shipAt(fireTime)).Len() / projSpeed
		fireTime = cueTime - travel
	}

	return fireTime, fireTime >= now && fireTime < cueTime
}

// AimVelocity returns the velocity that carries a projectile from `from` to
// `to` in exactly lead seconds. Executed fire re-derives this against the
// target's latest prediction so arrival stays locked to the cue regardless
// of motion curvature between planning and firing.
func AimVelocity(from, to Vec3, lead float64) Vec3 {
	if lead <= 0 {
		lead = 1e-3
	}
	return to.Sub(from).Scale(1 / lead)
}
