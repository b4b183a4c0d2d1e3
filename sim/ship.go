package sim

// stepShipMotion advances the ship's weave pose and decays the shield flash.
// The pose is a pure function of sim time (see shipPoseAt), which keeps it
// exactly predictable for the intercept solver.
func (s *Sim) stepShipMotion(dt float64) {
	pos, rot := s.shipPoseAt(s.timeSec)
	s.shipPos.X = pos.X
	s.shipPos.Y = pos.Y
	s.shipPos.Z = pos.Z
	s.shipRot = rot

	s.shipFlash -= s.cfg.Ship.FlashDecay * dt
	if s.shipFlash < 0 {
		s.shipFlash = 0
	}
}
