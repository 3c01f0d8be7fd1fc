package vm

// apply executes a decoded instruction against s. Recoverable faults are
// returned as *Fault with the program counter already advanced; fatal
// faults leave the state untouched.
func (m *Machine) apply(s *State, ins Instruction) error {
	x, y := ins.X, ins.Y
	pc := s.PC

	switch ins.Op {
	case OpCls:
		s.Display.Clear()
		s.dirty = true
		s.PC += 2

	case OpRet:
		addr, ok := s.pop()
		if !ok {
			s.PC += 2
			return m.fault(ErrStackUnderflow, pc, ins, "")
		}
		s.PC = addr

	case OpSys, OpJp:
		s.PC = ins.NNN

	case OpCall:
		if !s.push(pc + 2) {
			s.PC += 2
			return m.fault(ErrStackOverflow, pc, ins, "")
		}
		s.PC = ins.NNN

	case OpSeImm:
		s.skipIf(s.V[x] == ins.KK)
	case OpSneImm:
		s.skipIf(s.V[x] != ins.KK)
	case OpSeReg:
		s.skipIf(s.V[x] == s.V[y])
	case OpSneReg:
		s.skipIf(s.V[x] != s.V[y])

	case OpLdImm:
		s.V[x] = ins.KK
		s.PC += 2
	case OpAddImm:
		s.V[x] += ins.KK
		s.PC += 2

	case OpLdReg:
		s.V[x] = s.V[y]
		s.PC += 2
	case OpOr:
		s.V[x] |= s.V[y]
		s.PC += 2
	case OpAnd:
		s.V[x] &= s.V[y]
		s.PC += 2
	case OpXor:
		s.V[x] ^= s.V[y]
		s.PC += 2

	case OpAddReg:
		sum := uint16(s.V[x]) + uint16(s.V[y])
		s.setWithFlag(x, uint8(sum), sum > 0xFF)
	case OpSub:
		s.setWithFlag(x, s.V[x]-s.V[y], s.V[x] >= s.V[y])
	case OpSubn:
		s.setWithFlag(x, s.V[y]-s.V[x], s.V[y] >= s.V[x])
	case OpShr:
		s.setWithFlag(x, s.V[x]>>1, s.V[x]&0x01 == 0x01)
	case OpShl:
		s.setWithFlag(x, s.V[x]<<1, s.V[x]&0x80 == 0x80)

	case OpLdI:
		s.I = ins.NNN
		s.PC += 2
	case OpJpV0:
		s.PC = ins.NNN + uint16(s.V[0])
	case OpRnd:
		s.V[x] = m.randomByte() & ins.KK
		s.PC += 2

	case OpDrw:
		if ins.N > 0 && !inRange(s.I, int(ins.N)) {
			return m.fault(ErrMemoryOutOfRange, pc, ins, rangeDetail("sprite read", int(s.I), int(ins.N)))
		}
		s.drawSprite(s.V[x], s.V[y], ins.N)
		s.PC += 2

	case OpSkp:
		s.skipIf(s.Keys.Pressed(s.V[x]))
	case OpSknp:
		s.skipIf(!s.Keys.Pressed(s.V[x]))

	case OpLdVxDT:
		s.V[x] = s.Delay
		s.PC += 2
	case OpLdVxK:
		if key, ok := s.Keys.First(); ok {
			s.V[x] = key
			s.PC += 2
			break
		}
		s.waiting = true
		s.waitReg = x
	case OpLdDTVx:
		s.Delay = s.V[x]
		s.PC += 2
	case OpLdSTVx:
		s.Sound = s.V[x]
		s.PC += 2
	case OpAddI:
		s.I += uint16(s.V[x])
		s.PC += 2
	case OpLdF:
		s.I = uint16(s.V[x]) * glyphSize
		s.PC += 2

	case OpLdB:
		if !writable(s.I, 3) {
			return m.fault(ErrMemoryOutOfRange, pc, ins, rangeDetail("bcd write", int(s.I), 3))
		}
		v := s.V[x]
		s.Memory[s.I] = v / 100
		s.Memory[s.I+1] = (v / 10) % 10
		s.Memory[s.I+2] = v % 10
		s.PC += 2
	case OpStore:
		count := int(x) + 1
		if !writable(s.I, count) {
			return m.fault(ErrMemoryOutOfRange, pc, ins, rangeDetail("register store", int(s.I), count))
		}
		copy(s.Memory[s.I:], s.V[:count])
		s.PC += 2
	case OpLoad:
		count := int(x) + 1
		if !inRange(s.I, count) {
			return m.fault(ErrMemoryOutOfRange, pc, ins, rangeDetail("register load", int(s.I), count))
		}
		copy(s.V[:count], s.Memory[s.I:])
		s.PC += 2

	default:
		s.PC += 2
		return m.fault(ErrUnknownOpcode, pc, ins, "")
	}
	return nil
}

// skipIf advances past the next instruction when cond holds.
func (s *State) skipIf(cond bool) {
	if cond {
		s.PC += 2
	}
	s.PC += 2
}

// setWithFlag stores an ALU result in Vx and the flag in VF. VF is written
// last so that it holds the flag even when it is the destination.
func (s *State) setWithFlag(x, result uint8, flag bool) {
	s.V[x] = result
	if flag {
		s.V[0xF] = 1
	} else {
		s.V[0xF] = 0
	}
	s.PC += 2
}

// drawSprite XORs an n byte sprite from memory at I onto the display at
// (vx, vy). Both the origin and the sprite body wrap around the screen
// edges. VF is set when a lit pixel is turned off.
func (s *State) drawSprite(vx, vy, n uint8) {
	var collision uint8
	for row := uint8(0); row < n; row++ {
		spriteByte := s.Memory[s.I+uint16(row)]
		py := (int(vy) + int(row)) % ScreenHeight
		for bit := 0; bit < 8; bit++ {
			if spriteByte&(0x80>>bit) == 0 {
				continue
			}
			px := &s.Display[py][(int(vx)+bit)%ScreenWidth]
			if *px == 1 {
				collision = 1
			}
			*px ^= 1
		}
	}
	s.V[0xF] = collision
	s.dirty = true
}

// inRange reports whether count bytes starting at addr lie in memory.
func inRange(addr uint16, count int) bool {
	return int(addr)+count <= TotalMemory
}

// writable reports whether count bytes starting at addr may be written by
// a program. The font table is read-only.
func writable(addr uint16, count int) bool {
	return inRange(addr, count) && int(addr) >= fontSize
}
