package spc700

import "github.com/sres-go/gosres/internal/clock"

// dp resolves a direct-page address from an in-page offset byte,
// honoring the P status flag's page selection.
func (s *SPC700) dp(offset uint8) clock.AddressU16 {
	return clock.AddressU16(s.directPage() | uint16(offset))
}

// execute dispatches a single SPC700 opcode. Coverage follows the same
// policy as the main CPU: the common data-movement, arithmetic, branch,
// and control-flow instructions are wired; anything else halts with a
// decode error rather than silently misbehaving.
func (s *SPC700) execute(opcode uint8) {
	switch opcode {
	case 0x00: // NOP: 1 opcode fetch + 1 idle cycle
		s.tick(1)

	case 0xEF, 0xFF: // SLEEP / STOP: 1 opcode fetch + 1 idle cycle before halting
		s.tick(1)
		s.stopped = true

	case 0x60: // CLRC
		s.Status.Carry = false
		s.tick(1)
	case 0x80: // SETC
		s.Status.Carry = true
		s.tick(1)
	case 0xED: // NOTC
		s.Status.Carry = !s.Status.Carry
		s.tick(1)
	case 0x20: // CLRP
		s.Status.DirectPage = false
		s.tick(1)
	case 0x40: // SETP
		s.Status.DirectPage = true
		s.tick(1)
	case 0xA0: // EI
		s.Status.IRQEnable = true
		s.tick(1)
	case 0xC0: // DI
		s.Status.IRQEnable = false
		s.tick(1)

	case 0xE8: // MOV A,#imm
		s.A = s.fetch8()
		s.setZN(s.A)
	case 0xCD: // MOV X,#imm
		s.X = s.fetch8()
		s.setZN(s.X)
	case 0x8D: // MOV Y,#imm
		s.Y = s.fetch8()
		s.setZN(s.Y)
	case 0xE4: // MOV A,dp
		s.A = s.read8(s.dp(s.fetch8()))
		s.setZN(s.A)
	case 0xF4: // MOV A,dp+X
		s.A = s.read8(s.dp(s.fetch8() + s.X))
		s.setZN(s.A)
		s.tick(1) // index-add internal cycle
	case 0xE5: // MOV A,abs
		s.A = s.read8(clock.AddressU16(s.fetch16()))
		s.setZN(s.A)
	case 0xC4: // MOV dp,A
		s.write8(s.dp(s.fetch8()), s.A)
		s.tick(1) // store instructions charge a dummy read cycle
	case 0xD4: // MOV dp+X,A
		s.write8(s.dp(s.fetch8()+s.X), s.A)
		s.tick(2) // index-add plus the dummy read cycle
	case 0xC5: // MOV abs,A
		s.write8(clock.AddressU16(s.fetch16()), s.A)
		s.tick(1)
	case 0xF8: // MOV X,dp
		s.X = s.read8(s.dp(s.fetch8()))
		s.setZN(s.X)
	case 0xD8: // MOV dp,X
		s.write8(s.dp(s.fetch8()), s.X)
		s.tick(1)
	case 0xF9: // MOV X,dp+Y
		s.X = s.read8(s.dp(s.fetch8() + s.Y))
		s.setZN(s.X)
		s.tick(1)
	case 0xEB: // MOV Y,dp
		s.Y = s.read8(s.dp(s.fetch8()))
		s.setZN(s.Y)
	case 0xCB: // MOV dp,Y
		s.write8(s.dp(s.fetch8()), s.Y)
		s.tick(1)
	case 0x7D: // MOV A,X
		s.A = s.X
		s.setZN(s.A)
		s.tick(1)
	case 0x5D: // MOV X,A
		s.X = s.A
		s.setZN(s.X)
		s.tick(1)
	case 0xDD: // MOV A,Y
		s.A = s.Y
		s.setZN(s.A)
		s.tick(1)
	case 0xFD: // MOV Y,A
		s.Y = s.A
		s.setZN(s.Y)
		s.tick(1)
	case 0x9D: // MOV X,SP
		s.X = s.SP
		s.setZN(s.X)
		s.tick(1)
	case 0xBD: // MOV SP,X
		s.SP = s.X
		s.tick(1)

	case 0x2D: // PUSH A
		s.push8(s.A)
		s.tick(2)
	case 0x4D: // PUSH X
		s.push8(s.X)
		s.tick(2)
	case 0x6D: // PUSH Y
		s.push8(s.Y)
		s.tick(2)
	case 0x0D: // PUSH PSW
		s.push8(s.Status.ToByte())
		s.tick(2)
	case 0xAE: // POP A
		s.A = s.pop8()
		s.tick(2)
	case 0xCE: // POP X
		s.X = s.pop8()
		s.tick(2)
	case 0xEE: // POP Y
		s.Y = s.pop8()
		s.tick(2)
	case 0x8E: // POP PSW
		s.Status = clock.Spc700StatusFromByte(s.pop8())
		s.tick(2)

	case 0x88: // ADC A,#imm
		s.adc(s.fetch8())
	case 0x84: // ADC A,dp
		s.adc(s.read8(s.dp(s.fetch8())))
	case 0x85: // ADC A,abs
		s.adc(s.read8(clock.AddressU16(s.fetch16())))
	case 0xA8: // SBC A,#imm
		s.sbc(s.fetch8())
	case 0xA4: // SBC A,dp
		s.sbc(s.read8(s.dp(s.fetch8())))
	case 0xA5: // SBC A,abs
		s.sbc(s.read8(clock.AddressU16(s.fetch16())))
	case 0x68: // CMP A,#imm
		s.cmp(s.fetch8())
	case 0x64: // CMP A,dp
		s.cmp(s.read8(s.dp(s.fetch8())))
	case 0x65: // CMP A,abs
		s.cmp(s.read8(clock.AddressU16(s.fetch16())))

	case 0x28: // AND A,#imm
		s.bitwise(s.fetch8(), func(a, b uint8) uint8 { return a & b })
	case 0x24: // AND A,dp
		s.bitwise(s.read8(s.dp(s.fetch8())), func(a, b uint8) uint8 { return a & b })
	case 0x08: // OR A,#imm
		s.bitwise(s.fetch8(), func(a, b uint8) uint8 { return a | b })
	case 0x04: // OR A,dp
		s.bitwise(s.read8(s.dp(s.fetch8())), func(a, b uint8) uint8 { return a | b })
	case 0x48: // EOR A,#imm
		s.bitwise(s.fetch8(), func(a, b uint8) uint8 { return a ^ b })
	case 0x44: // EOR A,dp
		s.bitwise(s.read8(s.dp(s.fetch8())), func(a, b uint8) uint8 { return a ^ b })

	case 0xBC: // INC A
		s.A++
		s.setZN(s.A)
		s.tick(1)
	case 0x9C: // DEC A
		s.A--
		s.setZN(s.A)
		s.tick(1)
	case 0x3D: // INC X
		s.X++
		s.setZN(s.X)
		s.tick(1)
	case 0x1D: // DEC X
		s.X--
		s.setZN(s.X)
		s.tick(1)
	case 0xFC: // INC Y
		s.Y++
		s.setZN(s.Y)
		s.tick(1)
	case 0xDC: // DEC Y
		s.Y--
		s.setZN(s.Y)
		s.tick(1)
	case 0xAB: // INC dp
		addr := s.dp(s.fetch8())
		v := s.read8(addr) + 1
		s.write8(addr, v)
		s.setZN(v)
	case 0x8B: // DEC dp
		addr := s.dp(s.fetch8())
		v := s.read8(addr) - 1
		s.write8(addr, v)
		s.setZN(v)

	case 0x1C: // ASL A
		s.Status.Carry = s.A&0x80 != 0
		s.A <<= 1
		s.setZN(s.A)
		s.tick(1)
	case 0x5C: // LSR A
		s.Status.Carry = s.A&0x01 != 0
		s.A >>= 1
		s.setZN(s.A)
		s.tick(1)
	case 0x3C: // ROL A
		old := s.Status.Carry
		s.Status.Carry = s.A&0x80 != 0
		s.A <<= 1
		if old {
			s.A |= 1
		}
		s.setZN(s.A)
		s.tick(1)
	case 0x7C: // ROR A
		old := s.Status.Carry
		s.Status.Carry = s.A&0x01 != 0
		s.A >>= 1
		if old {
			s.A |= 0x80
		}
		s.setZN(s.A)
		s.tick(1)

	case 0x2F: // BRA rel
		s.branch(true)
	case 0xF0: // BEQ
		s.branch(s.Status.Zero)
	case 0xD0: // BNE
		s.branch(!s.Status.Zero)
	case 0xB0: // BCS
		s.branch(s.Status.Carry)
	case 0x90: // BCC
		s.branch(!s.Status.Carry)
	case 0x70: // BVS
		s.branch(s.Status.Overflow)
	case 0x50: // BVC
		s.branch(!s.Status.Overflow)
	case 0x30: // BMI
		s.branch(s.Status.Negative)
	case 0x10: // BPL
		s.branch(!s.Status.Negative)

	case 0x5F: // JMP abs
		s.PC = s.fetch16()
	case 0x1F: // JMP [abs+X]
		base := s.fetch16() + uint16(s.X)
		low := s.read8(clock.AddressU16(base))
		high := s.read8(clock.AddressU16(base + 1))
		s.PC = uint16(high)<<8 | uint16(low)
		s.tick(1) // index-add internal cycle
	case 0x3F: // CALL abs
		target := s.fetch16()
		s.push16(s.PC)
		s.PC = target
		s.tick(3)
	case 0x6F: // RET
		s.PC = s.pop16()
		s.tick(2)
	case 0x7F: // RETI
		s.Status = clock.Spc700StatusFromByte(s.pop8())
		s.PC = s.pop16()
		s.tick(2)

	default:
		s.stopped = true
		if s.sink != nil {
			s.sink.PublishError("undefined spc700 opcode " + hexByte(opcode))
		}
	}
}

func (s *SPC700) adc(v uint8) {
	carry := uint16(0)
	if s.Status.Carry {
		carry = 1
	}
	sum := uint16(s.A) + uint16(v) + carry
	s.Status.HalfCarry = (s.A&0xF)+(v&0xF)+uint8(carry) > 0xF
	s.Status.Overflow = (s.A^uint8(sum))&(v^uint8(sum))&0x80 != 0
	s.Status.Carry = sum > 0xFF
	s.A = uint8(sum)
	s.setZN(s.A)
}

func (s *SPC700) sbc(v uint8) {
	s.adc(^v)
}

func (s *SPC700) cmp(v uint8) {
	diff := uint16(s.A) - uint16(v)
	s.Status.Carry = s.A >= v
	s.setZN(uint8(diff))
}

func (s *SPC700) bitwise(v uint8, op func(a, b uint8) uint8) {
	s.A = op(s.A, v)
	s.setZN(s.A)
}

func (s *SPC700) branch(taken bool) {
	offset := int8(s.fetch8())
	if taken {
		s.PC = uint16(int32(s.PC) + int32(offset))
		s.tick(2)
	}
}

func hexByte(b uint8) string {
	const digits = "0123456789ABCDEF"
	return "$" + string([]byte{digits[b>>4], digits[b&0xF]})
}
