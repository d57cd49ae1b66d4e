package cpu

import "github.com/sres-go/gosres/internal/clock"

// repSep implements REP/SEP: clear (REP) or set (SEP) the status bits
// named by mask. In emulation mode M and X are pinned to 1 regardless.
func (c *CPU) repSep(mask uint8, set bool) {
	bits := clock.StatusFromByte(mask)
	apply := func(flag *bool, v bool) {
		if v {
			*flag = set
		}
	}
	apply(&c.Status.Negative, bits.Negative)
	apply(&c.Status.Overflow, bits.Overflow)
	apply(&c.Status.AccumulatorWidth8, bits.AccumulatorWidth8)
	apply(&c.Status.IndexWidth8, bits.IndexWidth8)
	apply(&c.Status.Decimal, bits.Decimal)
	apply(&c.Status.IRQDisable, bits.IRQDisable)
	apply(&c.Status.Zero, bits.Zero)
	apply(&c.Status.Carry, bits.Carry)

	if c.Emulation {
		c.Status.AccumulatorWidth8 = true
		c.Status.IndexWidth8 = true
	}
	if c.Status.IndexWidth8 {
		c.X &= 0x00FF
		c.Y &= 0x00FF
	}
}

func (c *CPU) transferToA(v uint16) {
	if c.accumulatorIs8() {
		c.A = (c.A & 0xFF00) | (v & 0xFF)
		c.setZN8(uint8(c.A))
	} else {
		c.A = v
		c.setZN16(c.A)
	}
}

func (c *CPU) pushWidth(v uint16, is8 bool) {
	if is8 {
		c.push8(uint8(v))
	} else {
		c.push16(v)
	}
}

func (c *CPU) pullWidth(is8 bool, prev uint16) uint16 {
	if is8 {
		return (prev & 0xFF00) | uint16(c.pop8())
	}
	return c.pop16()
}

func (c *CPU) loadValue(op operand, is8 bool) uint16 {
	if is8 {
		return uint16(c.read8(op.addr))
	}
	return c.read16(op.addr, clock.WrapBank)
}

func (c *CPU) storeValue(op operand, v uint16, is8 bool) {
	if is8 {
		c.write8(op.addr, uint8(v))
	} else {
		c.write16(op.addr, v, clock.WrapBank)
	}
}

func (c *CPU) ldaImmediate() {
	is8 := c.accumulatorIs8()
	var v uint16
	if is8 {
		v = uint16(c.fetch8())
	} else {
		v = c.fetch16()
	}
	c.setAccum(v, is8)
}

func (c *CPU) setAccum(v uint16, is8 bool) {
	if is8 {
		c.A = (c.A & 0xFF00) | (v & 0xFF)
		c.setZN8(uint8(c.A))
	} else {
		c.A = v
		c.setZN16(c.A)
	}
}

func (c *CPU) lda(op operand) {
	is8 := c.accumulatorIs8()
	c.setAccum(c.loadValue(op, is8), is8)
}

func (c *CPU) ldaIndexed(op operand) {
	if op.pageCrossed && c.indexIs8() {
		c.tick(1)
	}
	c.lda(op)
}

// indexedPenalty charges the extra cycle abs,X / abs,Y / (dp),Y incur
// when their effective address crosses a page boundary, mirroring
// ldaIndexed for every other read-only ALU op that shares the same
// addressing-mode column.
func (c *CPU) indexedPenalty(op operand) {
	if op.pageCrossed && c.indexIs8() {
		c.tick(1)
	}
}

func (c *CPU) sta(op operand) {
	c.storeValue(op, c.A, c.accumulatorIs8())
}

func (c *CPU) stz(op operand) {
	c.storeValue(op, 0, c.accumulatorIs8())
}

func (c *CPU) ldxImmediate() {
	is8 := c.indexIs8()
	var v uint16
	if is8 {
		v = uint16(c.fetch8())
	} else {
		v = c.fetch16()
	}
	c.setIndex(&c.X, v, is8)
}

func (c *CPU) ldyImmediate() {
	is8 := c.indexIs8()
	var v uint16
	if is8 {
		v = uint16(c.fetch8())
	} else {
		v = c.fetch16()
	}
	c.setIndex(&c.Y, v, is8)
}

func (c *CPU) setIndex(reg *uint16, v uint16, is8 bool) {
	if is8 {
		*reg = v & 0xFF
		c.setZN8(uint8(*reg))
	} else {
		*reg = v
		c.setZN16(*reg)
	}
}

func (c *CPU) ldx(op operand) {
	c.setIndex(&c.X, c.loadValue(op, c.indexIs8()), c.indexIs8())
}

func (c *CPU) ldy(op operand) {
	c.setIndex(&c.Y, c.loadValue(op, c.indexIs8()), c.indexIs8())
}

func (c *CPU) stx(op operand) {
	c.storeValue(op, c.X, c.indexIs8())
}

func (c *CPU) sty(op operand) {
	c.storeValue(op, c.Y, c.indexIs8())
}

// adcValue adds v (plus carry) into the accumulator honoring the
// Decimal flag, matching the 65C816's BCD adjustment for ADC/SBC.
func (c *CPU) adcValue(v uint16, is8 bool) {
	carry := uint16(0)
	if c.Status.Carry {
		carry = 1
	}
	if is8 {
		a := uint8(c.A)
		b := uint8(v)
		var sum uint16
		if c.Status.Decimal {
			sum = bcdAdd8(a, b, uint8(carry))
		} else {
			sum = uint16(a) + uint16(b) + carry
		}
		c.Status.Carry = sum > 0xFF
		result := uint8(sum)
		c.Status.Overflow = (a^result)&(b^result)&0x80 != 0
		c.A = (c.A & 0xFF00) | uint16(result)
		c.setZN8(result)
	} else {
		a := c.A
		b := v
		var sum uint32
		if c.Status.Decimal {
			sum = uint32(bcdAdd16(a, b, uint8(carry)))
		} else {
			sum = uint32(a) + uint32(b) + uint32(carry)
		}
		c.Status.Carry = sum > 0xFFFF
		result := uint16(sum)
		c.Status.Overflow = (a^result)&(b^result)&0x8000 != 0
		c.A = result
		c.setZN16(result)
	}
}

func (c *CPU) adcImmediate() {
	is8 := c.accumulatorIs8()
	var v uint16
	if is8 {
		v = uint16(c.fetch8())
	} else {
		v = c.fetch16()
	}
	c.adcValue(v, is8)
}

func (c *CPU) adc(op operand) {
	is8 := c.accumulatorIs8()
	c.adcValue(c.loadValue(op, is8), is8)
}

func (c *CPU) adcIndexed(op operand) {
	c.indexedPenalty(op)
	c.adc(op)
}

func (c *CPU) sbcValue(v uint16, is8 bool) {
	// SBC is ADC with the operand's bits complemented (binary mode); in
	// decimal mode the ten's-complement adjustment differs, handled in
	// bcdSub.
	if c.Status.Decimal {
		carry := uint16(0)
		if c.Status.Carry {
			carry = 1
		}
		if is8 {
			a := uint8(c.A)
			b := uint8(v)
			diff, borrowed := bcdSub8(a, b, uint8(carry))
			c.Status.Carry = !borrowed
			c.Status.Overflow = (a^b)&(a^diff)&0x80 != 0
			c.A = (c.A & 0xFF00) | uint16(diff)
			c.setZN8(diff)
		} else {
			a := c.A
			diff, borrowed := bcdSub16(a, v, uint8(carry))
			c.Status.Carry = !borrowed
			c.Status.Overflow = (a^v)&(a^diff)&0x8000 != 0
			c.A = diff
			c.setZN16(diff)
		}
		return
	}
	if is8 {
		c.adcValue(uint16(^uint8(v)), true)
	} else {
		c.adcValue(^v, false)
	}
}

func (c *CPU) sbcImmediate() {
	is8 := c.accumulatorIs8()
	var v uint16
	if is8 {
		v = uint16(c.fetch8())
	} else {
		v = c.fetch16()
	}
	c.sbcValue(v, is8)
}

func (c *CPU) sbc(op operand) {
	is8 := c.accumulatorIs8()
	c.sbcValue(c.loadValue(op, is8), is8)
}

func (c *CPU) sbcIndexed(op operand) {
	c.indexedPenalty(op)
	c.sbc(op)
}

func (c *CPU) andImmediate() {
	is8 := c.accumulatorIs8()
	var v uint16
	if is8 {
		v = uint16(c.fetch8())
	} else {
		v = c.fetch16()
	}
	c.bitwise(v, is8, func(a, b uint16) uint16 { return a & b })
}

func (c *CPU) and(op operand) {
	is8 := c.accumulatorIs8()
	c.bitwise(c.loadValue(op, is8), is8, func(a, b uint16) uint16 { return a & b })
}

func (c *CPU) andIndexed(op operand) {
	c.indexedPenalty(op)
	c.and(op)
}

func (c *CPU) oraImmediate() {
	is8 := c.accumulatorIs8()
	var v uint16
	if is8 {
		v = uint16(c.fetch8())
	} else {
		v = c.fetch16()
	}
	c.bitwise(v, is8, func(a, b uint16) uint16 { return a | b })
}

func (c *CPU) ora(op operand) {
	is8 := c.accumulatorIs8()
	c.bitwise(c.loadValue(op, is8), is8, func(a, b uint16) uint16 { return a | b })
}

func (c *CPU) oraIndexed(op operand) {
	c.indexedPenalty(op)
	c.ora(op)
}

func (c *CPU) eorImmediate() {
	is8 := c.accumulatorIs8()
	var v uint16
	if is8 {
		v = uint16(c.fetch8())
	} else {
		v = c.fetch16()
	}
	c.bitwise(v, is8, func(a, b uint16) uint16 { return a ^ b })
}

func (c *CPU) eor(op operand) {
	is8 := c.accumulatorIs8()
	c.bitwise(c.loadValue(op, is8), is8, func(a, b uint16) uint16 { return a ^ b })
}

func (c *CPU) eorIndexed(op operand) {
	c.indexedPenalty(op)
	c.eor(op)
}

func (c *CPU) bitwise(v uint16, is8 bool, op func(a, b uint16) uint16) {
	if is8 {
		result := uint8(op(c.A, v))
		c.A = (c.A & 0xFF00) | uint16(result)
		c.setZN8(result)
	} else {
		c.A = op(c.A, v)
		c.setZN16(c.A)
	}
}

func (c *CPU) compare(reg uint16, v uint16, is8 bool) {
	if is8 {
		a := uint8(reg)
		b := uint8(v)
		c.Status.Carry = a >= b
		c.setZN8(a - b)
	} else {
		c.Status.Carry = reg >= v
		c.setZN16(reg - v)
	}
}

func (c *CPU) cmpImmediate() {
	is8 := c.accumulatorIs8()
	var v uint16
	if is8 {
		v = uint16(c.fetch8())
	} else {
		v = c.fetch16()
	}
	c.compare(c.A, v, is8)
}

func (c *CPU) cmp(op operand) {
	is8 := c.accumulatorIs8()
	c.compare(c.A, c.loadValue(op, is8), is8)
}

func (c *CPU) cmpIndexed(op operand) {
	c.indexedPenalty(op)
	c.cmp(op)
}

func (c *CPU) cpxImmediate() {
	is8 := c.indexIs8()
	var v uint16
	if is8 {
		v = uint16(c.fetch8())
	} else {
		v = c.fetch16()
	}
	c.compare(c.X, v, is8)
}

func (c *CPU) cpx(op operand) {
	is8 := c.indexIs8()
	c.compare(c.X, c.loadValue(op, is8), is8)
}

func (c *CPU) cpyImmediate() {
	is8 := c.indexIs8()
	var v uint16
	if is8 {
		v = uint16(c.fetch8())
	} else {
		v = c.fetch16()
	}
	c.compare(c.Y, v, is8)
}

func (c *CPU) cpy(op operand) {
	is8 := c.indexIs8()
	c.compare(c.Y, c.loadValue(op, is8), is8)
}

func (c *CPU) incDecAccum(delta int16) {
	is8 := c.accumulatorIs8()
	if is8 {
		result := uint8(c.A) + uint8(delta)
		c.A = (c.A & 0xFF00) | uint16(result)
		c.setZN8(result)
	} else {
		c.A += uint16(delta)
		c.setZN16(c.A)
	}
}

func (c *CPU) incDecMem(op operand, delta int16) {
	is8 := c.accumulatorIs8()
	v := c.loadValue(op, is8) + uint16(delta)
	if is8 {
		v &= 0xFF
		c.setZN8(uint8(v))
	} else {
		c.setZN16(v)
	}
	c.storeValue(op, v, is8)
}

func (c *CPU) incDecIndex(reg *uint16, delta int16) {
	is8 := c.indexIs8()
	if is8 {
		result := uint8(*reg) + uint8(delta)
		*reg = uint16(result)
		c.setZN8(result)
	} else {
		*reg += uint16(delta)
		c.setZN16(*reg)
	}
}

func (c *CPU) aslAccum() {
	is8 := c.accumulatorIs8()
	if is8 {
		v := uint8(c.A)
		c.Status.Carry = v&0x80 != 0
		v <<= 1
		c.A = (c.A & 0xFF00) | uint16(v)
		c.setZN8(v)
	} else {
		c.Status.Carry = c.A&0x8000 != 0
		c.A <<= 1
		c.setZN16(c.A)
	}
}

func (c *CPU) aslMem(op operand) {
	is8 := c.accumulatorIs8()
	v := c.loadValue(op, is8)
	if is8 {
		c.Status.Carry = v&0x80 != 0
		v = (v << 1) & 0xFF
		c.setZN8(uint8(v))
	} else {
		c.Status.Carry = v&0x8000 != 0
		v <<= 1
		c.setZN16(v)
	}
	c.storeValue(op, v, is8)
}

func (c *CPU) lsrAccum() {
	is8 := c.accumulatorIs8()
	if is8 {
		v := uint8(c.A)
		c.Status.Carry = v&1 != 0
		v >>= 1
		c.A = (c.A & 0xFF00) | uint16(v)
		c.setZN8(v)
	} else {
		c.Status.Carry = c.A&1 != 0
		c.A >>= 1
		c.setZN16(c.A)
	}
}

func (c *CPU) lsrMem(op operand) {
	is8 := c.accumulatorIs8()
	v := c.loadValue(op, is8)
	c.Status.Carry = v&1 != 0
	v >>= 1
	if is8 {
		c.setZN8(uint8(v))
	} else {
		c.setZN16(v)
	}
	c.storeValue(op, v, is8)
}

func (c *CPU) rolAccum() {
	is8 := c.accumulatorIs8()
	oldCarry := uint16(0)
	if c.Status.Carry {
		oldCarry = 1
	}
	if is8 {
		v := uint8(c.A)
		c.Status.Carry = v&0x80 != 0
		v = (v << 1) | uint8(oldCarry)
		c.A = (c.A & 0xFF00) | uint16(v)
		c.setZN8(v)
	} else {
		c.Status.Carry = c.A&0x8000 != 0
		c.A = (c.A << 1) | oldCarry
		c.setZN16(c.A)
	}
}

func (c *CPU) rolMem(op operand) {
	is8 := c.accumulatorIs8()
	oldCarry := uint16(0)
	if c.Status.Carry {
		oldCarry = 1
	}
	v := c.loadValue(op, is8)
	if is8 {
		c.Status.Carry = v&0x80 != 0
		v = ((v << 1) | oldCarry) & 0xFF
		c.setZN8(uint8(v))
	} else {
		c.Status.Carry = v&0x8000 != 0
		v = (v << 1) | oldCarry
		c.setZN16(v)
	}
	c.storeValue(op, v, is8)
}

func (c *CPU) rorAccum() {
	is8 := c.accumulatorIs8()
	var oldCarry uint16
	if c.Status.Carry {
		if is8 {
			oldCarry = 0x80
		} else {
			oldCarry = 0x8000
		}
	}
	if is8 {
		v := uint8(c.A)
		c.Status.Carry = v&1 != 0
		v = (v >> 1) | uint8(oldCarry)
		c.A = (c.A & 0xFF00) | uint16(v)
		c.setZN8(v)
	} else {
		c.Status.Carry = c.A&1 != 0
		c.A = (c.A >> 1) | oldCarry
		c.setZN16(c.A)
	}
}

func (c *CPU) rorMem(op operand) {
	is8 := c.accumulatorIs8()
	var oldCarry uint16
	if c.Status.Carry {
		if is8 {
			oldCarry = 0x80
		} else {
			oldCarry = 0x8000
		}
	}
	v := c.loadValue(op, is8)
	c.Status.Carry = v&1 != 0
	v = (v >> 1) | oldCarry
	if is8 {
		c.setZN8(uint8(v))
	} else {
		c.setZN16(v)
	}
	c.storeValue(op, v, is8)
}

func (c *CPU) bitTest(v uint16, is8 bool) {
	if is8 {
		a := uint8(c.A)
		result := a & uint8(v)
		c.Status.Zero = result == 0
		c.Status.Negative = v&0x80 != 0
		c.Status.Overflow = v&0x40 != 0
	} else {
		result := c.A & v
		c.Status.Zero = result == 0
		c.Status.Negative = v&0x8000 != 0
		c.Status.Overflow = v&0x4000 != 0
	}
}

func (c *CPU) bit(op operand) {
	is8 := c.accumulatorIs8()
	c.bitTest(c.loadValue(op, is8), is8)
}

func (c *CPU) bitIndexed(op operand) {
	c.indexedPenalty(op)
	c.bit(op)
}

func (c *CPU) bitImmediate() {
	// BIT #imm only affects Zero, not N/V (65C816 quirk).
	is8 := c.accumulatorIs8()
	var v uint16
	if is8 {
		v = uint16(c.fetch8())
		c.Status.Zero = uint8(c.A)&uint8(v) == 0
	} else {
		v = c.fetch16()
		c.Status.Zero = c.A&v == 0
	}
}

// blockMove implements MVN (dir=1) / MVP (dir=-1): transfers one byte
// from [X in srcBank] to [Y in destBank], decrements C by one, and
// repeats the opcode (by not advancing PC past it) until C underflows.
func (c *CPU) blockMove(dir int) {
	destBank := c.fetch8()
	srcBank := c.fetch8()
	c.DBR = destBank

	v := c.read8(clock.NewAddressU24(srcBank, c.X))
	c.write8(clock.NewAddressU24(destBank, c.Y), v)

	if dir > 0 {
		c.X++
		c.Y++
	} else {
		c.X--
		c.Y--
	}
	if c.indexIs8() {
		c.X &= 0xFF
		c.Y &= 0xFF
	}
	c.A--
	if c.A != 0xFFFF {
		c.PC -= 3
	}
}
