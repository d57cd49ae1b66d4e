package cpu

import (
	"github.com/sres-go/gosres/internal/clock"
	"github.com/sres-go/gosres/internal/debug"
)

// Step decodes and executes one instruction, servicing any pending
// interrupt first. It returns the number of internal (non-bus) cycles the
// instruction charged through tick (the c.cycles delta); bus reads and
// writes are not included, and the value is a cycle count, not
// master-clock ticks.
func (c *CPU) Step() uint64 {
	before := c.cycles
	if c.serviceInterrupts() {
		return c.cycles - before
	}
	if c.stopped {
		c.tick(1)
		return c.cycles - before
	}
	if c.waiting {
		if c.nmiPending || c.irqLine {
			c.waiting = false
		} else {
			c.tick(1)
			return c.cycles - before
		}
	}

	pc := c.pcAddr()
	opcode := c.fetch8()
	c.execute(opcode)

	if debug.Enabled() && c.sink != nil {
		c.sink.Publish(debug.Event{Kind: debug.CpuStep, CPU: &debug.CpuState{
			Instruction: clock.InstructionMeta{Address: pc},
			A:           c.A, X: c.X, Y: c.Y, S: c.S, D: c.D, DB: c.DBR,
			Status: c.Status, Emulation: c.Emulation,
		}})
	}
	return c.cycles - before
}

func (c *CPU) tick(n uint64) {
	for i := uint64(0); i < n; i++ {
		c.bus.CycleIO()
	}
	c.cycles += n
}

// execute dispatches a single opcode. Rather than a 256-entry literal
// table this switches on the full opcode byte, one case per implemented
// opcode, keeping every opcode entry readable next to its mnemonic.
func (c *CPU) execute(opcode uint8) {
	switch opcode {
	case 0xEA: // NOP
		c.tick(1)

	case 0x18: // CLC
		c.Status.Carry = false
	case 0x38: // SEC
		c.Status.Carry = true
	case 0x58: // CLI
		c.Status.IRQDisable = false
	case 0x78: // SEI
		c.Status.IRQDisable = true
	case 0xB8: // CLV
		c.Status.Overflow = false
	case 0xD8: // CLD
		c.Status.Decimal = false
	case 0xF8: // SED
		c.Status.Decimal = true

	case 0xC2: // REP #imm
		mask := c.fetch8()
		c.repSep(mask, false)
	case 0xE2: // SEP #imm
		mask := c.fetch8()
		c.repSep(mask, true)

	case 0xFB: // XCE
		e := c.Emulation
		c.Emulation = c.Status.Carry
		c.Status.Carry = e
		if c.Emulation {
			c.Status.AccumulatorWidth8 = true
			c.Status.IndexWidth8 = true
			c.X &= 0x00FF
			c.Y &= 0x00FF
			c.S = 0x0100 | (c.S & 0xFF)
		}

	case 0xAA: // TAX
		if c.indexIs8() {
			c.X = c.A & 0xFF
			c.setZN8(uint8(c.X))
		} else {
			c.X = c.A
			c.setZN16(c.X)
		}
	case 0xA8: // TAY
		if c.indexIs8() {
			c.Y = c.A & 0xFF
			c.setZN8(uint8(c.Y))
		} else {
			c.Y = c.A
			c.setZN16(c.Y)
		}
	case 0x8A: // TXA
		c.transferToA(c.X)
	case 0x98: // TYA
		c.transferToA(c.Y)
	case 0x9B: // TXY
		c.Y = c.X
		if c.indexIs8() {
			c.setZN8(uint8(c.Y))
		} else {
			c.setZN16(c.Y)
		}
	case 0xBB: // TYX
		c.X = c.Y
		if c.indexIs8() {
			c.setZN8(uint8(c.X))
		} else {
			c.setZN16(c.X)
		}
	case 0x5B: // TCD
		c.D = c.A
	case 0x7B: // TDC
		c.A = c.D
		c.setZN16(c.A)
	case 0x1B: // TCS
		c.S = c.A
		if c.Emulation {
			c.S = 0x0100 | (c.S & 0xFF)
		}
	case 0x3B: // TSC
		c.A = c.S
		c.setZN16(c.A)

	case 0x48: // PHA
		c.pushWidth(c.A, c.accumulatorIs8())
	case 0x68: // PLA
		c.A = c.pullWidth(c.accumulatorIs8(), c.A)
		if c.accumulatorIs8() {
			c.setZN8(uint8(c.A))
		} else {
			c.setZN16(c.A)
		}
	case 0xDA: // PHX
		c.pushWidth(c.X, c.indexIs8())
	case 0xFA: // PLX
		c.X = c.pullWidth(c.indexIs8(), c.X)
		if c.indexIs8() {
			c.setZN8(uint8(c.X))
		} else {
			c.setZN16(c.X)
		}
	case 0x5A: // PHY
		c.pushWidth(c.Y, c.indexIs8())
	case 0x7A: // PLY
		c.Y = c.pullWidth(c.indexIs8(), c.Y)
		if c.indexIs8() {
			c.setZN8(uint8(c.Y))
		} else {
			c.setZN16(c.Y)
		}
	case 0x08: // PHP
		c.push8(c.Status.ToByte())
	case 0x28: // PLP
		c.Status = clock.StatusFromByte(c.pop8())
		if c.Emulation {
			c.Status.AccumulatorWidth8 = true
			c.Status.IndexWidth8 = true
		}
	case 0x4B: // PHK
		c.push8(c.PBR)
	case 0x0B: // PHD
		c.push16(c.D)
	case 0x2B: // PLD
		c.D = c.pop16()
		c.setZN16(c.D)
	case 0x8B: // PHB
		c.push8(c.DBR)
	case 0xAB: // PLB
		c.DBR = c.pop8()
		c.setZN8(c.DBR)

	case 0x4C: // JMP absolute
		c.PC = c.fetch16()
	case 0x5C: // JMP absolute long
		c.PC = c.fetch16()
		c.PBR = c.fetch8()
	case 0x6C: // JMP (absolute)
		op := c.resolve(ModeAbsoluteIndirect)
		c.PC = op.addr.Offset
	case 0x7C: // JMP (absolute,X)
		op := c.resolve(ModeAbsoluteIndexedIndirect)
		c.PC = op.addr.Offset
	case 0xDC: // JMP [absolute]
		op := c.resolve(ModeAbsoluteIndirectLong)
		c.PC = op.addr.Offset
		c.PBR = op.addr.Bank
	case 0x20: // JSR absolute
		target := c.fetch16()
		c.push16(c.PC - 1)
		c.PC = target
	case 0x22: // JSR absolute long (JSL)
		targetOffset := c.fetch16()
		targetBank := c.fetch8()
		c.push8(c.PBR)
		c.push16(c.PC - 1)
		c.PC = targetOffset
		c.PBR = targetBank
	case 0xFC: // JSR (absolute,X)
		op := c.resolve(ModeAbsoluteIndexedIndirect)
		c.push16(c.PC - 1)
		c.PC = op.addr.Offset
	case 0x60: // RTS
		c.PC = c.pop16() + 1
	case 0x6B: // RTL
		c.PC = c.pop16() + 1
		c.PBR = c.pop8()
	case 0x40: // RTI
		c.Status = clock.StatusFromByte(c.pop8())
		if c.Emulation {
			c.Status.AccumulatorWidth8 = true
			c.Status.IndexWidth8 = true
			c.PC = c.pop16()
		} else {
			c.PC = c.pop16()
			c.PBR = c.pop8()
		}

	case 0x80: // BRA
		op := c.resolve(ModeProgramCounterRelative8)
		c.PC = op.addr.Offset
	case 0x82: // BRL
		op := c.resolve(ModeProgramCounterRelative16)
		c.PC = op.addr.Offset
	case 0x10: // BPL
		c.branch(!c.Status.Negative)
	case 0x30: // BMI
		c.branch(c.Status.Negative)
	case 0x50: // BVC
		c.branch(!c.Status.Overflow)
	case 0x70: // BVS
		c.branch(c.Status.Overflow)
	case 0x90: // BCC
		c.branch(!c.Status.Carry)
	case 0xB0: // BCS
		c.branch(c.Status.Carry)
	case 0xD0: // BNE
		c.branch(!c.Status.Zero)
	case 0xF0: // BEQ
		c.branch(c.Status.Zero)

	case 0xCB: // WAI
		c.waiting = true
	case 0xDB: // STP
		c.stopped = true
	case 0x00: // BRK
		c.enterInterrupt(vectorEmuIRQBRK, vectorNativeBRK, true)
	case 0x02: // COP
		c.enterInterrupt(vectorEmuCOP, vectorNativeCOP, true)

	case 0xA9: // LDA #imm
		c.ldaImmediate()
	case 0xA5: // LDA dp
		c.lda(c.resolve(ModeDirectPage))
	case 0xB5: // LDA dp,X
		c.lda(c.resolve(ModeDirectPageX))
	case 0xAD: // LDA abs
		c.lda(c.resolve(ModeAbsolute))
	case 0xBD: // LDA abs,X
		c.ldaIndexed(c.resolve(ModeAbsoluteIndexedX))
	case 0xB9: // LDA abs,Y
		c.ldaIndexed(c.resolve(ModeAbsoluteIndexedY))
	case 0xAF: // LDA long
		c.lda(c.resolve(ModeAbsoluteLong))
	case 0xBF: // LDA long,X
		c.lda(c.resolve(ModeAbsoluteLongIndexedX))
	case 0xB2: // LDA (dp)
		c.lda(c.resolve(ModeDirectIndirect))
	case 0xA7: // LDA [dp]
		c.lda(c.resolve(ModeDirectIndirectLong))
	case 0xA1: // LDA (dp,X)
		c.lda(c.resolve(ModeDirectIndexedIndirectX))
	case 0xB1: // LDA (dp),Y
		c.ldaIndexed(c.resolve(ModeDirectIndirectIndexedY))
	case 0xB7: // LDA [dp],Y
		c.lda(c.resolve(ModeDirectIndirectLongIndexedY))
	case 0xA3: // LDA sr,S
		c.lda(c.resolve(ModeStackRelative))
	case 0xB3: // LDA (sr,S),Y
		c.lda(c.resolve(ModeStackRelativeIndirectIndexedY))

	case 0x8D: // STA abs
		c.sta(c.resolve(ModeAbsolute))
	case 0x85: // STA dp
		c.sta(c.resolve(ModeDirectPage))
	case 0x95: // STA dp,X
		c.sta(c.resolve(ModeDirectPageX))
	case 0x9D: // STA abs,X
		c.sta(c.resolve(ModeAbsoluteIndexedX))
	case 0x99: // STA abs,Y
		c.sta(c.resolve(ModeAbsoluteIndexedY))
	case 0x8F: // STA long
		c.sta(c.resolve(ModeAbsoluteLong))
	case 0x9F: // STA long,X
		c.sta(c.resolve(ModeAbsoluteLongIndexedX))
	case 0x92: // STA (dp)
		c.sta(c.resolve(ModeDirectIndirect))
	case 0x91: // STA (dp),Y
		c.sta(c.resolve(ModeDirectIndirectIndexedY))
	case 0x9C: // STZ abs
		c.stz(c.resolve(ModeAbsolute))
	case 0x64: // STZ dp
		c.stz(c.resolve(ModeDirectPage))

	case 0xA2: // LDX #imm
		c.ldxImmediate()
	case 0xA6: // LDX dp
		c.ldx(c.resolve(ModeDirectPage))
	case 0xAE: // LDX abs
		c.ldx(c.resolve(ModeAbsolute))
	case 0xA0: // LDY #imm
		c.ldyImmediate()
	case 0xA4: // LDY dp
		c.ldy(c.resolve(ModeDirectPage))
	case 0xAC: // LDY abs
		c.ldy(c.resolve(ModeAbsolute))
	case 0x86: // STX dp
		c.stx(c.resolve(ModeDirectPage))
	case 0x8E: // STX abs
		c.stx(c.resolve(ModeAbsolute))
	case 0x84: // STY dp
		c.sty(c.resolve(ModeDirectPage))
	case 0x8C: // STY abs
		c.sty(c.resolve(ModeAbsolute))

	case 0x69: // ADC #imm
		c.adcImmediate()
	case 0x65: // ADC dp
		c.adc(c.resolve(ModeDirectPage))
	case 0x75: // ADC dp,X
		c.adc(c.resolve(ModeDirectPageX))
	case 0x6D: // ADC abs
		c.adc(c.resolve(ModeAbsolute))
	case 0x7D: // ADC abs,X
		c.adcIndexed(c.resolve(ModeAbsoluteIndexedX))
	case 0x79: // ADC abs,Y
		c.adcIndexed(c.resolve(ModeAbsoluteIndexedY))
	case 0x6F: // ADC long
		c.adc(c.resolve(ModeAbsoluteLong))
	case 0x7F: // ADC long,X
		c.adc(c.resolve(ModeAbsoluteLongIndexedX))
	case 0x72: // ADC (dp)
		c.adc(c.resolve(ModeDirectIndirect))
	case 0x67: // ADC [dp]
		c.adc(c.resolve(ModeDirectIndirectLong))
	case 0x61: // ADC (dp,X)
		c.adc(c.resolve(ModeDirectIndexedIndirectX))
	case 0x71: // ADC (dp),Y
		c.adcIndexed(c.resolve(ModeDirectIndirectIndexedY))
	case 0x77: // ADC [dp],Y
		c.adc(c.resolve(ModeDirectIndirectLongIndexedY))
	case 0x63: // ADC sr,S
		c.adc(c.resolve(ModeStackRelative))
	case 0x73: // ADC (sr,S),Y
		c.adc(c.resolve(ModeStackRelativeIndirectIndexedY))

	case 0xE9: // SBC #imm
		c.sbcImmediate()
	case 0xE5: // SBC dp
		c.sbc(c.resolve(ModeDirectPage))
	case 0xF5: // SBC dp,X
		c.sbc(c.resolve(ModeDirectPageX))
	case 0xED: // SBC abs
		c.sbc(c.resolve(ModeAbsolute))
	case 0xFD: // SBC abs,X
		c.sbcIndexed(c.resolve(ModeAbsoluteIndexedX))
	case 0xF9: // SBC abs,Y
		c.sbcIndexed(c.resolve(ModeAbsoluteIndexedY))
	case 0xEF: // SBC long
		c.sbc(c.resolve(ModeAbsoluteLong))
	case 0xFF: // SBC long,X
		c.sbc(c.resolve(ModeAbsoluteLongIndexedX))
	case 0xF2: // SBC (dp)
		c.sbc(c.resolve(ModeDirectIndirect))
	case 0xE7: // SBC [dp]
		c.sbc(c.resolve(ModeDirectIndirectLong))
	case 0xE1: // SBC (dp,X)
		c.sbc(c.resolve(ModeDirectIndexedIndirectX))
	case 0xF1: // SBC (dp),Y
		c.sbcIndexed(c.resolve(ModeDirectIndirectIndexedY))
	case 0xF7: // SBC [dp],Y
		c.sbc(c.resolve(ModeDirectIndirectLongIndexedY))
	case 0xE3: // SBC sr,S
		c.sbc(c.resolve(ModeStackRelative))
	case 0xF3: // SBC (sr,S),Y
		c.sbc(c.resolve(ModeStackRelativeIndirectIndexedY))

	case 0x29: // AND #imm
		c.andImmediate()
	case 0x25: // AND dp
		c.and(c.resolve(ModeDirectPage))
	case 0x35: // AND dp,X
		c.and(c.resolve(ModeDirectPageX))
	case 0x2D: // AND abs
		c.and(c.resolve(ModeAbsolute))
	case 0x3D: // AND abs,X
		c.andIndexed(c.resolve(ModeAbsoluteIndexedX))
	case 0x39: // AND abs,Y
		c.andIndexed(c.resolve(ModeAbsoluteIndexedY))
	case 0x2F: // AND long
		c.and(c.resolve(ModeAbsoluteLong))
	case 0x3F: // AND long,X
		c.and(c.resolve(ModeAbsoluteLongIndexedX))
	case 0x32: // AND (dp)
		c.and(c.resolve(ModeDirectIndirect))
	case 0x27: // AND [dp]
		c.and(c.resolve(ModeDirectIndirectLong))
	case 0x21: // AND (dp,X)
		c.and(c.resolve(ModeDirectIndexedIndirectX))
	case 0x31: // AND (dp),Y
		c.andIndexed(c.resolve(ModeDirectIndirectIndexedY))
	case 0x37: // AND [dp],Y
		c.and(c.resolve(ModeDirectIndirectLongIndexedY))
	case 0x23: // AND sr,S
		c.and(c.resolve(ModeStackRelative))
	case 0x33: // AND (sr,S),Y
		c.and(c.resolve(ModeStackRelativeIndirectIndexedY))

	case 0x09: // ORA #imm
		c.oraImmediate()
	case 0x05: // ORA dp
		c.ora(c.resolve(ModeDirectPage))
	case 0x15: // ORA dp,X
		c.ora(c.resolve(ModeDirectPageX))
	case 0x0D: // ORA abs
		c.ora(c.resolve(ModeAbsolute))
	case 0x1D: // ORA abs,X
		c.oraIndexed(c.resolve(ModeAbsoluteIndexedX))
	case 0x19: // ORA abs,Y
		c.oraIndexed(c.resolve(ModeAbsoluteIndexedY))
	case 0x0F: // ORA long
		c.ora(c.resolve(ModeAbsoluteLong))
	case 0x1F: // ORA long,X
		c.ora(c.resolve(ModeAbsoluteLongIndexedX))
	case 0x12: // ORA (dp)
		c.ora(c.resolve(ModeDirectIndirect))
	case 0x07: // ORA [dp]
		c.ora(c.resolve(ModeDirectIndirectLong))
	case 0x01: // ORA (dp,X)
		c.ora(c.resolve(ModeDirectIndexedIndirectX))
	case 0x11: // ORA (dp),Y
		c.oraIndexed(c.resolve(ModeDirectIndirectIndexedY))
	case 0x17: // ORA [dp],Y
		c.ora(c.resolve(ModeDirectIndirectLongIndexedY))
	case 0x03: // ORA sr,S
		c.ora(c.resolve(ModeStackRelative))
	case 0x13: // ORA (sr,S),Y
		c.ora(c.resolve(ModeStackRelativeIndirectIndexedY))

	case 0x49: // EOR #imm
		c.eorImmediate()
	case 0x45: // EOR dp
		c.eor(c.resolve(ModeDirectPage))
	case 0x55: // EOR dp,X
		c.eor(c.resolve(ModeDirectPageX))
	case 0x4D: // EOR abs
		c.eor(c.resolve(ModeAbsolute))
	case 0x5D: // EOR abs,X
		c.eorIndexed(c.resolve(ModeAbsoluteIndexedX))
	case 0x59: // EOR abs,Y
		c.eorIndexed(c.resolve(ModeAbsoluteIndexedY))
	case 0x4F: // EOR long
		c.eor(c.resolve(ModeAbsoluteLong))
	case 0x5F: // EOR long,X
		c.eor(c.resolve(ModeAbsoluteLongIndexedX))
	case 0x52: // EOR (dp)
		c.eor(c.resolve(ModeDirectIndirect))
	case 0x47: // EOR [dp]
		c.eor(c.resolve(ModeDirectIndirectLong))
	case 0x41: // EOR (dp,X)
		c.eor(c.resolve(ModeDirectIndexedIndirectX))
	case 0x51: // EOR (dp),Y
		c.eorIndexed(c.resolve(ModeDirectIndirectIndexedY))
	case 0x57: // EOR [dp],Y
		c.eor(c.resolve(ModeDirectIndirectLongIndexedY))
	case 0x43: // EOR sr,S
		c.eor(c.resolve(ModeStackRelative))
	case 0x53: // EOR (sr,S),Y
		c.eor(c.resolve(ModeStackRelativeIndirectIndexedY))

	case 0xC9: // CMP #imm
		c.cmpImmediate()
	case 0xC5: // CMP dp
		c.cmp(c.resolve(ModeDirectPage))
	case 0xD5: // CMP dp,X
		c.cmp(c.resolve(ModeDirectPageX))
	case 0xCD: // CMP abs
		c.cmp(c.resolve(ModeAbsolute))
	case 0xDD: // CMP abs,X
		c.cmpIndexed(c.resolve(ModeAbsoluteIndexedX))
	case 0xD9: // CMP abs,Y
		c.cmpIndexed(c.resolve(ModeAbsoluteIndexedY))
	case 0xCF: // CMP long
		c.cmp(c.resolve(ModeAbsoluteLong))
	case 0xDF: // CMP long,X
		c.cmp(c.resolve(ModeAbsoluteLongIndexedX))
	case 0xD2: // CMP (dp)
		c.cmp(c.resolve(ModeDirectIndirect))
	case 0xC7: // CMP [dp]
		c.cmp(c.resolve(ModeDirectIndirectLong))
	case 0xC1: // CMP (dp,X)
		c.cmp(c.resolve(ModeDirectIndexedIndirectX))
	case 0xD1: // CMP (dp),Y
		c.cmpIndexed(c.resolve(ModeDirectIndirectIndexedY))
	case 0xD7: // CMP [dp],Y
		c.cmp(c.resolve(ModeDirectIndirectLongIndexedY))
	case 0xC3: // CMP sr,S
		c.cmp(c.resolve(ModeStackRelative))
	case 0xD3: // CMP (sr,S),Y
		c.cmp(c.resolve(ModeStackRelativeIndirectIndexedY))

	case 0xE0: // CPX #imm
		c.cpxImmediate()
	case 0xE4: // CPX dp
		c.cpx(c.resolve(ModeDirectPage))
	case 0xEC: // CPX abs
		c.cpx(c.resolve(ModeAbsolute))
	case 0xC0: // CPY #imm
		c.cpyImmediate()
	case 0xC4: // CPY dp
		c.cpy(c.resolve(ModeDirectPage))
	case 0xCC: // CPY abs
		c.cpy(c.resolve(ModeAbsolute))

	case 0x1A: // INC A
		c.incDecAccum(1)
	case 0x3A: // DEC A
		c.incDecAccum(-1)
	case 0xE6: // INC dp
		c.incDecMem(c.resolve(ModeDirectPage), 1)
	case 0xF6: // INC dp,X
		c.incDecMem(c.resolve(ModeDirectPageX), 1)
	case 0xEE: // INC abs
		c.incDecMem(c.resolve(ModeAbsolute), 1)
	case 0xFE: // INC abs,X
		c.incDecMem(c.resolve(ModeAbsoluteIndexedX), 1)
	case 0xC6: // DEC dp
		c.incDecMem(c.resolve(ModeDirectPage), -1)
	case 0xD6: // DEC dp,X
		c.incDecMem(c.resolve(ModeDirectPageX), -1)
	case 0xCE: // DEC abs
		c.incDecMem(c.resolve(ModeAbsolute), -1)
	case 0xDE: // DEC abs,X
		c.incDecMem(c.resolve(ModeAbsoluteIndexedX), -1)
	case 0xE8: // INX
		c.incDecIndex(&c.X, 1)
	case 0xC8: // INY
		c.incDecIndex(&c.Y, 1)
	case 0xCA: // DEX
		c.incDecIndex(&c.X, -1)
	case 0x88: // DEY
		c.incDecIndex(&c.Y, -1)

	case 0x0A: // ASL A
		c.aslAccum()
	case 0x06: // ASL dp
		c.aslMem(c.resolve(ModeDirectPage))
	case 0x16: // ASL dp,X
		c.aslMem(c.resolve(ModeDirectPageX))
	case 0x0E: // ASL abs
		c.aslMem(c.resolve(ModeAbsolute))
	case 0x1E: // ASL abs,X
		c.aslMem(c.resolve(ModeAbsoluteIndexedX))
	case 0x4A: // LSR A
		c.lsrAccum()
	case 0x46: // LSR dp
		c.lsrMem(c.resolve(ModeDirectPage))
	case 0x56: // LSR dp,X
		c.lsrMem(c.resolve(ModeDirectPageX))
	case 0x4E: // LSR abs
		c.lsrMem(c.resolve(ModeAbsolute))
	case 0x5E: // LSR abs,X
		c.lsrMem(c.resolve(ModeAbsoluteIndexedX))
	case 0x2A: // ROL A
		c.rolAccum()
	case 0x26: // ROL dp
		c.rolMem(c.resolve(ModeDirectPage))
	case 0x36: // ROL dp,X
		c.rolMem(c.resolve(ModeDirectPageX))
	case 0x2E: // ROL abs
		c.rolMem(c.resolve(ModeAbsolute))
	case 0x3E: // ROL abs,X
		c.rolMem(c.resolve(ModeAbsoluteIndexedX))
	case 0x6A: // ROR A
		c.rorAccum()
	case 0x66: // ROR dp
		c.rorMem(c.resolve(ModeDirectPage))
	case 0x76: // ROR dp,X
		c.rorMem(c.resolve(ModeDirectPageX))
	case 0x6E: // ROR abs
		c.rorMem(c.resolve(ModeAbsolute))
	case 0x7E: // ROR abs,X
		c.rorMem(c.resolve(ModeAbsoluteIndexedX))

	case 0x24: // BIT dp
		c.bit(c.resolve(ModeDirectPage))
	case 0x34: // BIT dp,X
		c.bit(c.resolve(ModeDirectPageX))
	case 0x2C: // BIT abs
		c.bit(c.resolve(ModeAbsolute))
	case 0x3C: // BIT abs,X
		c.bitIndexed(c.resolve(ModeAbsoluteIndexedX))
	case 0x89: // BIT #imm
		c.bitImmediate()

	case 0x54: // MVN
		c.blockMove(1)
	case 0x44: // MVP
		c.blockMove(-1)

	default:
		// Undefined opcode: spec.md's decode-error policy applies — log and
		// halt CPU stepping until reset, rather than silently skipping.
		c.stopped = true
		if c.sink != nil {
			c.sink.PublishError("undefined opcode " + hexByte(opcode) + " at " + c.pcAddr().String())
		}
	}
}

func (c *CPU) branch(taken bool) {
	op := c.resolve(ModeProgramCounterRelative8)
	if taken {
		c.PC = op.addr.Offset
		c.tick(1)
	}
}

func hexByte(b uint8) string {
	const digits = "0123456789ABCDEF"
	return "$" + string([]byte{digits[b>>4], digits[b&0xF]})
}
