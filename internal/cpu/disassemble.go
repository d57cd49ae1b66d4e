package cpu

import (
	"fmt"

	"github.com/sres-go/gosres/internal/clock"
)

// mnemonics maps a subset of the opcodes this core implements to their
// assembly mnemonic, for disassembly only. Any opcode without an entry,
// including some that execute implements, falls back to "???" rather
// than being guessed at.
var mnemonics = map[uint8]string{
	0xEA: "NOP", 0x18: "CLC", 0x38: "SEC", 0x58: "CLI", 0x78: "SEI",
	0xB8: "CLV", 0xD8: "CLD", 0xF8: "SED", 0xC2: "REP", 0xE2: "SEP",
	0xFB: "XCE", 0xAA: "TAX", 0xA8: "TAY", 0x8A: "TXA", 0x98: "TYA",
	0x9B: "TXY", 0xBB: "TYX", 0x5B: "TCD", 0x7B: "TDC", 0x1B: "TCS",
	0x3B: "TSC", 0x48: "PHA", 0x68: "PLA", 0xDA: "PHX", 0xFA: "PLX",
	0x5A: "PHY", 0x7A: "PLY", 0x08: "PHP", 0x28: "PLP", 0x4B: "PHK",
	0x0B: "PHD", 0x2B: "PLD", 0x8B: "PHB", 0xAB: "PLB",
	0x4C: "JMP", 0x5C: "JMP", 0x6C: "JMP", 0x7C: "JMP", 0xDC: "JMP",
	0x20: "JSR", 0x22: "JSL", 0xFC: "JSR", 0x60: "RTS", 0x6B: "RTL",
	0x40: "RTI", 0x80: "BRA", 0x82: "BRL", 0x10: "BPL", 0x30: "BMI",
	0x50: "BVC", 0x70: "BVS", 0x90: "BCC", 0xB0: "BCS", 0xD0: "BNE",
	0xF0: "BEQ", 0xCB: "WAI", 0xDB: "STP", 0x00: "BRK", 0x02: "COP",
	0xA9: "LDA", 0xA5: "LDA", 0xB5: "LDA", 0xAD: "LDA", 0xBD: "LDA",
	0xB9: "LDA", 0xAF: "LDA", 0xBF: "LDA", 0xB2: "LDA", 0xA7: "LDA",
	0xA1: "LDA", 0xB1: "LDA", 0xB7: "LDA", 0xA3: "LDA", 0xB3: "LDA",
	0x8D: "STA", 0x85: "STA", 0x95: "STA", 0x9D: "STA", 0x99: "STA",
	0x8F: "STA", 0x9F: "STA", 0x92: "STA", 0x91: "STA",
	0x9C: "STZ", 0x64: "STZ",
	0xA2: "LDX", 0xA6: "LDX", 0xAE: "LDX", 0xA0: "LDY", 0xA4: "LDY",
	0xAC: "LDY", 0x86: "STX", 0x8E: "STX", 0x84: "STY", 0x8C: "STY",
	0x69: "ADC", 0x65: "ADC", 0x6D: "ADC", 0xE9: "SBC", 0xE5: "SBC",
	0xED: "SBC", 0x29: "AND", 0x25: "AND", 0x2D: "AND", 0x09: "ORA",
	0x05: "ORA", 0x0D: "ORA", 0x49: "EOR", 0x45: "EOR", 0x4D: "EOR",
	0xC9: "CMP", 0xC5: "CMP", 0xCD: "CMP", 0xE0: "CPX", 0xE4: "CPX",
	0xEC: "CPX", 0xC0: "CPY", 0xC4: "CPY", 0xCC: "CPY",
	0x1A: "INC", 0x3A: "DEC", 0xE6: "INC", 0xEE: "INC", 0xC6: "DEC",
	0xCE: "DEC", 0xE8: "INX", 0xC8: "INY", 0xCA: "DEX", 0x88: "DEY",
	0x0A: "ASL", 0x06: "ASL", 0x4A: "LSR", 0x46: "LSR", 0x2A: "ROL",
	0x26: "ROL", 0x6A: "ROR", 0x66: "ROR",
	0x24: "BIT", 0x2C: "BIT", 0x89: "BIT",
	0x54: "MVN", 0x44: "MVP",
}

// operandLength returns how many operand bytes follow opcode, for the
// subset of addressing-mode widths this core's decode table uses.
func operandLength(opcode uint8) int {
	switch opcode {
	case 0xC2, 0xE2, 0x89, 0x80, 0x10, 0x30, 0x50, 0x70, 0x90, 0xB0, 0xD0, 0xF0,
		0xA9, 0xA5, 0xB5, 0xA1, 0xB1, 0xB7, 0xA3, 0xB3, 0xB2, 0xA7,
		0xE9, 0xE5, 0x69, 0x65, 0x29, 0x25, 0x09, 0x05, 0x49, 0x45,
		0xC9, 0xC5, 0xE0, 0xE4, 0xC0, 0xC4, 0xA2, 0xA6, 0xA0, 0xA4,
		0x86, 0x84, 0xE6, 0xC6, 0x06, 0x46, 0x26, 0x66, 0x24:
		return 1
	case 0x22, 0x5C, 0xDC, 0x8F, 0x9F, 0xAF, 0xBF, 0x54, 0x44:
		return opLen3(opcode)
	case 0x82, 0x4C, 0x6C, 0x7C, 0x20, 0xFC, 0xAD, 0xBD, 0xB9, 0x8D,
		0x9D, 0x99, 0x9C, 0xAE, 0xAC, 0x8E, 0x8C, 0x6D, 0xED, 0x2D,
		0x0D, 0x4D, 0xCD, 0xEC, 0xCC, 0xEE, 0xCE:
		return 2
	default:
		return 0
	}
}

func opLen3(opcode uint8) int {
	if opcode == 0x54 || opcode == 0x44 {
		return 2 // MVN/MVP take two bank bytes, not a 3-byte address
	}
	return 3
}

// Disassemble produces a human-readable instruction record at addr
// using only Peek, never mutating CPU or bus state. Used by debuggers
// and trace tooling (spec.md §7).
func (c *CPU) Disassemble(addr clock.AddressU24) clock.InstructionMeta {
	opcode, _ := c.bus.Peek(addr)
	mnemonic, known := mnemonics[opcode]
	if !known {
		mnemonic = "???"
	}
	n := operandLength(opcode)
	var operand uint32
	for i := 0; i < n; i++ {
		b, _ := c.bus.Peek(addr.Add(uint16(i+1), clock.WrapBank))
		operand |= uint32(b) << (8 * i)
	}
	meta := clock.InstructionMeta{
		Address:   addr,
		Operation: mnemonic,
	}
	if n > 0 {
		meta.HasOperand = true
		meta.OperandStr = fmt.Sprintf("$%0*X", n*2, operand)
	}
	return meta
}
