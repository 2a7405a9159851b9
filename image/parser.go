// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package image

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/ternvm/cpu"
	"github.com/ezrec/ternvm/trit"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Parser is a single pass loader for memory image text.
type Parser struct {
	Verbose bool    // If set, verbosely logs the parser actions.
	Entries []Entry // Entries generated by the last Parse.

	predefine map[string]string // Predefines
	Equate    map[string]string // Map of equates.

	org int64
}

// Predefine defines a new equate or redefines an existing equate.
func (p *Parser) Predefine(equ string, value string) {
	if p.predefine == nil {
		p.predefine = map[string]string{equ: value}
	} else {
		p.predefine[equ] = value
	}
}

// mnemonicMap maps instruction names to opcode groups.
var mnemonicMap = map[string]cpu.Opcode{}

func init() {
	for group := range cpu.Opcode(cpu.OPCODE_COUNT) {
		mnemonicMap[group.String()] = group
	}
}

// valueOf returns the value of a simple word. A '%' prefix introduces a
// trit literal, most significant trit first.
func (p *Parser) valueOf(word string) (value int64, err error) {
	if strings.HasPrefix(word, "%") {
		var w trit.Word
		w, err = trit.Parse(word[1:])
		if err != nil {
			err = ErrParseNumber(word)
			return
		}
		value = w.Int64()
		return
	}

	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
	}
	return
}

// registerOf returns the register index of an 'rN' operand.
func (p *Parser) registerOf(word string) (index int, err error) {
	if len(word) < 2 || word[0] != 'r' {
		err = ErrParseRegister(word)
		return
	}
	index, err = strconv.Atoi(word[1:])
	if err != nil || index < 0 || index >= cpu.REG_COUNT {
		err = ErrParseRegister(word)
	}
	return
}

// parenEval does load-time $(...) evaluations
func (p *Parser) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range p.Equate {
		value64, _err := p.valueOf(str)
		if _err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands a single line into words: $() evaluation, separator
// normalization and equate substitution.
func (p *Parser) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	p.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := p.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	line = strings.ReplaceAll(line, ",", " ")
	line = strings.ReplaceAll(line, "\t", " ")
	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := p.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		p.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	// Check for equate substitution
	for n, word := range words {
		equate, ok := p.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// place appends one word at the current placement address.
func (p *Parser) place(value int64, lineno int) (err error) {
	w, err := trit.FromInt64(value)
	if err != nil {
		return
	}
	p.Entries = append(p.Entries, Entry{LineNo: lineno, Addr: p.org, Word: w})
	p.org++
	return
}

// parseInst encodes one instruction word. Operand shapes mirror the
// disassembly forms of cpu.Inst.
func (p *Parser) parseInst(op cpu.Opcode, args []string, lineno int) (err error) {
	var word trit.Word
	var rd, rs1, rs2 int
	var imm int64

	switch op {
	case cpu.OP_NOP, cpu.OP_HALT:
		if len(args) != 0 {
			err = ErrOperandCount
			return
		}
		word, err = cpu.EncodeR(op, 0, 0, 0)

	case cpu.OP_ADD, cpu.OP_SUB, cpu.OP_MUL, cpu.OP_CMP, cpu.OP_TMIN, cpu.OP_TMAX:
		if len(args) != 3 {
			err = ErrOperandCount
			return
		}
		if rd, err = p.registerOf(args[0]); err != nil {
			return
		}
		if rs1, err = p.registerOf(args[1]); err != nil {
			return
		}
		if rs2, err = p.registerOf(args[2]); err != nil {
			return
		}
		word, err = cpu.EncodeR(op, rd, rs1, rs2)

	case cpu.OP_NEG:
		if len(args) != 2 {
			err = ErrOperandCount
			return
		}
		if rd, err = p.registerOf(args[0]); err != nil {
			return
		}
		if rs1, err = p.registerOf(args[1]); err != nil {
			return
		}
		word, err = cpu.EncodeR(op, rd, rs1, 0)

	case cpu.OP_ADDI, cpu.OP_LOAD, cpu.OP_STORE, cpu.OP_SHLI, cpu.OP_SHRI:
		if len(args) != 3 {
			err = ErrOperandCount
			return
		}
		if rd, err = p.registerOf(args[0]); err != nil {
			return
		}
		if rs1, err = p.registerOf(args[1]); err != nil {
			return
		}
		if imm, err = p.valueOf(args[2]); err != nil {
			return
		}
		word, err = cpu.EncodeI(op, rd, rs1, imm)

	case cpu.OP_LUI, cpu.OP_JAL:
		if len(args) != 2 {
			err = ErrOperandCount
			return
		}
		if rd, err = p.registerOf(args[0]); err != nil {
			return
		}
		if imm, err = p.valueOf(args[1]); err != nil {
			return
		}
		word, err = cpu.EncodeI(op, rd, 0, imm)

	case cpu.OP_JUMP, cpu.OP_BRN, cpu.OP_BRZ, cpu.OP_BRP:
		if len(args) != 2 {
			err = ErrOperandCount
			return
		}
		if rs1, err = p.registerOf(args[0]); err != nil {
			return
		}
		if imm, err = p.valueOf(args[1]); err != nil {
			return
		}
		word, err = cpu.EncodeI(op, 0, rs1, imm)
	}
	if err != nil {
		return
	}

	p.Entries = append(p.Entries, Entry{LineNo: lineno, Addr: p.org, Word: word})
	p.org++
	return
}

// parseWords evaluates the words in a line of image text.
func (p *Parser) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	// .org ADDRESS
	if words[0] == ".org" {
		if len(words) != 2 {
			err = ErrOrgSyntax
			return
		}
		p.org, err = p.valueOf(words[1])
		return
	}

	op, ok := mnemonicMap[words[0]]
	if ok {
		return p.parseInst(op, words[1:], lineno)
	}

	// Bare values place one word each.
	for _, word := range words {
		var value int64
		value, err = p.valueOf(word)
		if err != nil {
			return
		}
		err = p.place(value, lineno)
		if err != nil {
			return
		}
	}
	return
}

// Parse parses an input stream into an Image.
func (p *Parser) Parse(input io.Reader) (img *Image, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	p.Entries = p.Entries[:0]
	p.org = 0
	p.Equate = maps.Clone(sysEquate)
	for attr, val := range p.predefine {
		p.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if p.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = p.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = p.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	img = &Image{
		Entries: slices.Clone(p.Entries),
	}

	return
}
