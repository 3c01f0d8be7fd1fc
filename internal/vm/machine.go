package vm

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Display receives a copy of the frame buffer whenever it changed.
type Display interface {
	RenderFrame(frame Frame) error
}

// Input is polled once per loop iteration for the keypad state and for a
// host side halt request, for example a closed window.
type Input interface {
	Keys() Keypad
	HaltRequested() bool
}

// Beeper is switched on while the sound timer is non-zero.
type Beeper interface {
	SetTone(on bool)
}

// Options configures a Machine. The zero value runs unthrottled with
// no display, no keys and no sound.
type Options struct {
	Display Display
	Input   Input
	Beeper  Beeper
	Logger  *log.Logger

	ClockHz      int    // instructions per second, 0 runs as fast as possible
	TimerDivisor int    // loop iterations per timer decrement, 0 selects DefaultTimerDivisor
	MaxCycles    uint64 // stop after this many loop iterations, 0 means no limit
	Seed         int64  // random source seed, 0 seeds from the clock
	Trace        bool   // log every executed instruction at debug level
}

// HaltReason tells why a run stopped.
type HaltReason int

// Halt reasons.
const (
	HaltNone HaltReason = iota
	HaltCancelled
	HaltRequested
	HaltZeroAddress
	HaltEndOfMemory
	HaltCycleLimit
	HaltFault
)

func (h HaltReason) String() string {
	switch h {
	case HaltCancelled:
		return "cancelled"
	case HaltRequested:
		return "halt requested"
	case HaltZeroAddress:
		return "program counter reached 0x000"
	case HaltEndOfMemory:
		return "program counter ran past the end of memory"
	case HaltCycleLimit:
		return "cycle limit reached"
	case HaltFault:
		return "fatal fault"
	default:
		return "running"
	}
}

// Report summarises a finished run.
type Report struct {
	State  State // machine state at the time the run stopped
	Cycles uint64
	Halt   HaltReason

	UnknownOpcodes  int
	StackUnderflows int
	StackOverflows  int
	LastFault       *Fault
}

// Faults returns the number of recoverable faults seen during the run.
func (r *Report) Faults() int {
	return r.UnknownOpcodes + r.StackUnderflows + r.StackOverflows
}

func (r *Report) record(f *Fault) {
	switch {
	case errors.Is(f, ErrUnknownOpcode):
		r.UnknownOpcodes++
	case errors.Is(f, ErrStackUnderflow):
		r.StackUnderflows++
	case errors.Is(f, ErrStackOverflow):
		r.StackOverflows++
	}
	r.LastFault = f
}

// Machine is an emulated CHIP-8 VM. A Machine may run several programs one
// after another but never two at the same time.
type Machine struct {
	opts   Options
	logger *log.Logger
	rnd    *rand.Rand
}

// NewMachine creates a new instance of an emulated CHIP-8 VM.
func NewMachine(opts Options) *Machine {
	logger := opts.Logger
	if logger == nil {
		cfg := log.DefaultConfig()
		cfg.Level = log.ErrorLevel
		logger = log.NewWithConfig(cfg)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Machine{
		opts:   opts,
		logger: logger,
		rnd:    rand.New(rand.NewSource(seed)),
	}
}

// Execute loads program at the program start address of a fresh machine and
// runs it until it halts. Cancelling ctx or a halt request of the input
// surface stops the run without an error. The returned report is non-nil
// whenever the program was loaded, including on a fatal fault.
func (m *Machine) Execute(ctx context.Context, program []byte) (*Report, error) {
	s := NewState()
	if err := s.Load(program); err != nil {
		return nil, err
	}
	m.logger.Debug("Program loaded",
		log.Int("size", len(program)),
		log.String("address", hex16(ProgramStart)))

	report := &Report{}
	tm := newTimers(m.opts.TimerDivisor)

	var ticker *time.Ticker
	if m.opts.ClockHz > 0 {
		ticker = time.NewTicker(time.Second / time.Duration(m.opts.ClockHz))
		defer ticker.Stop()
	}

	tone := false
	defer func() {
		if tone {
			m.opts.Beeper.SetTone(false)
		}
	}()

	for {
		if reason := m.haltReason(ctx, s, report.Cycles); reason != HaltNone {
			report.Halt = reason
			break
		}

		if err := m.step(s, report); err != nil {
			report.Halt = HaltFault
			report.State = *s
			return report, err
		}
		report.Cycles++

		tm.tick(s)
		tone = m.updateTone(s, tone)

		if s.dirty {
			if m.opts.Display != nil {
				if err := m.opts.Display.RenderFrame(s.Display); err != nil {
					report.Halt = HaltFault
					report.State = *s
					return report, fmt.Errorf("rendering frame: %w", err)
				}
			}
			s.dirty = false
		}

		if m.opts.Input != nil {
			s.Keys = m.opts.Input.Keys()
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
			case <-ticker.C:
			}
		}
	}

	m.logger.Debug("Machine halted",
		log.String("reason", report.Halt.String()),
		log.String("pc", hex16(s.PC)),
		log.Int("cycles", int(report.Cycles)))
	report.State = *s
	return report, nil
}

// haltReason checks the halt conditions at the top of a loop iteration.
func (m *Machine) haltReason(ctx context.Context, s *State, cycles uint64) HaltReason {
	switch {
	case ctx.Err() != nil:
		return HaltCancelled
	case m.opts.Input != nil && m.opts.Input.HaltRequested():
		return HaltRequested
	case s.PC == 0:
		return HaltZeroAddress
	case int(s.PC)+1 >= TotalMemory:
		return HaltEndOfMemory
	case m.opts.MaxCycles > 0 && cycles >= m.opts.MaxCycles:
		return HaltCycleLimit
	}
	return HaltNone
}

// step executes one instruction, or while blocked in Fx0A checks whether the
// awaited key arrived.
func (m *Machine) step(s *State, report *Report) error {
	if s.waiting {
		key, ok := s.Keys.First()
		if !ok {
			return nil
		}
		s.V[s.waitReg] = key
		s.waiting = false
		s.PC += 2
		return nil
	}

	ins, _ := Decode(s.Fetch())
	if m.opts.Trace {
		m.logger.Debug("exec",
			log.String("pc", hex16(s.PC)),
			log.String("opcode", fmt.Sprintf("%04X", ins.Word)),
			log.String("instr", ins.String()))
	}

	err := m.apply(s, ins)
	if err == nil {
		return nil
	}

	var fault *Fault
	if errors.As(err, &fault) && !fault.Fatal() {
		report.record(fault)
		m.logger.Warn("Recoverable fault",
			log.String("kind", fault.Err.Error()),
			log.String("pc", hex16(fault.PC)),
			log.String("opcode", fmt.Sprintf("%04X", fault.Opcode)))
		return nil
	}
	return err
}

// updateTone switches the beeper on sound timer transitions.
func (m *Machine) updateTone(s *State, tone bool) bool {
	if m.opts.Beeper == nil {
		return false
	}
	on := s.Sound > 0
	if on != tone {
		m.opts.Beeper.SetTone(on)
	}
	return on
}

func (m *Machine) randomByte() uint8 {
	return uint8(m.rnd.Intn(256))
}

func (m *Machine) fault(kind error, pc uint16, ins Instruction, detail string) *Fault {
	return &Fault{Err: kind, PC: pc, Opcode: ins.Word, Detail: detail}
}

func hex16(v uint16) string {
	return fmt.Sprintf("0x%04X", v)
}
