package job

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"github.com/mastercactapus/plotarm/gcode"
	"github.com/mastercactapus/plotarm/machine"
	"github.com/mastercactapus/plotarm/motion"
)

// EmergencyConfig controls the pen lift sent after a cancelled job.
type EmergencyConfig struct {
	// SettleDelay is the pause after opening the port, while the controller
	// resets.
	SettleDelay time.Duration

	// LiftDelay is how long the lift is given before restoring absolute
	// mode.
	LiftDelay time.Duration

	LiftZ float64
	Feed  float64

	// OpenTimeout bounds opening the transport.
	OpenTimeout time.Duration
}

// DefaultEmergencyConfig returns the standard emergency lift.
func DefaultEmergencyConfig() EmergencyConfig {
	return EmergencyConfig{
		SettleDelay: 500 * time.Millisecond,
		LiftDelay:   1500 * time.Millisecond,
		LiftZ:       5,
		Feed:        800,
		OpenTimeout: 5 * time.Second,
	}
}

func renderBlocks(blocks []gcode.Block) string {
	var sb strings.Builder
	_, err := io.Copy(&sb, gcode.NewBuffer(&gcode.BlocksReader{Blocks: blocks}))
	if err != nil {
		// BlocksReader never fails
		panic(err)
	}
	return sb.String()
}

// liftSequence is the raw text written to lift the pen without waiting
// for acknowledgements.
func (cfg EmergencyConfig) liftSequence() (lift, restore string) {
	blocks := motion.Preamble()
	blocks = append(blocks,
		gcode.Block{{W: 'G', Arg: 1}, {W: 'Z', Arg: cfg.LiftZ}, {W: 'F', Arg: cfg.Feed}},
		motion.Barrier(),
	)
	return renderBlocks(blocks), renderBlocks(motion.Postamble())
}

// EmergencyStop opens a fresh connection and lifts the pen. Failures are
// logged and never returned.
func EmergencyStop(opener machine.Opener, cfg EmergencyConfig, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = DefaultEmergencyConfig().OpenTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rw, err := opener.Open(ctx)
	if err != nil {
		logger.Println("ERROR: could not lift pen: open:", err)
		return
	}
	defer func() {
		err := rw.Close()
		if err != nil {
			logger.Println("WARN: emergency close:", err)
		}
	}()

	lift, restore := cfg.liftSequence()
	time.Sleep(cfg.SettleDelay)
	_, err = io.WriteString(rw, lift)
	if err != nil {
		logger.Println("ERROR: could not lift pen:", err)
		return
	}
	time.Sleep(cfg.LiftDelay)
	_, err = io.WriteString(rw, restore)
	if err != nil {
		logger.Println("ERROR: could not restore absolute mode:", err)
		return
	}
	logger.Println("Pen lifted, arm safe.")
}
