// Package race implements the chase animation: a chaser advancing every tick
// toward a player that only moves on correct keystrokes.
package race

// state is the animator lifecycle: idle until started, then running until
// the chaser reaches the player.
type state int

const (
	idle state = iota
	running
	caught
)

// Config holds the race constants.
type Config struct {
	PlayerStart float64
	ChaserStart float64
	PlayerStep  float64
	ChaserStep  float64
}

// DefaultConfig returns the standard race constants.
func DefaultConfig() Config {
	return Config{
		PlayerStart: 40,
		ChaserStart: 0,
		PlayerStep:  1,
		ChaserStep:  0.05,
	}
}

// Race tracks player and chaser positions on a one-dimensional track.
type Race struct {
	cfg    Config
	player float64
	chaser float64
	state  state
}

// New returns an idle race at the configured start positions.
func New(cfg Config) *Race {
	return &Race{
		cfg:    cfg,
		player: cfg.PlayerStart,
		chaser: cfg.ChaserStart,
	}
}

// Start moves an idle race to running.
func (r *Race) Start() {
	if r.state == idle {
		r.state = running
	}
}

// Tick advances the chaser by one step. It returns true while another tick
// should be scheduled and false once the race is over or not running.
func (r *Race) Tick() bool {
	if r.state != running {
		return false
	}
	r.chaser += r.cfg.ChaserStep
	if r.chaser >= r.player {
		r.state = caught
		return false
	}
	return true
}

// AdvancePlayer moves the player one step ahead.
func (r *Race) AdvancePlayer() {
	if r.state != running {
		return
	}
	r.player += r.cfg.PlayerStep
}

// Player returns the player position.
func (r *Race) Player() float64 { return r.player }

// Chaser returns the chaser position.
func (r *Race) Chaser() float64 { return r.chaser }

// GameOver reports whether the chaser caught the player.
func (r *Race) GameOver() bool { return r.state == caught }
