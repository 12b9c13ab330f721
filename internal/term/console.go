package term

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/gliderlabs/ssh"

	server "pet-rescue/server"
	"pet-rescue/server/internal/world"
)

const refreshInterval = time.Second / 4

const (
	enableAltScreen  = "\x1b[?1049h"
	disableAltScreen = "\x1b[?1049l"
	hideCursor       = "\x1b[?25l"
	showCursor       = "\x1b[?25h"
	cursorHome       = "\x1b[H"
	clearScreen      = "\x1b[2J"
)

// Console is a read-only SSH spectator surface: anyone who connects sees a
// live ASCII view of the running rounds. It never injects input into a
// round.
type Console struct {
	addr    string
	hostKey string
	hub     *server.Hub
}

// NewConsole creates a spectator console bound to the given address. An
// empty hostKey lets the library generate an ephemeral key.
func NewConsole(addr, hostKey string, hub *server.Hub) *Console {
	return &Console{addr: addr, hostKey: hostKey, hub: hub}
}

// Start listens for SSH connections until the listener fails.
func (c *Console) Start() error {
	srv := &ssh.Server{
		Addr: c.addr,
		Handler: func(sess ssh.Session) {
			c.handleSession(sess)
		},
	}
	if c.hostKey != "" {
		if err := srv.SetOption(ssh.HostKeyFile(c.hostKey)); err != nil {
			return fmt.Errorf("set host key: %w", err)
		}
	}
	log.Printf("spectator console listening on %s", c.addr)
	return srv.ListenAndServe()
}

func (c *Console) handleSession(sess ssh.Session) {
	_, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}
	go func() {
		// Drain resize events; the view is fixed-size.
		for range winCh {
		}
	}()

	io.WriteString(sess, enableAltScreen)
	io.WriteString(sess, hideCursor)
	io.WriteString(sess, clearScreen)
	defer func() {
		io.WriteString(sess, showCursor)
		io.WriteString(sess, disableAltScreen)
	}()

	quit := make(chan struct{})
	next := make(chan struct{}, 1)
	go func() {
		buf := make([]byte, 16)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				close(quit)
				return
			}
			for _, b := range buf[:n] {
				switch b {
				case 'q', 'Q', 3: // Ctrl-C
					close(quit)
					return
				case 'n', 'N', '\t':
					select {
					case next <- struct{}{}:
					default:
					}
				}
			}
		}
	}()

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	selected := 0
	for {
		select {
		case <-quit:
			return
		case <-next:
			selected++
		case <-ticker.C:
			snapshots := c.hub.SpectatorSnapshots()
			io.WriteString(sess, cursorHome)
			if len(snapshots) == 0 {
				io.WriteString(sess, clearScreen+"no live rounds  (q to quit)\r\n")
				continue
			}
			if selected >= len(snapshots) {
				selected = 0
			}
			io.WriteString(sess, renderSnapshot(snapshots[selected], selected, len(snapshots)))
		}
	}
}

// renderSnapshot draws one round's header and visible tile window.
func renderSnapshot(snap world.Snapshot, index, total int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "round %s  [%d/%d]  outcome=%s  elapsed=%.0fs  remaining=%.0fs  score=%d\x1b[K\r\n",
		snap.SessionID, index+1, total, snap.Outcome, snap.Elapsed, snap.Remaining, snap.Score)
	fmt.Fprintf(&b, "rescued %d/%d  paused=%v  (n: next round, q: quit)\x1b[K\r\n\r\n",
		len(snap.Player.Rescued), len(snap.Pets), snap.Paused)

	window := snap.Tiles
	rows := make([][]byte, window.Height)
	for y := 0; y < window.Height; y++ {
		rows[y] = make([]byte, window.Width)
		for x := 0; x < window.Width; x++ {
			rows[y][x] = tileGlyph(window.Types[y][x])
		}
	}

	tileSize := window.TileSize
	for _, pet := range snap.Pets {
		if pet.State == "rescued" {
			continue
		}
		plot(rows, window, pet.Pos, tileSize, speciesGlyph(pet.Species))
	}
	plot(rows, window, snap.Player.Pos, tileSize, '@')

	for _, row := range rows {
		b.Write(row)
		b.WriteString("\x1b[K\r\n")
	}

	for _, hint := range snap.Hints {
		if hint.Fired {
			fmt.Fprintf(&b, "hint: %s\x1b[K\r\n", hint.MessageKey)
		}
	}
	return b.String()
}

func plot(rows [][]byte, window world.TileWindow, pos world.Vec2, tileSize float64, glyph byte) {
	if tileSize <= 0 {
		return
	}
	x := int(pos.X/tileSize) - window.X
	y := int(pos.Y/tileSize) - window.Y
	if y < 0 || y >= len(rows) || x < 0 || x >= len(rows[y]) {
		return
	}
	rows[y][x] = glyph
}

func tileGlyph(tileType string) byte {
	switch tileType {
	case "grass":
		return '.'
	case "road":
		return '='
	case "sand":
		return ','
	case "flower":
		return '*'
	case "water":
		return '~'
	case "tree":
		return 'T'
	case "wall":
		return '#'
	default:
		return ' '
	}
}

func speciesGlyph(species string) byte {
	if species == "" {
		return '?'
	}
	return species[0]
}
