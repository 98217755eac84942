package flappy

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/vovakirdan/tui-flappy/internal/continuation"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Visual characters for rendering
const (
	BodyChar      = '●'
	PipeChar      = '█'
	PipeCapTop    = '▄'
	PipeCapBottom = '▀'
	GroundChar    = '═'
	HeartChar     = '♥'
)

// headChar picks the actor's leading glyph from its tilt.
func headChar(rotation float64) rune {
	switch {
	case rotation <= -15:
		return '◥'
	case rotation >= 60:
		return '▼'
	case rotation >= 15:
		return '◢'
	default:
		return '▶'
	}
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	groundY := dst.Height() - 1
	dst.DrawHLine(0, groundY, dst.Width(), GroundChar, core.ColorGround)

	for _, p := range g.pipes.Pipes() {
		g.drawPipe(dst, p, groundY)
	}

	for _, h := range g.hearts.Hearts() {
		dst.SetColored(int(math.Floor(h.X)), int(math.Floor(h.Y)), HeartChar, core.ColorHeart)
	}

	g.drawActor(dst)

	hud := fmt.Sprintf(" Score: %d  %c %d  Lives: %d ", g.score, HeartChar, g.heartsCollected, g.machine.Counters().Lives)
	dst.DrawTextColored(2, 0, hud, core.ColorHUD)

	g.drawOverlay(dst)
}

func (g *Game) drawActor(dst *core.Screen) {
	color := core.ColorActor
	if g.Invulnerable() && (g.invulnerableUntil-g.tickCount)/6%2 == 0 {
		color = core.ColorActorGhost
	}
	cells := g.body.Rect().Cells()
	head := headChar(g.body.Rotation())
	for dy := 0; dy < cells.H; dy++ {
		for dx := 0; dx < cells.W; dx++ {
			ch := BodyChar
			if dx == cells.W-1 && dy == 0 {
				ch = head
			}
			dst.SetColored(cells.X+dx, cells.Y+dy, ch, color)
		}
	}
}

// drawPipe renders a single pipe. A row is solid when its center lies outside the gap.
func (g *Game) drawPipe(dst *core.Screen, p Pipe, groundY int) {
	x0 := int(math.Floor(p.X))
	x1 := int(math.Ceil(p.Right()))
	for y := 0; y < groundY; y++ {
		cy := float64(y) + 0.5
		var ch rune
		switch {
		case cy < p.GapTop():
			ch = PipeChar
			if cy+1 >= p.GapTop() {
				ch = PipeCapTop
			}
		case cy > p.GapBottom():
			ch = PipeChar
			if cy-1 <= p.GapBottom() {
				ch = PipeCapBottom
			}
		default:
			continue
		}
		color := core.ColorPipe
		if ch != PipeChar {
			color = core.ColorPipeCap
		}
		for x := x0; x < x1; x++ {
			dst.SetColored(x, y, ch, color)
		}
	}
}

func (g *Game) drawOverlay(dst *core.Screen) {
	if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
		return
	}

	switch g.machine.Phase() {
	case continuation.PhaseMandatoryAd:
		g.drawCenteredMessage(dst, "ADVERTISEMENT", "Your run continues after the ad")
	case continuation.PhaseReviving:
		switch g.machine.Stage() {
		case continuation.StageOffer:
			secs := (g.offerTicks + g.runtime.TickRate - 1) / core.Max(g.runtime.TickRate, 1)
			g.drawCenteredMessage(dst, fmt.Sprintf("CONTINUE? %ds", secs),
				fmt.Sprintf("Enter: watch ad  L: use life (%d)  Esc: give up", g.machine.Counters().Lives))
		case continuation.StageAwaitingAd:
			g.drawCenteredMessage(dst, "ADVERTISEMENT", "Watch to continue")
		case continuation.StageReady:
			g.drawCenteredMessage(dst, "READY", "Press Space to fly")
		}
	case continuation.PhaseTerminal:
		g.drawCenteredMessage(dst, "GAME OVER",
			fmt.Sprintf("Score: %d  Coins: %d  |  Press R to restart", g.score, g.Coins()))
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	titleLen := utf8.RuneCountInString(title)
	subtitleLen := utf8.RuneCountInString(subtitle)

	boxW := core.Max(titleLen, subtitleLen) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.DrawText(boxX+(boxW-titleLen)/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-subtitleLen)/2, boxY+3, subtitle)
}
