// Package video adapts a running system.System to an Ebitengine window:
// framebuffer blit, keyboard-to-controller input, and a streamed audio
// player. It is a thin presentation layer over the core — spec.md §6
// defines the framebuffer/audio/controller contract this package
// consumes, not anything specific to a window toolkit.
package video

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/sres-go/gosres/internal/input"
	"github.com/sres-go/gosres/internal/ppu"
	"github.com/sres-go/gosres/internal/system"
)

// sampleRate matches the APU's documented 32 kHz DAC rate (spec.md §6).
const sampleRate = 32000

// Game implements ebiten.Game over a *system.System, one RunFrame per
// Update call — matching the teacher's EbitengineGame shape of "poll
// input, step the emulator, let Draw blit whatever RunFrame produced."
type Game struct {
	Sys *system.System

	frameImage *ebiten.Image
	audioCtx   *audio.Context
	audioPlyr  *audio.Player

	player1Keys map[ebiten.Key]input.Button
	player2Keys map[ebiten.Key]input.Button
}

// NewGame wires a Game around sys and starts its audio player.
func NewGame(sys *system.System) *Game {
	g := &Game{
		Sys:        sys,
		frameImage: ebiten.NewImage(ppu.ScreenWidth, ppu.ScreenHeight),
		audioCtx:   audio.NewContext(sampleRate),
		player1Keys: map[ebiten.Key]input.Button{
			ebiten.KeyArrowUp:    input.ButtonUp,
			ebiten.KeyArrowDown:  input.ButtonDown,
			ebiten.KeyArrowLeft:  input.ButtonLeft,
			ebiten.KeyArrowRight: input.ButtonRight,
			ebiten.KeyW:          input.ButtonUp,
			ebiten.KeyS:          input.ButtonDown,
			ebiten.KeyA:          input.ButtonLeft,
			ebiten.KeyD:          input.ButtonRight,
			ebiten.KeyK:          input.ButtonA,
			ebiten.KeyJ:          input.ButtonB,
			ebiten.KeyI:          input.ButtonX,
			ebiten.KeyU:          input.ButtonY,
			ebiten.KeyQ:          input.ButtonL,
			ebiten.KeyE:          input.ButtonR,
			ebiten.KeyEnter:      input.ButtonStart,
			ebiten.KeySpace:      input.ButtonSelect,
		},
		player2Keys: map[ebiten.Key]input.Button{
			ebiten.Key1: input.ButtonUp,
			ebiten.Key2: input.ButtonDown,
			ebiten.Key3: input.ButtonLeft,
			ebiten.Key4: input.ButtonRight,
			ebiten.Key5: input.ButtonA,
			ebiten.Key6: input.ButtonB,
			ebiten.Key7: input.ButtonStart,
			ebiten.Key8: input.ButtonSelect,
		},
	}

	stream := newAudioStream(sys)
	player, err := g.audioCtx.NewPlayer(stream)
	if err == nil {
		g.audioPlyr = player
		g.audioPlyr.Play()
	}
	return g
}

// Update polls keyboard input onto controllers 1 and 2 and runs one frame.
func (g *Game) Update() error {
	for key, button := range g.player1Keys {
		if inpututil.IsKeyJustPressed(key) {
			g.Sys.SetButton(0, button, true)
		} else if inpututil.IsKeyJustReleased(key) {
			g.Sys.SetButton(0, button, false)
		}
	}
	for key, button := range g.player2Keys {
		if inpututil.IsKeyJustPressed(key) {
			g.Sys.SetButton(1, button, true)
		} else if inpututil.IsKeyJustReleased(key) {
			g.Sys.SetButton(1, button, false)
		}
	}
	g.Sys.RunFrame()
	return nil
}

// Draw blits the PPU's current framebuffer, scaled to fill the window.
func (g *Game) Draw(screen *ebiten.Image) {
	fb := g.Sys.FrameBuffer()
	g.frameImage.ReplacePixels(fb.Pix)

	screen.Fill(color.RGBA{A: 255})

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	scaleX := float64(sw) / float64(ppu.ScreenWidth)
	scaleY := float64(sh) / float64(ppu.ScreenHeight)
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(
		(float64(sw)-float64(ppu.ScreenWidth)*scale)/2,
		(float64(sh)-float64(ppu.ScreenHeight)*scale)/2,
	)
	screen.DrawImage(g.frameImage, op)
}

// Layout reports the emulated screen's native resolution; Draw handles
// scaling to whatever window size Ebitengine actually gives it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.ScreenWidth, ppu.ScreenHeight
}
