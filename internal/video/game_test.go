package video

import (
	"testing"

	"github.com/sres-go/gosres/internal/input"
	"github.com/sres-go/gosres/internal/ppu"
	"github.com/sres-go/gosres/internal/system"
)

func TestNewGameWiresBothControllerKeymaps(t *testing.T) {
	g := NewGame(system.New())

	if len(g.player1Keys) == 0 {
		t.Fatal("expected player 1 keymap to be populated")
	}
	if len(g.player2Keys) == 0 {
		t.Fatal("expected player 2 keymap to be populated")
	}

	seen := map[input.Button]bool{}
	for _, b := range g.player1Keys {
		seen[b] = true
	}
	for _, want := range []input.Button{
		input.ButtonUp, input.ButtonDown, input.ButtonLeft, input.ButtonRight,
		input.ButtonA, input.ButtonB, input.ButtonX, input.ButtonY,
		input.ButtonL, input.ButtonR, input.ButtonStart, input.ButtonSelect,
	} {
		if !seen[want] {
			t.Errorf("player 1 keymap missing a binding for %v", want)
		}
	}
}

func TestLayoutReportsNativeResolution(t *testing.T) {
	g := NewGame(system.New())
	w, h := g.Layout(1920, 1080)
	if w != ppu.ScreenWidth || h != ppu.ScreenHeight {
		t.Fatalf("expected native resolution %dx%d, got %dx%d", ppu.ScreenWidth, ppu.ScreenHeight, w, h)
	}
}

func TestUpdateRunsOneFrame(t *testing.T) {
	sys := system.New()
	g := NewGame(sys)
	before := sys.FrameCount()
	if err := g.Update(); err != nil {
		t.Fatalf("unexpected error from Update: %v", err)
	}
	if sys.FrameCount() != before+1 {
		t.Fatalf("expected frame count to advance by one, got %d -> %d", before, sys.FrameCount())
	}
}
