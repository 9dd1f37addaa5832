//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	panelPadding = 6
	lineHeight   = 16
	baseline     = 12
)

// HUDHeight is the pixel height of a strip with n lines.
func HUDHeight(lines int) int {
	if lines < 1 {
		lines = 1
	}
	return 2*panelPadding + lines*lineHeight
}

// HUD renders the status strip below the board.
type HUD struct {
	width int
	panel *ebiten.Image
	lines []string
}

// NewHUD constructs a HUD for a strip of the given pixel width.
func NewHUD(width int) *HUD {
	if width < 1 {
		width = 1
	}
	return &HUD{width: width}
}

// Update caches the lines to draw.
func (h *HUD) Update(s Status) {
	if h == nil {
		return
	}
	h.lines = s.Lines()
}

// Draw paints the strip at offsetY.
func (h *HUD) Draw(screen *ebiten.Image, offsetY int) {
	if h == nil {
		return
	}
	height := HUDHeight(len(h.lines))
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	face := basicfont.Face7x13
	for i, line := range h.lines {
		y := panelPadding + baseline + i*lineHeight
		text.Draw(h.panel, line, face, panelPadding, y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, float64(offsetY))
	screen.DrawImage(h.panel, op)
}
