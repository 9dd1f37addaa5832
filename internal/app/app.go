//go:build ebiten

package app

import (
	"context"
	"errors"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"lifeboard/internal/autoplay"
	"lifeboard/internal/board"
	"lifeboard/internal/render"
	"lifeboard/internal/store"
	"lifeboard/internal/ui"
)

const hudLines = 2

// Game adapts a stored board to the ebiten.Game interface.
type Game struct {
	ctx     context.Context
	svc     Service
	id      store.ID
	board   board.Board
	painter *render.GridPainter
	hud     *ui.HUD
	timer   *autoplay.FixedStep

	onColor  color.Color
	offColor color.Color

	scale      int
	paused     bool
	tickOnce   bool
	generation int
	seed       int64
	message    string
}

// New constructs a Game showing the board b stored under id.
func New(ctx context.Context, svc Service, id store.ID, b board.Board, opts Options) *Game {
	opts = opts.withDefaults()
	return &Game{
		ctx:      ctx,
		svc:      svc,
		id:       id,
		board:    b,
		painter:  render.NewGridPainter(b.Cols(), b.Rows()),
		hud:      ui.NewHUD(b.Cols() * opts.Scale),
		timer:    autoplay.NewFixedStep(opts.Interval),
		onColor:  color.White,
		offColor: color.Black,
		scale:    opts.Scale,
		paused:   !opts.AutoStart,
		seed:     opts.Seed,
	}
}

// Reload replaces the shown board with the stored one.
func (g *Game) Reload() {
	b, err := g.svc.Get(g.ctx, g.id)
	if err != nil {
		g.fail(err)
		return
	}
	g.setBoard(g.id, b)
	g.generation = 0
}

// Reseed uploads a random board of the same size and switches to it.
func (g *Game) Reseed(seed int64) {
	g.seed = seed
	b, err := board.Random(g.board.Rows(), g.board.Cols(), 0.5, seed)
	if err != nil {
		g.fail(err)
		return
	}
	id, err := g.svc.Upload(g.ctx, b)
	if err != nil {
		g.fail(err)
		return
	}
	g.setBoard(id, b)
	g.generation = 0
	g.tickOnce = false
}

func (g *Game) setBoard(id store.ID, b board.Board) {
	g.id = id
	g.board = b
	g.message = ""
}

func (g *Game) fail(err error) {
	g.paused = true
	g.message = err.Error()
}

// Update handles per-frame logic and advances the board.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if err := g.ctx.Err(); err != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reload()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reseed(time.Now().UnixNano())
	}

	due := g.timer.ShouldStep()
	if (!g.paused && due) || g.tickOnce {
		g.tickOnce = false
		next, err := g.svc.AdvanceOne(g.ctx, g.id)
		if err != nil {
			g.fail(err)
		} else {
			g.board = next
			g.generation++
		}
	}

	g.hud.Update(ui.Status{
		ID:         g.id,
		Board:      g.board,
		Generation: g.generation,
		Paused:     g.paused,
		Message:    g.message,
	})
	return nil
}

// Draw renders the current board and the status strip.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.board, g.onColor, g.offColor, g.scale)
	g.hud.Draw(screen, g.board.Rows()*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.board.Cols() * g.scale, g.board.Rows()*g.scale + ui.HUDHeight(hudLines)
}

// Run opens a window playing the board and blocks until it is closed.
func Run(ctx context.Context, svc Service, id store.ID, b board.Board, opts Options) error {
	opts = opts.withDefaults()
	game := New(ctx, svc, id, b, opts)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("lifeboard - " + string(id))
	ebiten.SetTPS(opts.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
