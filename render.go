package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/rigidtris/common"
	"github.com/milk9111/rigidtris/game"
	"github.com/milk9111/rigidtris/physics"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

var (
	hudFace ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

	// whiteSubImage is the source texture for solid triangles.
	whiteSubImage = func() *ebiten.Image {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}()

	quadIndices = []uint16{0, 1, 2, 0, 2, 3}
)

// toScreen maps y-up world pixels onto the y-down screen.
func toScreen(x, y float64) (float64, float64) {
	return x, common.BaseHeight - y
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.palette.Background.Or(color.RGBA{R: 200, G: 200, B: 200, A: 255}))

	g.drawTerrain(screen)
	for _, p := range g.ctrl.Pieces() {
		g.drawPiece(screen, p)
	}
	g.drawFlashes(screen)
	if g.debug {
		g.drawDebug(screen)
	}
	g.drawHUD(screen)

	switch g.ctrl.State() {
	case game.Paused:
		g.pauseUI.ui.Draw(screen)
	case game.GameOver:
		g.gameOverUI.ui.Draw(screen)
	}
}

func (g *Game) drawTerrain(screen *ebiten.Image) {
	c := g.palette.Terrain.Or(colornames.Firebrick)
	pts := g.ctrl.Level().TerrainPoints
	for i := 0; i+1 < len(pts); i++ {
		ax, ay := toScreen(pts[i].X, pts[i].Y)
		bx, by := toScreen(pts[i+1].X, pts[i+1].Y)
		vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), 2, c, true)
	}
}

// drawPiece fills every square of the piece as a rotated quad.
func (g *Game) drawPiece(screen *ebiten.Image, p *game.Piece) {
	body := p.Body
	if body == nil || body.Destroyed() {
		return
	}
	fill := g.palette.Piece(p.Color.String(), p.Color.RGBA())
	outline := color.RGBA{R: 60, G: 60, B: 60, A: 200}
	pos := body.Position()
	angle := body.Angle()

	for _, s := range body.Shapes() {
		corners := [4][2]float64{
			{s.X - s.HalfW, s.Y - s.HalfH},
			{s.X + s.HalfW, s.Y - s.HalfH},
			{s.X + s.HalfW, s.Y + s.HalfH},
			{s.X - s.HalfW, s.Y + s.HalfH},
		}
		var pts [4][2]float32
		for i, c := range corners {
			wx, wy := common.LocalToWorld(pos.X, pos.Y, angle, c[0], c[1])
			sx, sy := toScreen(wx, wy)
			pts[i] = [2]float32{float32(sx), float32(sy)}
		}
		fillQuad(screen, pts, fill)
		for i := range pts {
			a, b := pts[i], pts[(i+1)%4]
			vector.StrokeLine(screen, a[0], a[1], b[0], b[1], 1, outline, true)
		}
	}
}

func fillQuad(screen *ebiten.Image, pts [4][2]float32, c color.Color) {
	r, gr, b, a := c.RGBA()
	vs := make([]ebiten.Vertex, 4)
	for i, p := range pts {
		vs[i] = ebiten.Vertex{
			DstX:   p[0],
			DstY:   p[1],
			SrcX:   1,
			SrcY:   1,
			ColorR: float32(r) / 0xffff,
			ColorG: float32(gr) / 0xffff,
			ColorB: float32(b) / 0xffff,
			ColorA: float32(a) / 0xffff,
		}
	}
	op := &ebiten.DrawTrianglesOptions{ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha}
	screen.DrawTriangles(vs, quadIndices, whiteSubImage, op)
}

func (g *Game) drawFlashes(screen *ebiten.Image) {
	base := g.palette.Flash.Or(color.NRGBA{R: 255, G: 255, B: 255, A: 200})
	size := float32(g.ctrl.Spec().SquareSize)
	for _, f := range g.flashes {
		r, gr, b, a := base.RGBA()
		fade := float64(f.frames) / flashFrames
		c := color.RGBA64{
			R: uint16(float64(r) * fade),
			G: uint16(float64(gr) * fade),
			B: uint16(float64(b) * fade),
			A: uint16(float64(a) * fade),
		}
		x, y := toScreen(f.pos.X, f.pos.Y)
		vector.FillRect(screen, float32(x)-size/2, float32(y)-size/2, size, size, c, false)
	}
}

// drawDebug shows the scan area, every scan row, all row hits, the
// points cleared this tick and the chipmunk shapes.
func (g *Game) drawDebug(screen *ebiten.Image) {
	area := g.ctrl.Level().ScanArea
	x0, y0 := toScreen(area.X, area.Y+area.H)
	vector.StrokeRect(screen, float32(x0), float32(y0), float32(area.W), float32(area.H), 1, colornames.Steelblue, false)

	scan := g.ctrl.LastScan()
	for _, y := range scan.Rows {
		ax, ay := toScreen(area.X, y)
		bx, by := toScreen(area.X+area.W, y)
		vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), 1, color.RGBA{R: 70, G: 130, B: 180, A: 90}, false)
	}
	for _, p := range scan.AllHits {
		x, y := toScreen(p.X, p.Y)
		vector.FillCircle(screen, float32(x), float32(y), 2, colornames.Orange, true)
	}
	for _, p := range scan.ClearedPoints {
		x, y := toScreen(p.X, p.Y)
		vector.FillCircle(screen, float32(x), float32(y), 4, colornames.Limegreen, true)
	}

	if space, ok := g.ctrl.World().(*physics.Space); ok {
		space.Draw(&chipmunkDrawer{screen: screen})
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	lvl := g.ctrl.Level()
	awake, sleeping := 0, 0
	for _, p := range g.ctrl.Pieces() {
		if p.Body.Awake() {
			awake++
		} else {
			sleeping++
		}
	}
	lines := []string{
		fmt.Sprintf("Level %d: %s", g.ctrl.LevelIndex()+1, lvl.Name),
		fmt.Sprintf("Score %d / %d", g.ctrl.Score(), lvl.TargetScore),
		fmt.Sprintf("Pieces %d (awake %d, sleeping %d)", g.ctrl.PieceCount(), awake, sleeping),
		fmt.Sprintf("FPS %.1f", ebiten.ActualFPS()),
	}
	if g.debug {
		st := g.ctrl.Stats()
		cnt := g.ctrl.Counters()
		frames, armed := cnt.PendingSpawn.Remaining()
		lines = append(lines,
			fmt.Sprintf("Tick %d  touching %d  spawn %d/%t", g.ctrl.Frame(), cnt.TouchingFrames, frames, armed),
			fmt.Sprintf("Locks %d  lines %d  fragments %d  fallen %d  anomalies %d", st.Locks, st.Lines, st.Fragments, st.Fallen, st.Anomalies),
		)
	}

	c := g.palette.HUD.Or(color.RGBA{R: 20, G: 20, B: 20, A: 255})
	for i, line := range lines {
		op := &ebtext.DrawOptions{}
		op.GeoM.Translate(12, 12+float64(i)*16)
		op.ColorScale.ScaleWithColor(c)
		ebtext.Draw(screen, line, hudFace, op)
	}
}
