package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/chess-recap/internal/assets"
	"github.com/park285/chess-recap/internal/assets/fonts"
	"github.com/park285/chess-recap/internal/geom"
)

// Arrow colors, alpha-blended so overlapping arrows accumulate.
var (
	ArrowGreen = color.NRGBA{G: 255, A: 100}
	ArrowBlue  = color.NRGBA{B: 255, A: 100}
	ArrowRed   = color.NRGBA{R: 255, A: 100}
)

// NAG is a move-quality annotation glyph.
type NAG string

const (
	NAGBlunder    NAG = "blunder"
	NAGMistake    NAG = "mistake"
	NAGInaccuracy NAG = "inaccuracy"
)

func (n NAG) valid() bool {
	switch n {
	case NAGBlunder, NAGMistake, NAGInaccuracy:
		return true
	}
	return false
}

func (n NAG) glyph() (string, color.NRGBA) {
	switch n {
	case NAGBlunder:
		return "??", color.NRGBA{R: 0xca, G: 0x34, B: 0x31, A: 0xff}
	case NAGMistake:
		return "?", color.NRGBA{R: 0xe6, G: 0x9d, A: 0xff}
	default:
		return "?!", color.NRGBA{R: 0x56, G: 0xb4, B: 0xe9, A: 0xff}
	}
}

// Board renders one position as an RGBA raster. The square-fill images
// are memoized and invalidated when the size or the theme changes; piece
// rasters live in the shared asset cache.
type Board struct {
	size       int
	sq         int
	reverse    bool
	theme      BoardTheme
	pieceTheme PieceTheme
	cache      *assets.Cache
	fills      map[bool]*image.RGBA
	position   *nchess.Board
	canvas     *image.RGBA
}

// NewBoard builds a board renderer and draws the given position. The size
// is rounded down to a multiple of 8. squareColors may be nil (brown
// theme), a BoardTheme, or a legacy two-entry color map.
func NewBoard(size int, position *nchess.Board, reverse bool, squareColors any, pieceTheme PieceTheme, cache *assets.Cache) (*Board, error) {
	if cache == nil {
		cache = assets.NewCache()
	}
	b := &Board{
		reverse: reverse,
		cache:   cache,
		fills:   map[bool]*image.RGBA{},
		theme:   BoardThemeBrown,
	}
	b.setSize(size)

	if squareColors != nil {
		if err := b.SetSquareColors(squareColors); err != nil {
			return nil, err
		}
	}
	if pieceTheme == "" {
		pieceTheme = PieceThemeAlpha
	}
	if err := b.SetPieceTheme(pieceTheme); err != nil {
		return nil, err
	}
	if err := b.SetPosition(position); err != nil {
		return nil, err
	}
	return b, nil
}

// Size returns the board size in pixels.
func (b *Board) Size() int { return b.size }

// SquareSize returns the size of one square in pixels.
func (b *Board) SquareSize() int { return b.sq }

func (b *Board) setSize(px int) {
	b.size = px / 8 * 8
	b.sq = b.size / 8
	b.fills = map[bool]*image.RGBA{}
}

// SetSize changes the board size and redraws the current position.
func (b *Board) SetSize(px int) {
	b.setSize(px)
	if b.position != nil {
		b.DrawBoard()
	}
}

// SetSquareColors resolves the theme value and redraws.
func (b *Board) SetSquareColors(v any) error {
	theme, err := ResolveSquareColors(v)
	if err != nil {
		return err
	}
	b.theme = theme
	b.fills = map[bool]*image.RGBA{}
	if b.position != nil {
		b.DrawBoard()
	}
	return nil
}

// SetPieceTheme selects the piece asset family.
func (b *Board) SetPieceTheme(t PieceTheme) error {
	if !t.valid() {
		return &InvalidConfigurationError{Field: "piece theme", Reason: fmt.Sprintf("unknown theme %q", string(t))}
	}
	b.pieceTheme = t
	if b.position != nil {
		b.DrawBoard()
	}
	return nil
}

// SetPosition replaces the rendered position and redraws every square.
func (b *Board) SetPosition(position *nchess.Board) error {
	if position == nil {
		return &InvalidConfigurationError{Field: "board position", Reason: "nil board"}
	}
	b.position = position
	b.DrawBoard()
	return nil
}

// DrawBoard redraws the full board from scratch.
func (b *Board) DrawBoard() {
	b.canvas = image.NewRGBA(image.Rect(0, 0, b.size, b.size))
	b.DrawSquares()
}

// DrawSquares redraws the listed squares, or all 64 when none are given.
func (b *Board) DrawSquares(squares ...nchess.Square) {
	if len(squares) == 0 {
		for sq := 0; sq < 64; sq++ {
			b.DrawSquare(nchess.Square(sq))
		}
		return
	}
	for _, sq := range squares {
		b.DrawSquare(sq)
	}
}

// DrawSquare pastes the cached square fill and, when occupied, the piece
// icon on top of it.
func (b *Board) DrawSquare(sq nchess.Square) {
	crd := b.SquarePosition(sq, false)
	rect := image.Rect(crd.X, crd.Y, crd.X+b.sq, crd.Y+b.sq)
	draw.Draw(b.canvas, rect, b.squareFill(b.SquareColor(sq)), image.Point{}, draw.Src)

	piece := b.position.Piece(sq)
	if piece == nchess.NoPiece {
		return
	}
	img, err := b.cache.Image(pieceAssetName(b.pieceTheme, piece), b.sq)
	if err != nil {
		return
	}
	draw.Draw(b.canvas, rect, img, image.Point{}, draw.Over)
}

// SquarePosition maps a square to its top-left (or center) pixel,
// flipping both axes when the board is reversed.
func (b *Board) SquarePosition(sq nchess.Square, center bool) geom.Coord {
	rankFlip, fileFlip := 7, 0
	if b.reverse {
		rankFlip, fileFlip = 0, 7
	}
	row := absInt(int(sq.Rank()) - rankFlip)
	col := absInt(int(sq.File()) - fileFlip)

	offset := 0
	if center {
		offset = b.sq / 2
	}
	return geom.Coord{X: col*b.sq + offset, Y: row*b.sq + offset}
}

// SquareColor reports whether the square is a light square.
func (b *Board) SquareColor(sq nchess.Square) bool {
	return int(sq)%2 != int(sq)/8%2
}

func (b *Board) squareFill(white bool) *image.RGBA {
	if fill, ok := b.fills[white]; ok {
		return fill
	}
	fill := image.NewRGBA(image.Rect(0, 0, b.sq, b.sq))
	draw.Draw(fill, fill.Bounds(), image.NewUniform(b.theme.SquareColor(white)), image.Point{}, draw.Src)
	b.fills[white] = fill
	return fill
}

// DrawArrow draws a shortened, width-scaled arrow between the centers of
// two squares. Each arrow is built on its own mask and alpha-composited
// onto the canvas, so overlapping arrows accumulate color.
func (b *Board) DrawArrow(from, to nchess.Square, clr color.NRGBA) {
	mask := image.NewRGBA(b.canvas.Bounds())
	plot := setPlot(mask, clr)

	fromCrd := b.SquarePosition(from, true)
	toCrd := b.SquarePosition(to, true)

	// Shaft, shortened so the head does not overlap the target center.
	start, end := geom.ShortenLine(fromCrd, toCrd, b.sq/2)
	drawThickLine(start, end, float64(b.sq)/4, plot)

	// Head: two corners rotated onto the line's angle around the tip.
	angle := geom.AngleBetween(fromCrd, toCrd)
	tip := toCrd
	left := geom.RotateAround(geom.Coord{X: toCrd.X - b.sq/2, Y: toCrd.Y - b.sq/3}, angle, tip)
	right := geom.RotateAround(geom.Coord{X: toCrd.X - b.sq/2, Y: toCrd.Y + b.sq/3}, angle, tip)
	fillTriangle(coordF(tip), coordF(left), coordF(right), plot)

	draw.Draw(b.canvas, b.canvas.Bounds(), mask, image.Point{}, draw.Over)
}

// DrawNAG overlays a move-quality glyph near the square's top-right
// corner, flipped inward at the board edges so it stays on canvas.
func (b *Board) DrawNAG(nag NAG, sq nchess.Square) error {
	if !nag.valid() {
		return &InvalidConfigurationError{Field: "nag", Reason: fmt.Sprintf("unknown glyph %q", string(nag))}
	}
	crd := b.SquarePosition(sq, false)
	x, y := crd.X, crd.Y
	if x < b.sq*7 {
		x += int(float64(b.sq) * 0.75)
	} else {
		x += b.sq / 2
	}
	if y > 0 {
		y -= b.sq / 4
	}

	icon, err := b.nagIcon(nag, b.sq/2)
	if err != nil {
		return err
	}
	rect := image.Rect(x, y, x+b.sq/2, y+b.sq/2)
	draw.Draw(b.canvas, rect, icon, image.Point{}, draw.Over)
	return nil
}

func (b *Board) nagIcon(nag NAG, size int) (image.Image, error) {
	return b.cache.ImageFunc("nags/"+string(nag), size, func() (image.Image, error) {
		text, fill := nag.glyph()
		icon := image.NewRGBA(image.Rect(0, 0, size, size))
		drawDisc(geom.Coord{X: size / 2, Y: size / 2}, size/2-1, setPlot(icon, fill))

		face, err := fonts.Face(float64(size) * 0.62)
		if err != nil {
			return nil, err
		}
		defer face.Close()
		drawText(icon, text, face, color.White, size/2, size/2, anchorCenterMiddle)
		return icon, nil
	})
}

// Image returns the rendered board raster.
func (b *Board) Image() *image.RGBA { return b.canvas }

func pieceAssetName(theme PieceTheme, piece nchess.Piece) string {
	var prefix string
	if piece.Color() == nchess.White {
		prefix = "w"
	} else {
		prefix = "b"
	}

	var suffix string
	switch piece.Type() {
	case nchess.King:
		suffix = "k"
	case nchess.Queen:
		suffix = "q"
	case nchess.Rook:
		suffix = "r"
	case nchess.Bishop:
		suffix = "b"
	case nchess.Knight:
		suffix = "n"
	case nchess.Pawn:
		suffix = "p"
	}

	return fmt.Sprintf("pieces/%s/%s%s", string(theme), prefix, suffix)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
