package mapper

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popup-designer/internal/designer/foldstate"
	"popup-designer/internal/designer/models"
	"popup-designer/internal/designer/motion"
	"popup-designer/internal/designer/pattern"
	"popup-designer/internal/designer/placement"
)

func defaultPattern() models.LineSet {
	s := foldstate.New(foldstate.DefaultOptions())
	return pattern.Derive(s.Card(), s.Elements())
}

func TestRenderSVGNamesEveryLine(t *testing.T) {
	svg, err := NewRenderer().RenderSVG(defaultPattern())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(svg, `<?xml`))
	for _, id := range []string{"cut_border", "fold_centerline", "cut_1_left", "cut_1_right", "fold_1_top", "fold_1_bottom"} {
		assert.Contains(t, svg, `id="`+id+`"`)
	}
	assert.Equal(t, 5, strings.Count(svg, "<line "))
	assert.Equal(t, 3, strings.Count(svg, `stroke-dasharray="4 3"`))
	assert.Contains(t, svg, "Valley Fold (Center)")
	assert.Contains(t, svg, "W:35 D:30")
	assert.Contains(t, svg, ">#1</text>")
	assert.Contains(t, svg, `viewBox="0 0 160 220"`)
}

func TestRenderSVGEmptyPattern(t *testing.T) {
	_, err := NewRenderer().RenderSVG(models.LineSet{})
	assert.Error(t, err)
}

func TestSegmentID(t *testing.T) {
	assert.Equal(t, "cut_7_left", SegmentID(models.Segment{Kind: models.LineCut, Role: "cut-left", ElementID: 7}))
	assert.Equal(t, "fold_2_bottom", SegmentID(models.Segment{Kind: models.LineFold, Role: "fold-bottom", ElementID: 2}))
	assert.Equal(t, "fold_centerline", SegmentID(models.Segment{Kind: models.LineFold, Role: "centerline"}))
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestRenderPNGSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer().RenderPNG(&buf, defaultPattern(), 4))

	img := decodePNG(t, buf.Bytes())
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 880, img.Bounds().Dy())

	r, g, b, _ := img.At(2, 2).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})

	// The sheet border at x = 10mm is stroked in the cut colour.
	red := false
	for x := 37; x <= 43; x++ {
		r, g, _, _ := img.At(x, 400).RGBA()
		if r > g+0x2000 {
			red = true
		}
	}
	assert.True(t, red)
}

func TestRenderPNGCapsSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer().RenderPNG(&buf, defaultPattern(), 1000))

	img := decodePNG(t, buf.Bytes())
	assert.LessOrEqual(t, img.Bounds().Dx(), MaxRasterSide)
	assert.LessOrEqual(t, img.Bounds().Dy(), MaxRasterSide)
}

func TestRenderPreviewDrawsGeometry(t *testing.T) {
	s := foldstate.New(foldstate.DefaultOptions())
	g := placement.Derive(placement.FromState(s, 0))

	view := motion.NewView()
	view.Orbit(0.4, 0.6)

	var buf bytes.Buffer
	require.NoError(t, NewRenderer().RenderPreview(&buf, g, view, 256))

	img := decodePNG(t, buf.Bytes())
	require.Equal(t, 256, img.Bounds().Dx())

	bg := img.At(0, 0)
	drawn := 0
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			if img.At(x, y) != bg {
				drawn++
			}
		}
	}
	assert.Greater(t, drawn, 100)
}

func TestCornersOfUnrotatedBox(t *testing.T) {
	p := models.Placement{}
	p.Position.X, p.Size.X, p.Size.Y, p.Size.Z = 10, 2, 4, 6
	pts := corners(p)
	assert.InDelta(t, 9.0, pts[0].x, 1e-9)
	assert.InDelta(t, -2.0, pts[0].y, 1e-9)
	assert.InDelta(t, -3.0, pts[0].z, 1e-9)
	assert.InDelta(t, 11.0, pts[7].x, 1e-9)
	assert.InDelta(t, 3.0, pts[7].z, 1e-9)
}

func TestBuildGuide(t *testing.T) {
	s := foldstate.New(foldstate.DefaultOptions())
	s.SetProjectName("Birthday")
	g := BuildGuide(s)

	assert.Equal(t, 28000.0, g.Stats.Area)
	assert.Equal(t, 12.0, g.Stats.PopDepth)
	assert.Equal(t, 1, g.Stats.Elements)
	assert.InDelta(t, 800, g.Stats.CutLength, 1e-9)
	assert.InDelta(t, 210, g.Stats.FoldLength, 1e-9)
	assert.NotEmpty(t, g.Hint)
	assert.Equal(t, recommendations[models.MechanismParallel], g.Recommendation)
	assert.Equal(t, 1, g.PaperLayers)

	text := g.Text()
	assert.Contains(t, text, "Birthday")
	assert.Contains(t, text, "Parallel fold")
	assert.Contains(t, text, "W:35 D:30")
	assert.Contains(t, text, "Element #1")
	assert.Contains(t, text, "300GSM")
}

func TestBuildGuideEmptyCard(t *testing.T) {
	s := foldstate.New(foldstate.DefaultOptions())
	require.NoError(t, s.SetMechanism(models.MechanismEmpty))

	g := BuildGuide(s)
	assert.Empty(t, g.Hint)
	assert.Equal(t, defaultRecommendation, g.Recommendation)
	assert.Contains(t, g.Text(), "Pop-up card")
}

func TestPopDepth(t *testing.T) {
	assert.Equal(t, 10.0, PopDepth(1))
	assert.Equal(t, 18.0, PopDepth(5))
	assert.Equal(t, 5.0, PopDepth(-3))
}
