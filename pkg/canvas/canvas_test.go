package canvas

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/dfa-toolkit/pkg/automaton"
	"github.com/ha1tch/dfa-toolkit/pkg/visual"
)

func build(t *testing.T) (*automaton.Automaton, *Scene, *visual.Sync) {
	t.Helper()
	a := automaton.New(automaton.WithIDSource(automaton.SequentialIDs("s")))
	sc := NewScene(visual.DefaultPalette())
	sy := visual.NewSync(a, sc)

	q0, q1 := a.AddState(), a.AddState()
	require.NoError(t, a.SetStartState(q0.ID))
	_, err := a.ToggleAccepting(q1.ID)
	require.NoError(t, err)
	_, err = a.ConfirmTransition(q0.ID, q1.ID, "a")
	require.NoError(t, err)
	_, err = a.ConfirmTransition(q0.ID, q1.ID, "b")
	require.NoError(t, err)
	_, err = a.ConfirmTransition(q1.ID, q0.ID, "c")
	require.NoError(t, err)
	_, err = a.ConfirmTransition(q1.ID, q1.ID, "d")
	require.NoError(t, err)
	return a, sc, sy
}

func TestSceneFollowsSync(t *testing.T) {
	a, sc, sy := build(t)
	p := visual.DefaultPalette()

	require.Len(t, sc.Nodes(), 2)
	require.Len(t, sc.Edges(), 3)
	assert.Equal(t, "a, b", sc.Edges()[0].Label)
	assert.True(t, sc.Edges()[2].SelfLoop)
	assert.Equal(t, p.Start, sc.Nodes()[0].Fill)
	assert.Equal(t, p.Accepting, sc.Nodes()[1].Fill)

	sy.Highlight(a.TestRun("a"))
	assert.Equal(t, p.OnPath, sc.Nodes()[0].Fill)
	assert.Equal(t, p.Final, sc.Nodes()[1].Fill)
	assert.Equal(t, p.PathEdge, sc.Edges()[0].Stroke)
	assert.Equal(t, 3.0, sc.Edges()[0].Width)
	assert.Equal(t, p.Edge, sc.Edges()[1].Stroke)

	assert.Equal(t, "q0 #ffb6c1\nq1 #ff69b4\nq0 -> q1 [a, b] #ff69b4\nq1 -> q0 [c] #000000\nq1 -> q1 [d] #000000\n", sc.Summary())

	a.Clear()
	assert.Empty(t, sc.Nodes())
	assert.Empty(t, sc.Edges())
}

func TestSceneNodeAtAndMove(t *testing.T) {
	_, sc, _ := build(t)
	q0 := sc.Nodes()[0]

	assert.Equal(t, q0, sc.NodeAt(q0.Pos.X+10, q0.Pos.Y-10))
	assert.Nil(t, sc.NodeAt(q0.Pos.X+NodeRadius+1, q0.Pos.Y))

	sc.MoveNode(q0.Handle, automaton.Position{X: 500, Y: 500})
	assert.Equal(t, q0, sc.NodeAt(500, 500))
}

func TestSceneBounds(t *testing.T) {
	sc := NewScene(visual.DefaultPalette())
	minX, minY, maxX, maxY := sc.Bounds()
	assert.Zero(t, minX+minY+maxX+maxY)

	h := sc.CreateNode("q0", automaton.Position{X: 100, Y: 100})
	minX, minY, maxX, maxY = sc.Bounds()
	assert.Equal(t, []float64{70, 70, 130, 130}, []float64{minX, minY, maxX, maxY})

	sc.CreateEdge(h, h, "x", true)
	_, minY, _, _ = sc.Bounds()
	assert.Less(t, minY, 70.0, "self loop extends the top")
}

func TestWritePNG(t *testing.T) {
	_, sc, _ := build(t)

	var buf bytes.Buffer
	opts := PNGOptions{Width: 320, Height: 200, Padding: 20, FontSize: 12, Supersample: 1}
	require.NoError(t, sc.WritePNG(&buf, opts))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	// The corner stays background.
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
}

func TestImageFillsNodes(t *testing.T) {
	sc := NewScene(visual.DefaultPalette())
	h := sc.CreateNode("", automaton.Position{X: 0, Y: 0})
	fill := visual.MustColor("#00ff00")
	sc.SetNodeFill(h, fill)

	img, err := sc.Image(PNGOptions{Width: 200, Height: 200, Supersample: 1})
	require.NoError(t, err)
	r, g, b, _ := img.At(100, 100).RGBA()
	assert.Equal(t, []uint32{0, 0xffff, 0}, []uint32{r, g, b})
}

func TestImageSupersampledSize(t *testing.T) {
	_, sc, _ := build(t)
	img, err := sc.Image(PNGOptions{Width: 160, Height: 120, Supersample: 2})
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())
}

func TestSVG(t *testing.T) {
	a, sc, sy := build(t)
	sy.Highlight(a.TestRun("a"))

	out := sc.SVG(SVGOptions{Width: 400, Height: 300, Padding: 20, FontSize: 14, Title: "a<b"})
	assert.True(t, strings.HasPrefix(out, "<svg "))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
	assert.Equal(t, 2, strings.Count(out, "<circle "))
	assert.Equal(t, 3, strings.Count(out, "<polygon "))
	assert.Contains(t, out, `fill="#ff69b4"`)
	assert.Contains(t, out, ">a, b</text>")
	assert.Contains(t, out, ">a&lt;b</text>")
	assert.Contains(t, out, " C", "self loop is a cubic path")
	assert.Contains(t, out, " Q", "paired edges curve")
}

func TestSVGEmptyScene(t *testing.T) {
	sc := NewScene(visual.DefaultPalette())
	out := sc.SVG(SVGOptions{})
	assert.Contains(t, out, `width="800"`)
	assert.NotContains(t, out, "<circle")
}
