package systems

import (
	"math/rand"
	"testing"

	"github.com/automoto/flaparena/components"
	cfg "github.com/automoto/flaparena/config"
	"github.com/automoto/flaparena/systems/factory"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

func newTestWorld(t *testing.T, width, height float64) (donburi.World, *donburi.Entry) {
	t.Helper()
	w := donburi.NewWorld()
	factory.CreateCourse(w, width, height, rand.New(rand.NewSource(1)))
	bird := factory.CreateBird(w, cfg.Bird.StartX, cfg.Bird.StartY)
	return w, bird
}

func course(t *testing.T, w donburi.World) *components.CourseData {
	t.Helper()
	e, ok := components.Course.First(w)
	require.True(t, ok)
	return components.Course.Get(e)
}

func queueXs(w donburi.World) []float64 {
	var xs []float64
	for _, e := range Obstacles(w) {
		xs = append(xs, components.Object.Get(e).X)
	}
	return xs
}
