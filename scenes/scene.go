package scenes

import "github.com/hajimehoshi/ebiten/v2"

// SceneChanger allows scenes to trigger transitions
type SceneChanger interface {
	ChangeScene(scene interface{})
}

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

// Closer is implemented by scenes that hold a clock or a connection. The host
// calls it when the window closes mid-scene.
type Closer interface {
	Close()
}

// Quitter is implemented by the game host; scenes call it to exit cleanly.
type Quitter interface {
	Quit()
}
