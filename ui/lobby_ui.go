package ui

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/automoto/flaparena/components"
	cfg "github.com/automoto/flaparena/config"
	"github.com/automoto/flaparena/systems"
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// LobbyUI holds the ebitenui interface for the lobby roster
type LobbyUI struct {
	UI    *ebitenui.UI
	Lobby *components.LobbyData

	// Callbacks
	OnReady func()
	OnInfo  func()
	OnPlay  func()
	OnQuit  func()

	// Widget references for updates
	rosterContainer *widget.Container
	readyButton     *widget.Button
	statusLabel     *widget.Label
	summaryLabel    *widget.Label

	titleFace  text.Face
	normalFace text.Face
	smallFace  text.Face

	renderedVersion uint64
	initialized     bool
}

func NewLobbyUI(lobby *components.LobbyData) *LobbyUI {
	lui := &LobbyUI{Lobby: lobby}

	lui.loadFonts()
	lui.buildUI()

	return lui
}

func (lui *LobbyUI) loadFonts() {
	fontSource, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic(err)
	}

	lui.titleFace = &text.GoTextFace{
		Source: fontSource,
		Size:   36,
	}
	lui.normalFace = &text.GoTextFace{
		Source: fontSource,
		Size:   20,
	}
	lui.smallFace = &text.GoTextFace{
		Source: fontSource,
		Size:   16,
	}
}

func (lui *LobbyUI) buildUI() {
	rootContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(cfg.SkyBlue)),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	contentContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(16)),
			widget.RowLayoutOpts.Spacing(10),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)

	titleLabel := widget.NewLabel(
		widget.LabelOpts.Text("LOBBY", &lui.titleFace, &widget.LabelColor{
			Idle: cfg.White,
		}),
	)
	contentContainer.AddChild(titleLabel)

	lui.summaryLabel = widget.NewLabel(
		widget.LabelOpts.Text("", &lui.smallFace, &widget.LabelColor{
			Idle: cfg.White,
		}),
	)
	contentContainer.AddChild(lui.summaryLabel)

	padding := widget.Insets{Top: 8, Bottom: 8, Left: 12, Right: 12}
	lui.rosterContainer = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(cfg.BlackOverlay)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(&padding),
			widget.RowLayoutOpts.Spacing(4),
		)),
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(420, 40)),
	)
	contentContainer.AddChild(lui.rosterContainer)

	contentContainer.AddChild(lui.buildButtonsContainer())

	lui.statusLabel = widget.NewLabel(
		widget.LabelOpts.Text("", &lui.smallFace, &widget.LabelColor{
			Idle: cfg.Yellow,
		}),
	)
	contentContainer.AddChild(lui.statusLabel)

	rootContainer.AddChild(contentContainer)

	lui.UI = &ebitenui.UI{
		Container: rootContainer,
	}
}

func (lui *LobbyUI) buildButtonsContainer() *widget.Container {
	container := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(10),
		)),
	)

	lui.readyButton = lui.newButton("Ready", lui.readyButtonImage(), func() {
		if lui.OnReady != nil {
			lui.OnReady()
		}
	})
	container.AddChild(lui.readyButton)

	container.AddChild(lui.newButton("Lobby Info", lui.buttonImage(), func() {
		if lui.OnInfo != nil {
			lui.OnInfo()
		}
	}))
	container.AddChild(lui.newButton("Play", lui.buttonImage(), func() {
		if lui.OnPlay != nil {
			lui.OnPlay()
		}
	}))
	container.AddChild(lui.newButton("Quit", lui.buttonImage(), func() {
		if lui.OnQuit != nil {
			lui.OnQuit()
		}
	}))

	return container
}

func (lui *LobbyUI) newButton(label string, img *widget.ButtonImage, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(110, 32)),
		widget.ButtonOpts.Image(img),
		widget.ButtonOpts.Text(label, &lui.normalFace, &widget.ButtonTextColor{
			Idle:     color.RGBA{255, 255, 255, 255},
			Hover:    color.RGBA{255, 255, 200, 255},
			Pressed:  color.RGBA{200, 200, 200, 255},
			Disabled: color.RGBA{120, 120, 120, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onClick()
		}),
	)
}

func (lui *LobbyUI) buttonImage() *widget.ButtonImage {
	return &widget.ButtonImage{
		Idle:     image.NewNineSliceColor(color.RGBA{60, 60, 80, 255}),
		Hover:    image.NewNineSliceColor(color.RGBA{80, 80, 100, 255}),
		Pressed:  image.NewNineSliceColor(color.RGBA{40, 40, 60, 255}),
		Disabled: image.NewNineSliceColor(color.RGBA{40, 40, 40, 255}),
	}
}

func (lui *LobbyUI) readyButtonImage() *widget.ButtonImage {
	return &widget.ButtonImage{
		Idle:     image.NewNineSliceColor(color.RGBA{40, 100, 40, 255}),
		Hover:    image.NewNineSliceColor(color.RGBA{60, 140, 60, 255}),
		Pressed:  image.NewNineSliceColor(color.RGBA{30, 80, 30, 255}),
		Disabled: image.NewNineSliceColor(color.RGBA{40, 50, 40, 255}),
	}
}

// SetStatus shows connection state under the buttons.
func (lui *LobbyUI) SetStatus(s string) {
	if lui.statusLabel != nil {
		lui.statusLabel.Label = s
	}
}

// UpdateUI rebuilds the roster rows when the roster changed since the last
// call.
func (lui *LobbyUI) UpdateUI() {
	if lui.initialized && lui.renderedVersion == lui.Lobby.Version {
		return
	}
	lui.renderedVersion = lui.Lobby.Version

	users := systems.Users(lui.Lobby)
	lui.rosterContainer.RemoveChildren()
	if len(users) == 0 {
		lui.rosterContainer.AddChild(widget.NewLabel(
			widget.LabelOpts.Text("Waiting for players...", &lui.smallFace, &widget.LabelColor{
				Idle: color.RGBA{180, 180, 180, 255},
			}),
		))
	}
	local := systems.LocalUser(lui.Lobby)
	for _, u := range users {
		lui.rosterContainer.AddChild(lui.rosterRow(u, local != nil && local.ID == u.ID))
	}

	ready := 0
	for _, u := range users {
		if u.Ready {
			ready++
		}
	}
	lui.summaryLabel.Label = fmt.Sprintf("%d players, %d ready", len(users), ready)
	lui.readyButton.GetWidget().Disabled = local != nil && local.Ready
}

func (lui *LobbyUI) rosterRow(u components.LobbyUser, isLocal bool) *widget.Label {
	name := u.Username
	if isLocal {
		name += " (you)"
	}
	state := "not ready"
	clr := cfg.LightRed
	if u.Ready {
		state = "ready"
		clr = cfg.LightGreen
	}
	if !u.Connected {
		state = "disconnected"
		clr = color.RGBA{150, 150, 150, 255}
	}
	return widget.NewLabel(
		widget.LabelOpts.Text(fmt.Sprintf("%-20s %s", name, state), &lui.normalFace, &widget.LabelColor{
			Idle: clr,
		}),
	)
}

func (lui *LobbyUI) Update() {
	lui.UI.Update()
	lui.UpdateUI()
	lui.initialized = true
}
